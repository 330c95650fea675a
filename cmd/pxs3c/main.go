// Command pxs3c is the desktop front-end for the pxs3c native emulator core.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
	"github.com/spf13/cobra"
)

const appName = "pxs3c"

var version = "dev"

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Front-end for the pxs3c emulator core",
		Long:          `Runs the pxs3c native core in a desktop window and manages its game library and settings.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := configureLogging(cmd.ErrOrStderr(), opts.logLevel); err != nil {
				return err
			}
			storage.Init(appName)
			storage.SetBaseDir(opts.dataDir)
			return storage.EnsureDirectories()
		},
	}

	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Data directory (defaults to the platform location)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(), newLibraryCmd(), newSettingsCmd(), newStageCmd())
	return root
}

// configureLogging replaces the default logger so every package logs through
// the same handler.
func configureLogging(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	log.SetDefault(log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          appName,
	}))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
