package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikitaolenych123-coder/pxs3c/native"
	"github.com/nikitaolenych123-coder/pxs3c/staging"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
	"github.com/nikitaolenych123-coder/pxs3c/standalone/host"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	coreEnv      = "PXS3C_CORE"
	closeTimeout = 5 * time.Second
)

var errNoCore = errors.New("no native core given, use --core or " + coreEnv)

type runOptions struct {
	core    string
	theme   string
	noChime bool
	width   int
	height  int
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	defaults := host.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the emulator window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.core, "core", "", "Path to the native core shared library (or $"+coreEnv+")")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "UI theme name")
	cmd.Flags().BoolVar(&opts.noChime, "no-chime", false, "Do not play a sound when a game is added")
	cmd.Flags().IntVar(&opts.width, "width", defaults.Width, "Initial window width")
	cmd.Flags().IntVar(&opts.height, "height", defaults.Height, "Initial window height")
	return cmd
}

// corePath resolves the core library from the flag, then the environment.
func (o *runOptions) corePath() (string, error) {
	if o.core != "" {
		return o.core, nil
	}
	if p := os.Getenv(coreEnv); p != "" {
		return p, nil
	}
	return "", errNoCore
}

func (o *runOptions) hostConfig() host.Config {
	cfg := host.DefaultConfig()
	cfg.Theme = o.theme
	cfg.Chime = !o.noChime
	cfg.Width = o.width
	cfg.Height = o.height
	return cfg
}

func runHost(parent context.Context, opts *runOptions) error {
	path, err := opts.corePath()
	if err != nil {
		return err
	}

	core, err := native.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := core.Close(); err != nil {
			log.Warnf("failed to unload native core: %v", err)
		}
	}()

	root, err := storage.GetStagingRoot()
	if err != nil {
		return err
	}
	if n, err := staging.SweepStale(root); err != nil {
		log.Warnf("failed to sweep stale staging directories: %v", err)
	} else if n > 0 {
		log.Infof("removed %d stale staging directories", n)
	}

	stager, err := staging.New(root, staging.NewFileOpener(nil))
	if err != nil {
		return err
	}

	library, err := storage.DefaultLibraryStore()
	if err != nil {
		stager.Sweep()
		return err
	}
	settings, err := storage.DefaultSettingsStore()
	if err != nil {
		stager.Sweep()
		return err
	}

	board := standalone.NewStatusBoard()
	loop := standalone.NewLoop()
	app, err := standalone.New(standalone.Options{
		Core:     core,
		Library:  library,
		Settings: settings,
		Stager:   stager,
		Display:  board,
		Loop:     loop,
	})
	if err != nil {
		stager.Sweep()
		return fmt.Errorf("failed to create front-end: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	game := host.NewGame(gctx, app, board, opts.hostConfig())

	// The loop outlives signals and watcher errors so Close can still run
	// the native teardown on it.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	group.Go(func() error { return loop.Run(loopCtx) })
	group.Go(func() error { return library.Watch(gctx, game.LibraryChanged) })

	log.Infof("using native core %s", core.Path())
	runErr := host.Run(game)

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	if err := app.Close(closeCtx); err != nil {
		log.Warnf("shutdown incomplete: %v", err)
	}
	cancel()

	stopLoop()
	stop()
	if err := group.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
