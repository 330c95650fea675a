package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/nikitaolenych123-coder/pxs3c/staging"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newStageCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "stage <locator>...",
		Short: "Copy content into the scratch directory the way a load does",
		Long: `Stages each locator, extracting archives, and prints the staged paths.
The scratch directory is removed afterwards unless --keep is given, in which
case the next run sweeps it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := storage.GetStagingRoot()
			if err != nil {
				return err
			}

			stager, err := staging.New(root, staging.NewFileOpener(nil))
			if err != nil {
				return err
			}
			if !keep {
				defer stager.Sweep()
			}

			paths := make([]string, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.NumCPU())
			for i, locator := range args {
				g.Go(func() error {
					p, err := stager.Stage(ctx, locator)
					if err != nil {
						return fmt.Errorf("%s: %w", locator, err)
					}
					paths[i] = p
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, p := range paths {
				info, err := os.Stat(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", args[i], p, info.Size())
			}
			if keep {
				log.Infof("staged files kept in %s", stager.Dir())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "Leave the staged files in place")
	return cmd
}
