package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the game library",
	}
	cmd.AddCommand(newLibraryListCmd(), newLibraryAddCmd(), newLibraryScanCmd(), newLibraryClearCmd())
	return cmd
}

func newLibraryListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := storage.DefaultLibraryStore()
			if err != nil {
				return err
			}

			entries := storage.Filter(library.List(), search)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No games in library")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tKIND\tLOCATOR")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Title, e.Kind, e.Locator)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list entries whose title or filename contains this text")
	return cmd
}

func newLibraryAddCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <locator>",
		Short: "Add a game to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := storage.DefaultLibraryStore()
			if err != nil {
				return err
			}

			result, err := library.Add(args[0], title)
			if err != nil {
				if errors.Is(err, storage.ErrUnsupported) {
					return fmt.Errorf("not added: %w", err)
				}
				return err
			}

			switch result {
			case storage.Added:
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", args[0])
			case storage.AlreadyPresent:
				fmt.Fprintf(cmd.OutOrStdout(), "Already in library: %s\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Display title (defaults to the filename)")
	return cmd
}

func newLibraryScanCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "scan <dir>...",
		Short: "Add every executable and disc image found in directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := storage.DefaultLibraryStore()
			if err != nil {
				return err
			}

			scanner := standalone.NewScanner(library, args, recursive)
			stop := context.AfterFunc(cmd.Context(), scanner.Cancel)
			defer stop()
			go scanner.Run()
			for p := range scanner.Progress() {
				log.Debug(p.StatusText)
			}
			res := <-scanner.Done()

			for _, err := range res.Errors {
				log.Warnf("scan: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d, already present %d\n", res.Added, res.Present)
			if res.Cancelled {
				return errors.New("scan cancelled")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "Descend into subdirectories")
	return cmd
}

func newLibraryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every library entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := storage.DefaultLibraryStore()
			if err != nil {
				return err
			}
			if err := library.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Library cleared")
			return nil
		},
	}
}
