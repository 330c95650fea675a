package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/nikitaolenych123-coder/pxs3c/storage"
	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}
	cmd.AddCommand(newSettingsShowCmd(), newSettingsSetCmd(), newSettingsResetCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [key]",
		Short: "Print settings, or a single value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.DefaultSettingsStore()
			if err != nil {
				return err
			}
			s := store.Load()

			if len(args) == 1 {
				v, err := s.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, key := range storage.Keys() {
				v, _ := s.Get(key)
				fmt.Fprintf(w, "%s\t%s\n", key, v)
			}
			return w.Flush()
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.DefaultSettingsStore()
			if err != nil {
				return err
			}

			s := store.Load()
			if err := s.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := store.Save(s); err != nil {
				return err
			}

			v, _ := s.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v)
			return nil
		},
	}
}

func newSettingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.DefaultSettingsStore()
			if err != nil {
				return err
			}
			if err := store.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults")
			return nil
		},
	}
}
