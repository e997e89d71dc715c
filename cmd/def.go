// Copyright © 2024 The Gide authors

package cmd

import (
	"errors"
	"fmt"

	"github.com/luthersystems/gide/hint"
	"github.com/spf13/cobra"
)

// DefCommand creates the "def" cobra command.
func DefCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	return &cobra.Command{
		Use:   "def FILE OFFSET",
		Short: "Print where the symbol at a position is declared",
		Long: `Print the declaration site of the symbol at OFFSET, a character offset
into FILE, as file:line:col. Builtins have no declaration site.

Example:
  gide def main.go 120`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := cfg.session()
			if err != nil {
				return err
			}
			v, point, err := loadView(args[0], args[1])
			if err != nil {
				return err
			}
			loc, err := session.Definition(cmd.Context(), v, point)
			if errors.Is(err, hint.ErrNoPosition) {
				return fmt.Errorf("%s:%s: no definition found", args[0], args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc.String())
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(DefCommand())
}
