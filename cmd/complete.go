// Copyright © 2024 The Gide authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CompleteCommand creates the "complete" cobra command.
func CompleteCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	return &cobra.Command{
		Use:   "complete FILE OFFSET",
		Short: "List gocode completions at a position",
		Long: `List the completion candidates gocode offers at OFFSET, a character
offset into FILE. Each line holds a candidate name and its type separated
by a tab.

Example:
  gide complete main.go 214`,
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
			completions, err := session.Completions(cmd.Context(), v, point)
			if err != nil {
				return err
			}
			for _, c := range completions {
				fmt.Fprintln(cmd.OutOrStdout(), c.Label())
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(CompleteCommand())
}
