// Copyright © 2024 The Gide authors

package cmd

import (
	"strings"

	"github.com/luthersystems/gide/search"
	"github.com/spf13/cobra"
)

// InstallCommand creates the "install" cobra command.
func InstallCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	return &cobra.Command{
		Use:   "install PATH",
		Short: "go get a package into the current module",
		Long: `Validate PATH as an import path and add it to the current module with
go get. Repository URLs such as https://github.com/BurntSushi/toml are
accepted and reduced to their import path.

Example:
  gide install gopkg.in/yaml.v3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cfg.load()
			if err != nil {
				return err
			}
			p := search.Package{Name: args[0], Path: args[0]}
			if hasScheme(args[0]) {
				p = search.Package{Name: args[0], URL: args[0]}
			}
			return installPackage(cmd.Context(), cfg.toolRunner(settings), cmd.OutOrStdout(), p)
		},
	}
}

func hasScheme(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

func init() {
	rootCmd.AddCommand(InstallCommand())
}
