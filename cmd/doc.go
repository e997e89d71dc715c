// Copyright © 2024 The Gide authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/gide/hint"
	"github.com/spf13/cobra"
)

// DocCommand creates the "doc" cobra command.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var (
		width  int
		follow string
	)

	cmd := &cobra.Command{
		Use:   "doc [flags] FILE OFFSET",
		Short: "Show the signature and documentation of a symbol",
		Long: `Show the declaration and documentation of the symbol at OFFSET, a
character offset into FILE, as reported by gogetdoc. Unsaved editor
contents are not needed: the file is read from disk.

Documentation is reflowed to --width columns. For symbols outside the
builtin package a godoc link is printed last.

With --follow, prints where a popup link leads instead: "goto-def" gives
the declaration's file position, "godoc" the documentation page if it
exists.

Examples:
  gide doc main.go 120
  gide doc --width 60 main.go 120
  gide doc --follow godoc main.go 120`,
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
			info, err := session.Signature(cmd.Context(), v, point)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if info == nil || info.Decl == "" {
				fmt.Fprintln(out, "No documentation found.")
				return nil
			}
			if follow != "" {
				return followLink(cmd, cfg, follow, info)
			}
			fmt.Fprintln(out, info.Decl)
			if doc := hint.WrapDoc(info.Doc, width); doc != "" {
				fmt.Fprintf(out, "\n%s\n", doc)
			}
			if info.Import != "" && !info.Builtin() {
				fmt.Fprintf(out, "\n%s\n", hint.DocURL(info))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Wrap documentation at this many columns.")
	cmd.Flags().StringVar(&follow, "follow", "",
		`Follow a popup link: "goto-def" or "godoc".`)
	return cmd
}

func followLink(cmd *cobra.Command, cfg *cmdConfig, href string, info *hint.SymbolInfo) error {
	switch href {
	case hint.HrefGotoDef, hint.HrefGodoc:
	default:
		return fmt.Errorf("--follow %q: want %q or %q", href, hint.HrefGotoDef, hint.HrefGodoc)
	}
	nav := &hint.Navigator{HTTP: cfg.http}
	act := nav.Navigate(cmd.Context(), href, info)
	switch act.Kind {
	case hint.ActionOpenFile, hint.ActionOpenURL:
		fmt.Fprintln(cmd.OutOrStdout(), act.Target)
	case hint.ActionStatus:
		fmt.Fprintln(cmd.ErrOrStderr(), act.Target)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
