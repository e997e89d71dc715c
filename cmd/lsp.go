// Copyright © 2024 The Gide authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/luthersystems/gide/lsp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple" // commonlog backend for the glsp transport
)

// LSPCommand creates the "lsp" cobra command. Embedders can pass
// WithRunner or WithConfig to control how Go tools are invoked.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the Gide Language Server Protocol server",
		Long: `Start an LSP server for Go source files.

The language server formats with the configured formatter chain and
reports formatter errors as diagnostics. It also provides hover
documentation, completion (gocode), signature help and go-to-definition
(gogetdoc).

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  gide lsp                           Start with stdio transport
  gide lsp --port 7998               Start with TCP on port 7998

Editor configuration:
  Configure a generic LSP client to run "gide lsp --stdio" for .go files.
  Enable format-on-save in the client to get willSaveWaitUntil edits.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			session, err := cfg.session()
			if err != nil {
				return err
			}
			verbosity := 0
			if session.Config().Debug {
				verbosity = 2
			}
			commonlog.Configure(verbosity, nil)

			chain := make([]string, 0, len(session.Formatter().Commands()))
			for _, c := range session.Formatter().Commands() {
				chain = append(chain, c.String())
			}
			log.WithField("format_cmds", strings.Join(chain, " | ")).Debug("formatter chain")

			srv := lsp.New(session)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.WithField("addr", addr).Info("Gide LSP server listening")
				return srv.RunTCP(addr)
			}
			return srv.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
