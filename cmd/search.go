// Copyright © 2024 The Gide authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/gide/config"
	"github.com/luthersystems/gide/search"
	"github.com/luthersystems/gide/toolexec"
	"github.com/spf13/cobra"
)

// SearchCommand creates the "search" cobra command.
func SearchCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var install int

	cmd := &cobra.Command{
		Use:   "search [flags] [QUERY]",
		Short: "Search godoc and GitHub for Go packages",
		Long: `Search godoc.org and GitHub for Go packages matching QUERY and list them
by popularity. Packages found by both indexes are listed once.

Without a QUERY, prompts for one and then offers to go get a result.
With --install N, the Nth result is installed with go get.

Set github_token (or GIDE_GITHUB_TOKEN) to raise GitHub's rate limit.

Examples:
  gide search yaml
  gide search --install 1 toml
  gide search`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cfg.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var rl *readline.Instance
			query := ""
			if len(args) == 1 {
				query = args[0]
			} else {
				rl, err = readline.NewEx(&readline.Config{
					Prompt: "Search packages: ",
					Stdin:  io.NopCloser(cmd.InOrStdin()),
					Stdout: out,
					Stderr: cmd.ErrOrStderr(),
				})
				if err != nil {
					return err
				}
				defer rl.Close() //nolint:errcheck // best-effort cleanup
				query, err = readPrompt(rl)
				if err != nil {
					return err
				}
			}
			query = strings.TrimSpace(query)
			if query == "" {
				return errors.New("empty search query")
			}

			pkgs, err := newSearchClient(cfg, settings).Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(pkgs) == 0 {
				fmt.Fprintf(out, "No packages for %q found.\n", query)
				return nil
			}
			printPackages(out, pkgs)

			if rl != nil && install == 0 {
				rl.SetPrompt(fmt.Sprintf("Install [1-%d, empty to skip]: ", len(pkgs)))
				answer, err := readPrompt(rl)
				if err != nil {
					return err
				}
				if install, err = pickPackage(answer, len(pkgs)); err != nil {
					return err
				}
			}
			if install == 0 {
				return nil
			}
			if install < 0 || install > len(pkgs) {
				return fmt.Errorf("--install %d: want a result between 1 and %d", install, len(pkgs))
			}
			return installPackage(cmd.Context(), cfg.toolRunner(settings), out, pkgs[install-1])
		},
	}

	cmd.Flags().IntVar(&install, "install", 0, "go get the Nth result (1-based).")
	return cmd
}

func newSearchClient(cfg *cmdConfig, settings *config.Config) *search.Client {
	return &search.Client{
		HTTP:      cfg.http,
		GoDocURL:  settings.GoDocURL,
		GitHubURL: settings.GitHubURL,
		Token:     settings.GitHubToken,
	}
}

// readPrompt reads one line, treating an interrupt as an empty answer.
func readPrompt(rl *readline.Instance) (string, error) {
	line, err := rl.ReadLine()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", nil
	}
	return line, err
}

// pickPackage parses the answer to the install prompt. Zero means skip.
func pickPackage(answer string, n int) (int, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("invalid choice %q: want a number between 1 and %d", answer, n)
	}
	return i, nil
}

func printPackages(w io.Writer, pkgs []search.Package) {
	for i, p := range pkgs {
		items := p.Items()
		fmt.Fprintf(w, "%2d. %s\n", i+1, items[0])
		for _, item := range items[1:] {
			fmt.Fprintf(w, "    %s\n", item)
		}
	}
}

func installPackage(ctx context.Context, runner toolexec.Runner, w io.Writer, p search.Package) error {
	path, err := search.GoGetPath(p)
	if err != nil {
		return err
	}
	in := &search.Installer{Runner: runner}
	if err := in.Install(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Installed %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(SearchCommand())
}
