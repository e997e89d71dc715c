// Copyright © 2024 The Gide authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/gide/formatter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

type fmtMode struct {
	write bool
	diff  bool
	list  bool
}

// FmtCommand creates the "fmt" cobra command.
func FmtCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var (
		mode     fmtMode
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format Go source files with the configured formatter chain",
		Long: `Format Go source files by piping them through the configured formatter
commands (format_cmds), each one's output feeding the next.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.
A path ending in "/..." selects every .go file below that directory.

When a formatter rejects the source, its errors are shown against the
offending lines and the file is left untouched.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  gide fmt main.go                 Print formatted output
  gide fmt -w ./...                Format a whole tree in place
  gide fmt -l ./...                List files needing formatting
  cat main.go | gide fmt           Format from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := cfg.session()
			if err != nil {
				return err
			}
			f := session.Formatter()
			ctx := cmd.Context()

			if len(args) == 0 {
				return fmtStdin(ctx, f, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			expanded, err := expandArgs(args)
			if err != nil {
				return err
			}
			expanded = filterExcludes(expanded, excludes)

			failed := 0
			for _, path := range expanded {
				if err := fmtFile(ctx, f, path, mode, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be formatted", failed, len(expanded))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&mode.write, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	cmd.Flags().BoolVarP(&mode.diff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	cmd.Flags().BoolVarP(&mode.list, "list", "l", false,
		"List files whose formatting differs from the formatter's.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

func fmtStdin(ctx context.Context, f *formatter.Formatter, in io.Reader, stdout, stderr io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	out, err := f.FormatSource(ctx, src, "<stdin>")
	if err != nil {
		renderFormatError(stderr, "<stdin>", err, src)
		return fmt.Errorf("<stdin>: formatting failed")
	}
	_, err = stdout.Write(out)
	return err
}

func fmtFile(ctx context.Context, f *formatter.Formatter, path string, mode fmtMode, stdout, stderr io.Writer) error {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return err
	}
	out, err := f.FormatSource(ctx, src, path)
	if err != nil {
		renderFormatError(stderr, path, err, src)
		return err
	}

	changed := string(src) != string(out)

	switch {
	case mode.list:
		if changed {
			fmt.Fprintln(stdout, path)
		}
		return nil
	case mode.diff:
		if !changed {
			return nil
		}
		return printUnifiedDiff(stdout, path, src, out)
	case mode.write:
		if !changed {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			return err
		}
		return os.WriteFile(path, out, info.Mode().Perm())
	}

	_, err = stdout.Write(out)
	return err
}

// printUnifiedDiff writes a unified diff of the formatting change with
// three lines of context.
func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("%s: diff: %w", path, err)
	}
	_, err = io.WriteString(w, diff)
	return err
}

func init() {
	rootCmd.AddCommand(FmtCommand())
}
