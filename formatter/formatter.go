// Copyright © 2024 The Gide authors

// Package formatter runs a chain of external Go formatters (gofmt,
// goimports, goreturns, ...) over a region of a buffer. The output of each
// command is the input of the next. When a command fails, its error output
// is mapped back onto the buffer as diagnostics.
package formatter

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/luthersystems/gide/diagnostic"
	"github.com/luthersystems/gide/textbuf"
	"github.com/luthersystems/gide/toolexec"
	log "github.com/sirupsen/logrus"
)

// Config holds formatting configuration.
type Config struct {
	// Commands are command lines run in order, e.g. "gofmt -e -s".
	Commands []string
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{Commands: []string{"gofmt -e -s"}}
}

// Formatter formats Go source with a configured command chain.
type Formatter struct {
	commands []toolexec.Command
	runner   toolexec.Runner
}

// New creates a formatter. If cfg is nil, DefaultConfig() is used.
func New(cfg *Config, runner toolexec.Runner) (*Formatter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cmds, err := toolexec.ParseCommands(cfg.Commands)
	if err != nil {
		return nil, err
	}
	return &Formatter{commands: cmds, runner: runner}, nil
}

// Commands returns the parsed command chain.
func (f *Formatter) Commands() []toolexec.Command {
	return append([]toolexec.Command(nil), f.commands...)
}

// Format returns the formatted text of region. displayName replaces the
// tools' "<standard input>" in diagnostics. A failing command stops the
// chain and yields an *Error.
func (f *Formatter) Format(ctx context.Context, buf *textbuf.Buffer, region textbuf.Region, displayName string) (string, error) {
	code := []byte(buf.Substr(region))
	for _, c := range f.commands {
		res, err := f.runner.Run(ctx, c.Name, c.Args, code)
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.Name, err)
		}
		if res.Failed() {
			row, col := buf.RowCol(region.Begin)
			diags := diagnostic.Map(string(res.Stderr), diagnostic.SourceRegion{StartRow: row, StartCol: col}, buf, displayName)
			log.WithFields(log.Fields{
				"command":     c.String(),
				"exit_code":   res.ExitCode,
				"diagnostics": len(diags),
			}).Debug("formatter failed")
			return "", &Error{
				Command:     c,
				ExitCode:    res.ExitCode,
				Stderr:      string(res.Stderr),
				Diagnostics: diags,
			}
		}
		code = res.Stdout
	}
	return string(code), nil
}

// FormatRegions formats each region of buf and returns the resulting
// buffer. Regions must not overlap. They are applied back to front so
// earlier offsets stay valid.
func (f *Formatter) FormatRegions(ctx context.Context, buf *textbuf.Buffer, regions []textbuf.Region, displayName string) (*textbuf.Buffer, error) {
	out := make([]string, len(regions))
	for i, r := range regions {
		text, err := f.Format(ctx, buf, r, displayName)
		if err != nil {
			return nil, err
		}
		out[i] = text
	}
	order := make([]int, len(regions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return regions[order[a]].Begin > regions[order[b]].Begin
	})
	result := buf
	for _, i := range order {
		result = result.Replace(regions[i], out[i])
	}
	return result, nil
}

// FormatSource formats a whole file. filename is used for diagnostics.
func (f *Formatter) FormatSource(ctx context.Context, source []byte, filename string) ([]byte, error) {
	buf := textbuf.New(string(source))
	out, err := f.Format(ctx, buf, buf.All(), filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
