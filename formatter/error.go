// Copyright © 2024 The Gide authors

package formatter

import (
	"fmt"
	"strings"

	"github.com/luthersystems/gide/diagnostic"
	"github.com/luthersystems/gide/toolexec"
)

// Error reports a formatter command that exited nonzero or wrote to
// stderr.
type Error struct {
	Command     toolexec.Command
	ExitCode    int
	Stderr      string
	Diagnostics []diagnostic.Diagnostic
}

// Status is the one-line summary shown in an editor status bar.
func (e *Error) Status() string {
	return fmt.Sprintf("%s failed with return code %d", e.Command.Name, e.ExitCode)
}

func (e *Error) Error() string {
	switch n := len(e.Diagnostics); {
	case n == 1:
		d := e.Diagnostics[0]
		return fmt.Sprintf("%s: %s:%d:%d: %s", e.Status(), d.SourceName, d.Row+1, d.Col+1, d.Message)
	case n > 1:
		d := e.Diagnostics[0]
		return fmt.Sprintf("%s: %s:%d:%d: %s (and %d more)", e.Status(), d.SourceName, d.Row+1, d.Col+1, d.Message, n-1)
	}
	// Nothing could be parsed; fall back to the raw output.
	if first := firstLine(e.Stderr); first != "" {
		return e.Status() + ": " + first
	}
	return e.Status()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
