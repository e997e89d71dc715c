// Copyright © 2024 The Gide authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source contents by diagnostic SourceName. If nil,
	// os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	ew.printf("%s: %s\n", p.boldRed.Sprint("error"), p.bold.Sprint(d.Message))
	r.writeSpan(ew, d, p)

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeSpan(ew *errWriter, d Diagnostic, p palette) {
	line := d.Row + 1
	loc := fmt.Sprintf("%s:%d:%d", d.SourceName, line, d.Col+1)
	ew.printf("  %s %s\n", p.boldBlue.Sprint("-->"), loc)

	source, ok := r.readSourceLine(d.SourceName, line)
	if !ok {
		ew.printf("   %s\n", p.boldBlue.Sprint("|"))
		return
	}

	lineStr := fmt.Sprintf("%d", line)
	pad := strings.Repeat(" ", len(lineStr))
	gutter := p.boldBlue.Sprint(pad + " |")

	ew.printf(" %s\n", gutter)
	ew.printf(" %s  %s\n", p.boldBlue.Sprint(lineStr+" |"), strings.ReplaceAll(source, "\t", "    "))

	// The span always runs to the end of the line.
	runes := []rune(source)
	col := d.Col
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}
	underLen := len(runes) - col
	if underLen < 1 {
		underLen = 1
	}
	underPad := strings.Repeat(" ", displayWidth(string(runes[:col])))
	ew.printf(" %s  %s%s\n", gutter, underPad, p.boldRed.Sprint(strings.Repeat("^", underLen)))
	ew.printf(" %s\n", gutter)
}

func (r *Renderer) readSourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil || !utf8.Valid(data) {
		return "", false
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text(), true
		}
	}
	return "", false
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

// HoverHTML renders diagnostics as the HTML fragment shown when hovering a
// highlighted row. Rows are printed 1-based.
func HoverHTML(diags []Diagnostic) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "<div><b>%d:</b> %s</div>", d.Row+1, html.EscapeString(d.Message))
	}
	return sb.String()
}
