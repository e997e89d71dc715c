// Copyright © 2024 The Gide authors

// Package diagnostic maps the line-oriented error output of external Go
// tools (gofmt, goimports, goreturns, ...) onto positions in the buffer the
// tool's input was extracted from, and renders the result for the CLI and
// for editor popups. It has no dependency on the rest of gide so that any
// command can use it without creating import cycles.
package diagnostic

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// StdinPlaceholder is the file name Go tools print when their input was
// read from standard input.
const StdinPlaceholder = "<standard input>"

// errorPattern matches "<anything>:<row>:<col>: <message>". The leading
// group is greedy so the last row/col pair on the line wins.
var errorPattern = regexp.MustCompile(`^.*:(?P<row>\d+):(?P<col>\d+):\s+(?P<message>.*)$`)

var (
	rowGroup     = errorPattern.SubexpIndex("row")
	colGroup     = errorPattern.SubexpIndex("col")
	messageGroup = errorPattern.SubexpIndex("message")
)

// SourceRegion is the position, in full-buffer coordinates, of the first
// character of the text that was handed to the tool.
type SourceRegion struct {
	StartRow int // 0-based
	StartCol int // 0-based
}

// LineResolver converts full-buffer coordinates into absolute offsets. It
// is supplied by whoever owns the buffer contents.
type LineResolver interface {
	// Offset returns the absolute offset of (row, col).
	Offset(row, col int) int
	// LineEnd returns the absolute offset of the end of row's text.
	LineEnd(row, col int) int
}

// Diagnostic is one problem reported by a tool, anchored in the full
// buffer. The span always runs from the reported column to the end of the
// reported line because the tools do not report token lengths.
type Diagnostic struct {
	Message    string
	Row        int // 0-based
	Col        int // 0-based
	SpanStart  int
	SpanEnd    int
	SourceName string // display name used in place of StdinPlaceholder
}

// Map parses toolOutput and returns one Diagnostic per matching line, in
// input order. Lines that do not have the "path:row:col: message" shape
// are skipped. The result is never nil.
//
// Only the first row of region inherits region.StartCol; every later row
// of the extracted text starts at column 0 of its buffer line.
func Map(toolOutput string, region SourceRegion, resolver LineResolver, displayName string) []Diagnostic {
	diags := []Diagnostic{}
	toolOutput = strings.ReplaceAll(toolOutput, StdinPlaceholder, displayName)
	for _, line := range strings.Split(toolOutput, "\n") {
		line = strings.TrimSuffix(line, "\r")
		m := errorPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		reportedRow := parseNumber(m[rowGroup])
		reportedCol := parseNumber(m[colGroup])

		localRow := reportedRow - 1
		col := reportedCol - 1
		if localRow == 0 {
			col += region.StartCol
		}
		row := region.StartRow + localRow

		diags = append(diags, Diagnostic{
			Message:    m[messageGroup],
			Row:        row,
			Col:        col,
			SpanStart:  resolver.Offset(row, col),
			SpanEnd:    resolver.LineEnd(row, col),
			SourceName: displayName,
		})
	}
	return diags
}

// ForRow returns the diagnostics anchored on row, preserving order.
func ForRow(diags []Diagnostic, row int) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Row == row {
			out = append(out, d)
		}
	}
	return out
}

// PanelText joins the diagnostic messages one per line, the way they are
// listed in an editor output panel.
func PanelText(diags []Diagnostic) string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return strings.Join(msgs, "\n")
}

// parseNumber converts a run of digits. Values too large for an int32
// saturate; the resolver clamps them to the end of the buffer.
func parseNumber(digits string) int {
	n, err := strconv.ParseInt(digits, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt32
	}
	return int(n)
}
