// Copyright © 2024 The Gide authors

// Package textbuf is an immutable text buffer addressed by character
// offsets and 0-based row/column pairs, the way editors address views.
// Out-of-range coordinates are clamped rather than rejected.
package textbuf

import (
	"strings"
	"unicode/utf8"
)

// Region is a half-open range [Begin, End) of character offsets.
type Region struct {
	Begin int
	End   int
}

// Len returns the number of characters covered by the region.
func (r Region) Len() int {
	if r.End < r.Begin {
		return 0
	}
	return r.End - r.Begin
}

// Contains reports whether offset lies within the region.
func (r Region) Contains(offset int) bool {
	return offset >= r.Begin && offset < r.End
}

// Buffer holds text along with a line index.
type Buffer struct {
	runes []rune
	lines []int // offset of the first character of each line
}

// New indexes text.
func New(text string) *Buffer {
	b := &Buffer{runes: []rune(text), lines: []int{0}}
	for i, r := range b.runes {
		if r == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}
	return b
}

// Text returns the buffer contents.
func (b *Buffer) Text() string { return string(b.runes) }

// Size returns the number of characters in the buffer.
func (b *Buffer) Size() int { return len(b.runes) }

// LineCount returns the number of lines. A trailing newline starts a new,
// empty line.
func (b *Buffer) LineCount() int { return len(b.lines) }

// All returns the region covering the whole buffer.
func (b *Buffer) All() Region { return Region{0, len(b.runes)} }

func (b *Buffer) clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= len(b.lines) {
		return len(b.lines) - 1
	}
	return row
}

// lineLen returns the length of row's text, excluding the line terminator.
func (b *Buffer) lineLen(row int) int {
	start := b.lines[row]
	end := len(b.runes)
	if row+1 < len(b.lines) {
		end = b.lines[row+1] - 1
	}
	if end > start && b.runes[end-1] == '\r' {
		end--
	}
	return end - start
}

// Offset converts a row/column pair to an absolute offset.
func (b *Buffer) Offset(row, col int) int {
	row = b.clampRow(row)
	if col < 0 {
		col = 0
	}
	if n := b.lineLen(row); col > n {
		col = n
	}
	return b.lines[row] + col
}

// LineEnd returns the offset of the end of row's text.
func (b *Buffer) LineEnd(row, col int) int {
	row = b.clampRow(row)
	return b.lines[row] + b.lineLen(row)
}

// RowCol converts an absolute offset to a row/column pair.
func (b *Buffer) RowCol(offset int) (row, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.runes) {
		offset = len(b.runes)
	}
	lo, hi := 0, len(b.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - b.lines[lo]
}

// Line returns the text of row without its terminator.
func (b *Buffer) Line(row int) string {
	row = b.clampRow(row)
	start := b.lines[row]
	return string(b.runes[start : start+b.lineLen(row)])
}

// LineRegion returns the region of the line containing offset, excluding
// the terminator.
func (b *Buffer) LineRegion(offset int) Region {
	row, _ := b.RowCol(offset)
	return Region{b.lines[row], b.lines[row] + b.lineLen(row)}
}

func (b *Buffer) clampRegion(r Region) Region {
	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		if n > len(b.runes) {
			return len(b.runes)
		}
		return n
	}
	r.Begin, r.End = clamp(r.Begin), clamp(r.End)
	if r.End < r.Begin {
		r.End = r.Begin
	}
	return r
}

// Substr returns the text covered by r.
func (b *Buffer) Substr(r Region) string {
	r = b.clampRegion(r)
	return string(b.runes[r.Begin:r.End])
}

// Replace returns a new buffer with r replaced by text.
func (b *Buffer) Replace(r Region, text string) *Buffer {
	r = b.clampRegion(r)
	var sb strings.Builder
	sb.WriteString(string(b.runes[:r.Begin]))
	sb.WriteString(text)
	sb.WriteString(string(b.runes[r.End:]))
	return New(sb.String())
}

// RegionOf builds a region from two row/column pairs.
func (b *Buffer) RegionOf(startRow, startCol, endRow, endCol int) Region {
	return Region{b.Offset(startRow, startCol), b.Offset(endRow, endCol)}
}

// ByteOffset converts a character offset to a byte offset into the UTF-8
// encoded text, as expected by gocode and gogetdoc.
func (b *Buffer) ByteOffset(offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.runes) {
		offset = len(b.runes)
	}
	n := 0
	for _, r := range b.runes[:offset] {
		n += utf8.RuneLen(r)
	}
	return n
}
