// Copyright © 2024 The Gide authors

package hint

import (
	"strings"
	"unicode"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// FormatDoc prepares a godoc comment for a markdown popup. Lines that start
// with a space or tab are treated as code and become indented blocks.
// Hard-wrapped prose is joined so the popup can wrap it itself.
func FormatDoc(doc string) string {
	var sb strings.Builder
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			line = strings.Trim(line, "\t")
			for !strings.HasPrefix(line, "    ") {
				line = " " + line
			}
			line = "\n" + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return joinSoftBreaks(strings.TrimSpace(sb.String()))
}

// joinSoftBreaks replaces a single newline with a space when it follows a
// word character or sentence punctuation and precedes a word character.
func joinSoftBreaks(s string) string {
	rs := []rune(s)
	for i, r := range rs {
		if r != '\n' || i == 0 || i == len(rs)-1 {
			continue
		}
		prev, next := rs[i-1], rs[i+1]
		if (isWordRune(prev) || strings.ContainsRune(".!?,;", prev)) && isWordRune(next) {
			rs[i] = ' '
		}
	}
	return string(rs)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WrapDoc renders documentation for a terminal: wrapped at width and
// indented by two spaces.
func WrapDoc(doc string, width int) string {
	return indent.String(wordwrap.String(strings.TrimSpace(doc), width), 2)
}
