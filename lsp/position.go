// Copyright © 2024 The Gide authors

package lsp

import (
	"strings"

	"fortio.org/safecast"
	"github.com/luthersystems/gide/diagnostic"
	"github.com/luthersystems/gide/textbuf"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Positions are exchanged in characters (runes), the unit textbuf uses.

// safeUint converts an int to protocol.UInteger, clamping values that do
// not fit to zero.
func safeUint(n int) protocol.UInteger {
	u, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		return 0
	}
	return u
}

// toPosition converts a buffer offset to an LSP position.
func toPosition(buf *textbuf.Buffer, offset int) protocol.Position {
	row, col := buf.RowCol(offset)
	return protocol.Position{Line: safeUint(row), Character: safeUint(col)}
}

// toOffset converts an LSP position to a buffer offset.
func toOffset(buf *textbuf.Buffer, pos protocol.Position) int {
	return buf.Offset(int(pos.Line), int(pos.Character))
}

// toRegion converts an LSP range to a buffer region.
func toRegion(buf *textbuf.Buffer, r protocol.Range) textbuf.Region {
	return textbuf.Region{Begin: toOffset(buf, r.Start), End: toOffset(buf, r.End)}
}

// diagnosticRange spans a mapped diagnostic from its position to the end
// of its line.
func diagnosticRange(buf *textbuf.Buffer, d diagnostic.Diagnostic) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(d.Row), Character: safeUint(d.Col)},
		End:   toPosition(buf, d.SpanEnd),
	}
}

// wholeDocument is the range covering all of buf.
func wholeDocument(buf *textbuf.Buffer) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   toPosition(buf, buf.Size()),
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
