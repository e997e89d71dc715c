// Copyright © 2024 The Gide authors

package lsp

import (
	"context"
	"fmt"
	"strings"

	"github.com/luthersystems/gide/editor"
	"github.com/luthersystems/gide/hint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover shows formatter errors on the hovered line followed by
// the documentation of the symbol under the cursor.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	v := doc.View()
	resp, err := s.session.Handle(context.Background(), editor.Event{
		Kind:  editor.OnHover,
		View:  v,
		Point: toOffset(v.Buffer, params.Position),
		Zone:  editor.ZoneText,
	})
	if err != nil {
		return nil, err
	}

	content := buildHoverContent(resp)
	if content == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}, nil
}

// buildHoverContent builds Markdown hover text.
func buildHoverContent(resp *editor.Response) string {
	var parts []string
	for _, d := range resp.Diagnostics {
		parts = append(parts, fmt.Sprintf("**%d:** %s", d.Row+1, d.Message))
	}
	if resp.Symbol != nil {
		parts = append(parts, symbolMarkdown(resp.Symbol))
	}
	return strings.Join(parts, "\n\n")
}

// symbolMarkdown renders a symbol's declaration and documentation with a
// link to its godoc page.
func symbolMarkdown(info *hint.SymbolInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "```go\n%s\n```", info.Decl)
	if doc := hint.FormatDoc(info.Doc); doc != "" {
		fmt.Fprintf(&sb, "\n\n%s", doc)
	}
	if info.Import != "" && !info.Builtin() {
		fmt.Fprintf(&sb, "\n\n[godoc](%s)", hint.DocURL(info))
	}
	return sb.String()
}
