// Copyright © 2024 The Gide authors

package lsp

import (
	"context"

	"github.com/luthersystems/gide/editor"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion handles the textDocument/completion request.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	v := doc.View()
	resp, err := s.session.Handle(context.Background(), editor.Event{
		Kind:  editor.OnQueryCompletion,
		View:  v,
		Point: toOffset(v.Buffer, params.Position),
	})
	if err != nil {
		return nil, err
	}

	items := make([]protocol.CompletionItem, 0, len(resp.Completions))
	for _, c := range resp.Completions {
		kind := mapCompletionItemKind(c.Class)
		item := protocol.CompletionItem{
			Label: c.Name,
			Kind:  &kind,
		}
		if c.Type != "" {
			detail := c.Type
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return items, nil
}

// mapCompletionItemKind maps a gocode candidate class to an LSP kind.
func mapCompletionItemKind(class string) protocol.CompletionItemKind {
	switch class {
	case "func":
		return protocol.CompletionItemKindFunction
	case "var":
		return protocol.CompletionItemKindVariable
	case "const":
		return protocol.CompletionItemKindConstant
	case "type":
		return protocol.CompletionItemKindClass
	case "package":
		return protocol.CompletionItemKindModule
	default:
		return protocol.CompletionItemKindText
	}
}
