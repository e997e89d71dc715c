// Copyright © 2024 The Gide authors

package lsp

import (
	"context"
	"errors"

	"github.com/luthersystems/gide/hint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	v := doc.View()
	if !v.IsGo() {
		return nil, nil
	}

	loc, err := s.session.Definition(context.Background(), v, toOffset(v.Buffer, params.Position))
	if errors.Is(err, hint.ErrNoPosition) {
		// Builtins and unresolved symbols have no navigable source.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pos := protocol.Position{Line: safeUint(loc.Line - 1), Character: safeUint(loc.Col - 1)}
	return protocol.Location{
		URI:   pathToURI(loc.File),
		Range: protocol.Range{Start: pos, End: pos},
	}, nil
}
