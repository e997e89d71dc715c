// Copyright © 2024 The Gide authors

package lsp

import (
	"context"
	"strings"

	"github.com/luthersystems/gide/editor"
	"github.com/luthersystems/gide/hint"
	"github.com/luthersystems/gide/textbuf"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentSignatureHelp handles textDocument/signatureHelp requests.
// It finds the call whose argument list holds the cursor and replays the
// typing of its "(" as an OnModified event.
func (s *Server) textDocumentSignatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	v := doc.View()
	if !v.IsGo() || !s.session.Config().SignatureTrigger.OnEdit() {
		return nil, nil
	}

	paren, argIdx, ok := enclosingCall(v.Buffer, toOffset(v.Buffer, params.Position))
	if !ok {
		return nil, nil
	}
	s.session.MarkSignatureTrigger(v.ID, paren+1)
	resp, err := s.session.Handle(context.Background(), editor.Event{
		Kind:  editor.OnModified,
		View:  v,
		Point: paren + 1,
	})
	if err != nil || resp.Symbol == nil {
		return nil, err
	}
	return buildSignatureHelp(resp.Symbol, argIdx), nil
}

// enclosingCall scans backwards from offset for the unmatched "(" that
// opens the current argument list. It returns the paren's offset and the
// 0-based index of the argument holding offset.
func enclosingCall(buf *textbuf.Buffer, offset int) (paren, argIdx int, ok bool) {
	text := []rune(buf.Substr(textbuf.Region{Begin: 0, End: offset}))
	depth := 0
	for i := len(text) - 1; i >= 0; i-- {
		switch text[i] {
		case ')', ']', '}':
			depth++
		case '[', '{':
			if depth == 0 {
				return 0, 0, false
			}
			depth--
		case '(':
			if depth == 0 {
				return i, argIdx, i > 0
			}
			depth--
		case ',':
			if depth == 0 {
				argIdx++
			}
		case ';':
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func buildSignatureHelp(info *hint.SymbolInfo, argIdx int) *protocol.SignatureHelp {
	sig := protocol.SignatureInformation{Label: info.Decl}
	if doc := strings.TrimSpace(info.Doc); doc != "" {
		sig.Documentation = protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hint.FormatDoc(doc),
		}
	}
	activeSig := protocol.UInteger(0)
	activeParam := safeUint(argIdx)
	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sig},
		ActiveSignature: &activeSig,
		ActiveParameter: &activeParam,
	}
}
