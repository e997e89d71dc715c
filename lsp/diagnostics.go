// Copyright © 2024 The Gide authors

package lsp

import (
	"github.com/luthersystems/gide/diagnostic"
	"github.com/luthersystems/gide/textbuf"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagnosticSource = "gofmt"

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}
	s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)
	return nil
}

// textDocumentDidSave re-publishes whatever the last format left behind.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}
	v := doc.View()
	s.publish(v.ID, v.Buffer, s.session.Diagnostics(v.ID))
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.session.ClearDiagnostics(uri)
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	s.docs.Close(uri)
	return nil
}

// publish sends diags for a document. An empty list clears the client's
// markers.
func (s *Server) publish(uri string, buf *textbuf.Buffer, diags []diagnostic.Diagnostic) {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, convertDiagnostic(buf, d))
	}
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}

// convertDiagnostic converts a mapped formatter diagnostic to an LSP
// Diagnostic.
func convertDiagnostic(buf *textbuf.Buffer, d diagnostic.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    diagnosticRange(buf, d),
		Severity: severity(protocol.DiagnosticSeverityError),
		Source:   strPtr(diagnosticSource),
		Message:  d.Message,
	}
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}
