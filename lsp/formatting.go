// Copyright © 2024 The Gide authors

package lsp

import (
	"context"

	"github.com/luthersystems/gide/editor"
	"github.com/luthersystems/gide/textbuf"
	log "github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFormatting handles textDocument/formatting requests. It
// returns a single whole-document edit, or nil if no changes are needed
// or a formatter rejected the source. Rejections are published as
// diagnostics.
func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	v := doc.View()
	return s.formatEdits(v, v.Buffer.All())
}

// textDocumentRangeFormatting formats only the selected text. Diagnostics
// still land in document coordinates.
func (s *Server) textDocumentRangeFormatting(ctx *glsp.Context, params *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	v := doc.View()
	return s.formatEdits(v, toRegion(v.Buffer, params.Range))
}

// textDocumentWillSaveWaitUntil formats before saving when format-on-save
// is enabled. It never fails the save.
func (s *Server) textDocumentWillSaveWaitUntil(ctx *glsp.Context, params *protocol.WillSaveTextDocumentParams) ([]protocol.TextEdit, error) {
	s.captureNotify(ctx)
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	v := doc.View()
	resp, err := s.session.Handle(context.Background(), editor.Event{Kind: editor.OnSave, View: v})
	if err != nil {
		log.WithError(err).WithField("uri", v.ID).Warn("format on save failed")
		return nil, nil
	}
	return s.applyResponse(v, resp), nil
}

func (s *Server) formatEdits(v *editor.View, region textbuf.Region) ([]protocol.TextEdit, error) {
	if !v.IsGo() {
		return nil, nil
	}
	resp, err := s.session.FormatRegion(context.Background(), v, region)
	if err != nil {
		return nil, err
	}
	return s.applyResponse(v, resp), nil
}

// applyResponse publishes the diagnostics of a format and turns its
// output into edits.
func (s *Server) applyResponse(v *editor.View, resp *editor.Response) []protocol.TextEdit {
	if resp.Status != "" {
		log.WithField("uri", v.ID).Debug(resp.Status)
	}
	s.publish(v.ID, v.Buffer, resp.Diagnostics)
	if !resp.Changed {
		return nil
	}
	return []protocol.TextEdit{
		{
			Range:   wholeDocument(v.Buffer),
			NewText: resp.Text,
		},
	}
}
