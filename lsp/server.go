// Copyright © 2024 The Gide authors

// Package lsp implements a Language Server Protocol server for Go sources
// backed by an editor.Session. It provides formatting with diagnostics,
// hover, completion, signature help and go-to-definition.
package lsp

import (
	"os"
	"sync"

	"github.com/luthersystems/gide/editor"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const serverName = "gide-lsp"

// Server is the Gide language server.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server
	docs    *DocumentStore
	session *editor.Session
	rootURI string

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithExitFunc replaces os.Exit as the handler of the exit notification.
func WithExitFunc(fn func(int)) Option {
	return func(s *Server) { s.exitFn = fn }
}

// New creates a server that answers requests with session.
func New(session *editor.Session, opts ...Option) *Server {
	s := &Server{
		docs:    NewDocumentStore(),
		session: session,
		exitFn:  os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:           s.textDocumentDidOpen,
		TextDocumentDidChange:         s.textDocumentDidChange,
		TextDocumentDidSave:           s.textDocumentDidSave,
		TextDocumentDidClose:          s.textDocumentDidClose,
		TextDocumentWillSaveWaitUntil: s.textDocumentWillSaveWaitUntil,

		TextDocumentHover:           s.textDocumentHover,
		TextDocumentDefinition:      s.textDocumentDefinition,
		TextDocumentCompletion:      s.textDocumentCompletion,
		TextDocumentSignatureHelp:   s.textDocumentSignatureHelp,
		TextDocumentFormatting:      s.textDocumentFormatting,
		TextDocumentRangeFormatting: s.textDocumentRangeFormatting,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
	} else if params.RootPath != nil {
		s.rootURI = pathToURI(*params.RootPath)
	}

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose:         boolPtr(true),
		Change:            &syncKind,
		WillSaveWaitUntil: boolPtr(true),
		Save:              &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	// gocode completes selectors.
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters: []string{"("},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify stores the notification function from the context for
// later use.
func (s *Server) captureNotify(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
