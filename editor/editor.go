// Copyright © 2024 The Gide authors

// Package editor reacts to editor events on Go views. A Session owns the
// tools and per-view state; Handle dispatches each event to a fixed set of
// handlers and reports what the editor should show.
package editor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/luthersystems/gide/config"
	"github.com/luthersystems/gide/diagnostic"
	"github.com/luthersystems/gide/formatter"
	"github.com/luthersystems/gide/hint"
	"github.com/luthersystems/gide/textbuf"
	"github.com/luthersystems/gide/toolexec"
	log "github.com/sirupsen/logrus"
)

// Kind identifies an editor event.
type Kind int

const (
	OnSave Kind = iota
	OnHover
	OnModified
	OnQueryCompletion
)

func (k Kind) String() string {
	switch k {
	case OnSave:
		return "save"
	case OnHover:
		return "hover"
	case OnModified:
		return "modified"
	case OnQueryCompletion:
		return "query-completion"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HoverZone is the part of the view under the mouse.
type HoverZone int

const (
	ZoneText HoverZone = iota
	ZoneGutter
	ZoneMargin
)

// Commands that rewrite indentation and should not trigger signatures.
const (
	CommandExpandTabs   = "expand_tabs"
	CommandUnexpandTabs = "unexpand_tabs"
)

// View is an open document.
type View struct {
	ID       string
	FileName string
	Buffer   *textbuf.Buffer
}

// IsGo reports whether the view holds Go source.
func (v *View) IsGo() bool {
	return v != nil && v.Buffer != nil && strings.HasSuffix(v.FileName, ".go")
}

// DisplayName is the name diagnostics refer to the view by.
func (v *View) DisplayName() string {
	return filepath.Base(v.FileName)
}

// Event is something that happened in a view.
type Event struct {
	Kind Kind
	View *View
	// Point is a character offset into the view.
	Point int
	// Zone is only meaningful for OnHover.
	Zone HoverZone
	// LastCommand is the editor command that caused an OnModified event.
	LastCommand string
}

// Response tells the editor what to show. The zero value means nothing.
type Response struct {
	// Text replaces the whole view when Changed is set.
	Text    string
	Changed bool
	// Status is a message for the status bar.
	Status string
	// ErrorPopup is HTML listing diagnostics for the hovered row.
	ErrorPopup string
	// Signature is markdown for a signature popup. Symbol is the symbol it
	// describes, for following its links.
	Signature string
	Symbol    *hint.SymbolInfo
	// Panel is the text of the error output panel. The panel is hidden when
	// a format succeeds.
	Panel       string
	Completions []hint.Completion
	Diagnostics []diagnostic.Diagnostic
}

type handlerFunc func(s *Session, ctx context.Context, ev *Event) (*Response, error)

var handlers = map[Kind]handlerFunc{
	OnSave:            (*Session).onSave,
	OnHover:           (*Session).onHover,
	OnModified:        (*Session).onModified,
	OnQueryCompletion: (*Session).onQueryCompletion,
}

// Session holds the tools and per-view state shared by all events.
type Session struct {
	cfg        *config.Config
	formatter  *formatter.Formatter
	completer  *hint.Completer
	documenter *hint.Documenter

	mu     sync.Mutex
	diags  map[string][]diagnostic.Diagnostic
	parens map[string]int
}

// NewSession builds a session from cfg. Tools are run with runner.
func NewSession(cfg *config.Config, runner toolexec.Runner) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, err := formatter.New(&formatter.Config{Commands: cfg.FormatCmds}, runner)
	if err != nil {
		return nil, err
	}
	return &Session{
		cfg:        cfg,
		formatter:  f,
		completer:  &hint.Completer{Runner: runner},
		documenter: &hint.Documenter{Runner: runner},
		diags:      make(map[string][]diagnostic.Diagnostic),
		parens:     make(map[string]int),
	}, nil
}

// Config returns the session settings.
func (s *Session) Config() *config.Config { return s.cfg }

// Formatter returns the session's formatter chain.
func (s *Session) Formatter() *formatter.Formatter { return s.formatter }

// Handle dispatches ev. Events on views that are not Go source get an
// empty response.
func (s *Session) Handle(ctx context.Context, ev Event) (*Response, error) {
	h, ok := handlers[ev.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown event %v", ev.Kind)
	}
	if !ev.View.IsGo() {
		return &Response{}, nil
	}
	log.WithFields(log.Fields{
		"event": ev.Kind,
		"view":  ev.View.ID,
		"point": ev.Point,
	}).Debug("editor event")
	return h(s, ctx, &ev)
}

// Diagnostics returns the diagnostics stored for a view by its last failed
// format.
func (s *Session) Diagnostics(viewID string) []diagnostic.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]diagnostic.Diagnostic(nil), s.diags[viewID]...)
}

// ClearDiagnostics forgets a view's diagnostics, e.g. when it is closed.
func (s *Session) ClearDiagnostics(viewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.diags, viewID)
	delete(s.parens, viewID)
}

func (s *Session) setDiagnostics(viewID string, diags []diagnostic.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(diags) == 0 {
		delete(s.diags, viewID)
		return
	}
	s.diags[viewID] = diags
}

// MarkSignatureTrigger records that "(" was typed in a view with the cursor
// now at point. The next OnModified event shows the signature of the
// symbol before the paren.
func (s *Session) MarkSignatureTrigger(viewID string, point int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parens[viewID] = point - 1
}

func (s *Session) takeSignatureTrigger(viewID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parens[viewID]
	delete(s.parens, viewID)
	return p, ok
}

// Format formats the whole view. A formatter failure is not an error: it
// is reported through the response and the view's stored diagnostics.
func (s *Session) Format(ctx context.Context, v *View) (*Response, error) {
	return s.FormatRegion(ctx, v, v.Buffer.All())
}

// FormatRegion formats part of a view. Diagnostics are positioned in view
// coordinates.
func (s *Session) FormatRegion(ctx context.Context, v *View, region textbuf.Region) (*Response, error) {
	s.setDiagnostics(v.ID, nil)
	out, err := s.formatter.FormatRegions(ctx, v.Buffer, []textbuf.Region{region}, v.DisplayName())
	var ferr *formatter.Error
	if errors.As(err, &ferr) {
		s.setDiagnostics(v.ID, ferr.Diagnostics)
		return &Response{
			Status:      ferr.Status(),
			Panel:       diagnostic.PanelText(ferr.Diagnostics),
			Diagnostics: ferr.Diagnostics,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	text := out.Text()
	return &Response{Text: text, Changed: text != v.Buffer.Text()}, nil
}

// Signature looks up the symbol at point. It returns nil when there is
// nothing to show.
func (s *Session) Signature(ctx context.Context, v *View, point int) (*hint.SymbolInfo, error) {
	if v.FileName == "" {
		return nil, nil
	}
	src := []byte(v.Buffer.Text())
	info, err := s.documenter.Info(ctx, v.FileName, src, v.Buffer.ByteOffset(point))
	if errors.Is(err, hint.ErrNoInfo) {
		return nil, nil
	}
	return info, err
}

// Definition resolves where the symbol at point is declared.
func (s *Session) Definition(ctx context.Context, v *View, point int) (hint.Location, error) {
	src := []byte(v.Buffer.Text())
	return s.documenter.Definition(ctx, v.FileName, src, v.Buffer.ByteOffset(point))
}

// Completions asks gocode for candidates at point.
func (s *Session) Completions(ctx context.Context, v *View, point int) ([]hint.Completion, error) {
	src := []byte(v.Buffer.Text())
	return s.completer.Complete(ctx, src, v.Buffer.ByteOffset(point))
}

func (s *Session) onSave(ctx context.Context, ev *Event) (*Response, error) {
	if !s.cfg.FormatOnSave {
		return &Response{}, nil
	}
	return s.Format(ctx, ev.View)
}

func (s *Session) onHover(ctx context.Context, ev *Event) (*Response, error) {
	if ev.Zone != ZoneText {
		return &Response{}, nil
	}
	resp := &Response{}
	row, _ := ev.View.Buffer.RowCol(ev.Point)
	if diags := diagnostic.ForRow(s.Diagnostics(ev.View.ID), row); len(diags) > 0 {
		resp.ErrorPopup = diagnostic.HoverHTML(diags)
		resp.Diagnostics = diags
	}
	if s.cfg.SignatureTrigger.OnHover() {
		s.addSignature(ctx, resp, ev.View, ev.Point)
	}
	return resp, nil
}

func (s *Session) onModified(ctx context.Context, ev *Event) (*Response, error) {
	switch ev.LastCommand {
	case CommandExpandTabs, CommandUnexpandTabs:
		return &Response{}, nil
	}
	if !s.cfg.SignatureTrigger.OnEdit() {
		return &Response{}, nil
	}
	point, ok := s.takeSignatureTrigger(ev.View.ID)
	if !ok {
		return &Response{}, nil
	}
	resp := &Response{}
	s.addSignature(ctx, resp, ev.View, point)
	return resp, nil
}

func (s *Session) onQueryCompletion(ctx context.Context, ev *Event) (*Response, error) {
	items, err := s.Completions(ctx, ev.View, ev.Point)
	if err != nil {
		return nil, err
	}
	return &Response{Completions: items}, nil
}

// addSignature fills in the signature popup. Lookup failures only lose the
// popup.
func (s *Session) addSignature(ctx context.Context, resp *Response, v *View, point int) {
	info, err := s.Signature(ctx, v, point)
	if err != nil {
		log.WithError(err).WithField("view", v.ID).Warn("signature lookup failed")
		return
	}
	if md := hint.Signature(info); md != "" {
		resp.Signature = md
		resp.Symbol = info
	}
}
