// Copyright © 2024 The Gide authors

package hint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/luthersystems/gide/toolexec"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNoInfo is returned when gogetdoc has nothing for a position.
	ErrNoInfo = errors.New("no documentation found")
	// ErrNoPosition is returned when a symbol has no navigable definition.
	ErrNoPosition = errors.New("failed to get position")
)

// SymbolInfo is gogetdoc's description of the symbol at a position.
type SymbolInfo struct {
	Name   string `json:"name"`
	Import string `json:"import"`
	Pkg    string `json:"pkg"`
	Decl   string `json:"decl"`
	Doc    string `json:"doc"`
	Pos    string `json:"pos"`
}

// Builtin reports whether the symbol is predeclared.
func (s *SymbolInfo) Builtin() bool {
	return s.Import == "builtin"
}

// Location is a 1-based source position.
type Location struct {
	File string
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// ParseLocation parses a "file:line:col" position as printed by gogetdoc.
func ParseLocation(pos string) (Location, error) {
	rest, colStr, ok := cutLast(pos, ":")
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrNoPosition, pos)
	}
	file, lineStr, ok := cutLast(rest, ":")
	if !ok || file == "" {
		return Location{}, fmt.Errorf("%w: %q", ErrNoPosition, pos)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q", ErrNoPosition, pos)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q", ErrNoPosition, pos)
	}
	return Location{File: file, Line: line, Col: col}, nil
}

func cutLast(s, sep string) (before, after string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// Documenter asks gogetdoc about symbols in unsaved buffers.
type Documenter struct {
	Runner toolexec.Runner
	// Tool is the gogetdoc binary. Empty means "gogetdoc".
	Tool string
}

func (d *Documenter) tool() string {
	if d.Tool == "" {
		return "gogetdoc"
	}
	return d.Tool
}

// Info describes the symbol at offset, a byte offset into src, which holds
// the current (possibly unsaved) contents of filename.
func (d *Documenter) Info(ctx context.Context, filename string, src []byte, offset int) (*SymbolInfo, error) {
	pos := fmt.Sprintf("%s:#%d", filename, offset)
	args := []string{"-u", "-json", "-modified", "-pos", pos}
	res, err := d.Runner.Run(ctx, d.tool(), args, modifiedArchive(filename, src))
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		log.WithField("pos", pos).Debug("no signature")
		return nil, ErrNoInfo
	}
	var info SymbolInfo
	if err := json.Unmarshal(res.Stdout, &info); err != nil {
		return nil, fmt.Errorf("decoding gogetdoc output: %w", err)
	}
	return &info, nil
}

// Definition resolves where the symbol at offset is declared.
func (d *Documenter) Definition(ctx context.Context, filename string, src []byte, offset int) (Location, error) {
	info, err := d.Info(ctx, filename, src, offset)
	if errors.Is(err, ErrNoInfo) {
		return Location{}, ErrNoPosition
	}
	if err != nil {
		return Location{}, err
	}
	if info.Pos == "" {
		return Location{}, ErrNoPosition
	}
	return ParseLocation(info.Pos)
}

// modifiedArchive encodes one file in the format read by the -modified
// flag of guru-style tools: name, size in bytes, contents.
func modifiedArchive(filename string, src []byte) []byte {
	header := fmt.Sprintf("%s\n%d\n", filename, len(src))
	return append([]byte(header), src...)
}
