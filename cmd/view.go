// Copyright © 2024 The Gide authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/luthersystems/gide/editor"
	"github.com/luthersystems/gide/textbuf"
)

// loadView reads a Go source file into a view and resolves offset, a
// character offset into the file.
func loadView(path, offset string) (*editor.View, int, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, 0, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, 0, err
	}
	v := &editor.View{ID: path, FileName: abs, Buffer: textbuf.New(string(src))}
	if !v.IsGo() {
		return nil, 0, fmt.Errorf("%s: not a Go source file", path)
	}
	point, err := strconv.Atoi(offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid offset %q: %w", offset, err)
	}
	if point < 0 || point > v.Buffer.Size() {
		return nil, 0, fmt.Errorf("offset %d is outside %s (%d characters)", point, path, v.Buffer.Size())
	}
	return v, point, nil
}
