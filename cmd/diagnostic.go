// Copyright © 2024 The Gide authors

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/gide/diagnostic"
	"github.com/luthersystems/gide/formatter"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

// newRenderer returns a renderer that shows snippets from src, the text
// that was formatted.
func newRenderer(src []byte) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color: colorMode(),
		SourceReader: func(string) ([]byte, error) {
			return src, nil
		},
	}
}

// renderFormatError writes err to w. Formatter rejections are rendered as
// annotated snippets of src, followed by the status of the named file.
func renderFormatError(w io.Writer, name string, err error, src []byte) {
	var ferr *formatter.Error
	if !errors.As(err, &ferr) || len(ferr.Diagnostics) == 0 {
		fmt.Fprintln(w, err)
		return
	}
	_ = newRenderer(src).RenderAll(w, ferr.Diagnostics)
	fmt.Fprintf(w, "\n%s: %s\n", name, ferr.Status())
}
