// Copyright © 2024 The Gide authors

package diagnostic

import (
	"os"

	"github.com/fatih/color"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// palette holds the styles used for diagnostic output.
type palette struct {
	bold     *color.Color
	boldRed  *color.Color
	boldBlue *color.Color
	boldCyan *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		bold:     color.New(color.Bold),
		boldRed:  color.New(color.FgRed, color.Bold),
		boldBlue: color.New(color.FgBlue, color.Bold),
		boldCyan: color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.bold, p.boldRed, p.boldBlue, p.boldCyan} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// choosePalette selects the appropriate color palette based on the mode
// and the output file descriptor.
func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return newPalette(true)
	case ColorNever:
		return newPalette(false)
	default: // ColorAuto
		if os.Getenv("NO_COLOR") != "" {
			return newPalette(false)
		}
		return newPalette(isTerminal(w))
	}
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
