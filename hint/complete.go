// Copyright © 2024 The Gide authors

// Package hint provides in-editor documentation: gocode completions,
// gogetdoc signatures and definitions, and helpers to render them.
package hint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/luthersystems/gide/toolexec"
	log "github.com/sirupsen/logrus"
)

// Completion is a single gocode candidate.
type Completion struct {
	Class   string `json:"class"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Package string `json:"package"`
}

// Label is the text shown in a completion list: the name, a tab, and the
// type.
func (c Completion) Label() string {
	return c.Name + "\t" + c.Type
}

// Completer asks gocode for completions.
type Completer struct {
	Runner toolexec.Runner
	// Tool is the gocode binary. Empty means "gocode".
	Tool string
}

func (c *Completer) tool() string {
	if c.Tool == "" {
		return "gocode"
	}
	return c.Tool
}

// Complete returns the candidates at offset, a byte offset into src. A
// gocode failure or an empty answer yields no completions and no error;
// only a gocode that cannot be run is an error.
func (c *Completer) Complete(ctx context.Context, src []byte, offset int) ([]Completion, error) {
	args := []string{"-f=json", "autocomplete", strconv.Itoa(offset)}
	res, err := c.Runner.Run(ctx, c.tool(), args, src)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		log.WithField("offset", offset).Debug("no completions")
		return nil, nil
	}
	if len(bytes.TrimSpace(res.Stdout)) == 0 {
		return nil, nil
	}
	return decodeCompletions(res.Stdout)
}

// decodeCompletions decodes gocode's [prefixLen, [candidates...]] answer.
func decodeCompletions(data []byte) ([]Completion, error) {
	var answer []json.RawMessage
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, fmt.Errorf("decoding gocode output: %w", err)
	}
	if len(answer) < 2 {
		return nil, nil
	}
	var completions []Completion
	if err := json.Unmarshal(answer[1], &completions); err != nil {
		return nil, fmt.Errorf("decoding gocode candidates: %w", err)
	}
	return completions, nil
}
