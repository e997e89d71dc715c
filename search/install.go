// Copyright © 2024 The Gide authors

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/luthersystems/gide/toolexec"
	"golang.org/x/mod/module"
)

// Installer runs go get.
type Installer struct {
	Runner toolexec.Runner
	// GoTool is the go binary. Empty means "go".
	GoTool string
}

// Install fetches path into the current module.
func (in *Installer) Install(ctx context.Context, path string) error {
	if err := module.CheckImportPath(path); err != nil {
		return err
	}
	tool := in.GoTool
	if tool == "" {
		tool = "go"
	}
	res, err := in.Runner.Run(ctx, tool, []string{"get", path}, nil)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(string(res.Stderr))
		if msg == "" {
			msg = fmt.Sprintf("return code %d", res.ExitCode)
		}
		return fmt.Errorf("go get %s: %s", path, msg)
	}
	return nil
}
