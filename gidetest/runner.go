// Copyright © 2024 The Gide authors

package gidetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/luthersystems/gide/toolexec"
)

// Call records one invocation seen by a FakeRunner.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// Reply scripts the outcome of a tool.
type Reply struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is returned instead of a result, as if the tool could not run.
	Err error
	// Transform, if set, computes Stdout from the tool's stdin.
	Transform func(stdin string) string
}

// FakeRunner is a toolexec.Runner that answers from a script keyed by tool
// name. Unknown tools fail the way a missing binary does.
type FakeRunner struct {
	mu      sync.Mutex
	Replies map[string]Reply
	calls   []Call
}

var _ toolexec.Runner = (*FakeRunner)(nil)

// NewFakeRunner returns a runner scripted with replies.
func NewFakeRunner(replies map[string]Reply) *FakeRunner {
	return &FakeRunner{Replies: replies}
}

// Run implements toolexec.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (*toolexec.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...), Stdin: string(stdin)})
	reply, ok := f.Replies[name]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("running %s: executable file not found in $PATH", name)
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	stdout := reply.Stdout
	if reply.Transform != nil {
		stdout = reply.Transform(string(stdin))
	}
	return &toolexec.Result{
		Stdout:   []byte(stdout),
		Stderr:   []byte(reply.Stderr),
		ExitCode: reply.ExitCode,
	}, nil
}

// Calls returns the invocations seen so far.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Echo returns its input unchanged, like a formatter with nothing to do.
func Echo(stdin string) string { return stdin }
