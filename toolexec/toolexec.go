// Copyright © 2024 The Gide authors

// Package toolexec runs external command-line tools with a buffer piped to
// their standard input and captures everything they write back.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/luthersystems/gide/toolexec"

	// waitDelay bounds how long output pipes are drained after the process
	// is killed.
	waitDelay = 500 * time.Millisecond
)

// Result is the captured outcome of a tool that ran to completion. A
// nonzero ExitCode is not an error at this level.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Failed reports whether the tool exited nonzero or wrote to stderr.
func (r *Result) Failed() bool {
	return r.ExitCode != 0 || len(r.Stderr) > 0
}

// Runner runs a single tool invocation. Implementations return an error
// only when the tool could not be run at all.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) (*Result, error)
}

// ExecRunner runs tools as local processes.
type ExecRunner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the current process environment.
	Env []string
	// Timeout bounds each invocation. Zero means no timeout.
	Timeout time.Duration
}

var _ Runner = (*ExecRunner)(nil)

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerName)
}

// Run executes name with args, writing stdin to the process.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (*Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	ctx, span := tracer().Start(ctx, name, trace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.StringSlice("tool.args", args),
		attribute.Int("tool.stdin_bytes", len(stdin)),
	))
	defer span.End()

	logger := log.WithFields(log.Fields{"tool": name, "args": args})
	logger.Debug("running tool")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.WaitDelay = waitDelay
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case ctx.Err() != nil:
		err = fmt.Errorf("%s: %w", name, ctx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WithError(err).Warn("tool did not finish")
		return nil, err
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		err = fmt.Errorf("running %s: %w", name, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WithError(err).Warn("tool could not be started")
		return nil, err
	}

	span.SetAttributes(attribute.Int("tool.exit_code", res.ExitCode))
	if res.Failed() {
		span.SetStatus(codes.Error, fmt.Sprintf("exit code %d", res.ExitCode))
	}
	logger.WithFields(log.Fields{
		"exit_code": res.ExitCode,
		"elapsed":   time.Since(start),
		"stderr":    len(res.Stderr),
	}).Debug("tool finished")
	return res, nil
}
