// Copyright © 2024 The Gide authors

package toolexec_test

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/luthersystems/gide/toolexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestExecRunnerPipesStdin(t *testing.T) {
	requireShell(t)
	r := &toolexec.ExecRunner{}
	res, err := r.Run(context.Background(), "sh", []string{"-c", "tr a-z A-Z"}, []byte("package main\n"))
	require.NoError(t, err)
	assert.Equal(t, "PACKAGE MAIN\n", string(res.Stdout))
	assert.Empty(t, res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.Failed())
}

func TestExecRunnerNonzeroExitIsResult(t *testing.T) {
	requireShell(t)
	r := &toolexec.ExecRunner{}
	res, err := r.Run(context.Background(), "sh", []string{"-c", "echo '<standard input>:1:1: boom' >&2; exit 2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "<standard input>:1:1: boom\n", string(res.Stderr))
	assert.True(t, res.Failed())
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := &toolexec.ExecRunner{}
	_, err := r.Run(context.Background(), "gide-no-such-tool-xyz", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestExecRunnerTimeout(t *testing.T) {
	requireShell(t)
	r := &toolexec.ExecRunner{Timeout: 50 * time.Millisecond}
	_, err := r.Run(context.Background(), "sh", []string{"-c", "exec sleep 5"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecRunnerEnvAndDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	r := &toolexec.ExecRunner{Dir: dir, Env: []string{"GIDE_TEST_VAR=yes"}}
	res, err := r.Run(context.Background(), "sh", []string{"-c", "echo $GIDE_TEST_VAR; pwd"}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), "yes\n")
	assert.Contains(t, string(res.Stdout), dir)
}

func TestExecRunnerSpans(t *testing.T) {
	requireShell(t)
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)

	r := &toolexec.ExecRunner{}
	_, err := r.Run(context.Background(), "sh", []string{"-c", "exit 3"}, nil)
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "sh", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.Int("tool.exit_code", 3))
}

func TestParseCommand(t *testing.T) {
	c, err := toolexec.ParseCommand("gofmt -e -s")
	require.NoError(t, err)
	assert.Equal(t, toolexec.Command{Name: "gofmt", Args: []string{"-e", "-s"}}, c)
	assert.Equal(t, "gofmt -e -s", c.String())

	c, err = toolexec.ParseCommand(`goimports -local "github.com/my org"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"-local", "github.com/my org"}, c.Args)

	_, err = toolexec.ParseCommand("   ")
	assert.Error(t, err)

	cmds, err := toolexec.ParseCommands([]string{"goimports", "gofmt -s"})
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "goimports", cmds[0].String())

	_, err = toolexec.ParseCommands([]string{"gofmt", ""})
	assert.Error(t, err)
}
