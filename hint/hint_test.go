// Copyright © 2024 The Gide authors

package hint

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luthersystems/gide/gidetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gocodeAnswer = `[1, [` +
	`{"class":"func","name":"Println","type":"func(a ...interface{}) (n int, err error)","package":""},` +
	`{"class":"func","name":"Printf","type":"func(format string, a ...interface{}) (n int, err error)","package":""}]]`

func TestComplete(t *testing.T) {
	runner := gidetest.NewFakeRunner(map[string]gidetest.Reply{
		"gocode": {Stdout: gocodeAnswer},
	})
	c := &Completer{Runner: runner}

	got, err := c.Complete(context.Background(), []byte("package main\nfunc f() { fmt.P }"), 29)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Println", got[0].Name)
	assert.Equal(t, "func", got[0].Class)
	assert.Equal(t, "Printf\tfunc(format string, a ...interface{}) (n int, err error)", got[1].Label())

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-f=json", "autocomplete", "29"}, calls[0].Args)
	assert.Equal(t, "package main\nfunc f() { fmt.P }", calls[0].Stdin)
}

func TestCompleteNothing(t *testing.T) {
	tests := []struct {
		name  string
		reply gidetest.Reply
	}{
		{"empty answer", gidetest.Reply{Stdout: "[]"}},
		{"empty stdout", gidetest.Reply{Stdout: ""}},
		{"blank stdout", gidetest.Reply{Stdout: " \n"}},
		{"nonzero exit", gidetest.Reply{Stdout: gocodeAnswer, ExitCode: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Completer{Runner: gidetest.NewFakeRunner(map[string]gidetest.Reply{"gocode": tt.reply})}
			got, err := c.Complete(context.Background(), nil, 0)
			assert.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestCompleteErrors(t *testing.T) {
	c := &Completer{Runner: gidetest.NewFakeRunner(map[string]gidetest.Reply{
		"gocode": {Stdout: "panic: oops"},
	})}
	_, err := c.Complete(context.Background(), nil, 0)
	assert.ErrorContains(t, err, "decoding gocode output")

	c = &Completer{Runner: gidetest.NewFakeRunner(nil), Tool: "gocode-gomod"}
	_, err = c.Complete(context.Background(), nil, 0)
	assert.ErrorContains(t, err, "gocode-gomod")
}

func TestDocumenterInfo(t *testing.T) {
	runner := gidetest.NewFakeRunner(map[string]gidetest.Reply{
		"gogetdoc": {Stdout: `{"name":"Println","import":"fmt","pkg":"fmt",` +
			`"decl":"func Println(a ...interface{}) (n int, err error)",` +
			`"doc":"Println formats.\n","pos":"/usr/lib/go/src/fmt/print.go:273:6"}`},
	})
	d := &Documenter{Runner: runner}

	src := []byte("package main")
	info, err := d.Info(context.Background(), "/p/main.go", src, 5)
	require.NoError(t, err)
	assert.Equal(t, "Println", info.Name)
	assert.Equal(t, "fmt", info.Import)
	assert.False(t, info.Builtin())

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-u", "-json", "-modified", "-pos", "/p/main.go:#5"}, calls[0].Args)
	assert.Equal(t, "/p/main.go\n12\npackage main", calls[0].Stdin)

	loc, err := d.Definition(context.Background(), "/p/main.go", src, 5)
	require.NoError(t, err)
	assert.Equal(t, Location{File: "/usr/lib/go/src/fmt/print.go", Line: 273, Col: 6}, loc)
	assert.Equal(t, "/usr/lib/go/src/fmt/print.go:273:6", loc.String())
}

func TestDocumenterNoInfo(t *testing.T) {
	d := &Documenter{Runner: gidetest.NewFakeRunner(map[string]gidetest.Reply{
		"gogetdoc": {Stderr: "gogetdoc: no identifier found", ExitCode: 1},
	})}
	_, err := d.Info(context.Background(), "a.go", nil, 0)
	assert.ErrorIs(t, err, ErrNoInfo)

	_, err = d.Definition(context.Background(), "a.go", nil, 0)
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestDefinitionBuiltinHasNoPosition(t *testing.T) {
	d := &Documenter{Runner: gidetest.NewFakeRunner(map[string]gidetest.Reply{
		"gogetdoc": {Stdout: `{"name":"len","import":"builtin","decl":"func len(v Type) int"}`},
	})}
	_, err := d.Definition(context.Background(), "a.go", nil, 0)
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation(`C:\go\src\x.go:1:2`)
	require.NoError(t, err)
	assert.Equal(t, Location{File: `C:\go\src\x.go`, Line: 1, Col: 2}, loc)

	for _, bad := range []string{"", "x.go", "x.go:1", "x.go:a:2", ":1:2", "x.go:1:b"} {
		_, err := ParseLocation(bad)
		assert.ErrorIs(t, err, ErrNoPosition, "ParseLocation(%q)", bad)
	}
}

func TestFormatDoc(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "joins wrapped prose",
			doc:  "Println formats using the default formats\nfor its operands.\n",
			want: "Println formats using the default formats for its operands.",
		},
		{
			name: "joins after punctuation",
			doc:  "It returns n.\nErrors are returned.",
			want: "It returns n. Errors are returned.",
		},
		{
			name: "keeps paragraphs",
			doc:  "First.\n\nSecond.",
			want: "First.\n\nSecond.",
		},
		{
			name: "code block",
			doc:  "Example:\n\n\tfmt.Println(\"hi\")\nDone.",
			want: "Example:\n\n\n    fmt.Println(\"hi\")\nDone.",
		},
		{
			name: "space indented code gets four spaces",
			doc:  "Use:\n  x := 1",
			want: "Use:\n\n    x := 1",
		},
		{
			name: "unicode words",
			doc:  "héllo\nwörld",
			want: "héllo wörld",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDoc(tt.doc))
		})
	}
}

func TestWrapDoc(t *testing.T) {
	got := WrapDoc("Println formats using the default formats for its operands and writes to standard output.", 30)
	for _, line := range strings.Split(got, "\n") {
		assert.True(t, strings.HasPrefix(line, "  "), "line %q is not indented", line)
		assert.LessOrEqual(t, len(line), 32)
	}
	assert.Contains(t, got, "Println formats")
}

func TestSignature(t *testing.T) {
	info := &SymbolInfo{
		Name: "Println",
		Decl: "func Println(a ...interface{}) (n int, err error)",
		Doc:  "Println formats.\nIt writes.",
	}
	want := "```go\nfunc Println(a ...interface{}) (n int, err error)\n```\n\n" +
		"Println formats. It writes.\n\n[definition](goto-def) | [godoc](godoc)\n"
	assert.Equal(t, want, Signature(info))

	assert.Empty(t, Signature(&SymbolInfo{Decl: "var x int"}), "no doc")
	assert.Empty(t, Signature(&SymbolInfo{Doc: "x"}), "no decl")
	assert.Empty(t, Signature(nil))
}

func TestDocURL(t *testing.T) {
	assert.Equal(t, "https://godoc.org/fmt#Println", DocURL(&SymbolInfo{
		Name: "Println", Import: "fmt", Decl: "func Println(a ...interface{}) (n int, err error)",
	}))
	assert.Equal(t, "https://godoc.org/bytes#Buffer.Write", DocURL(&SymbolInfo{
		Name: "Write", Import: "bytes", Decl: "func (b *Buffer) Write(p []byte) (n int, err error)",
	}))
	assert.Equal(t, "https://godoc.org/time#Time.Unix", DocURL(&SymbolInfo{
		Name: "Unix", Import: "time", Decl: "func (t Time) Unix() int64",
	}))
}

func TestNavigate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fmt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	n := &Navigator{HTTP: srv.Client(), DocBase: srv.URL}
	ctx := context.Background()

	act := n.Navigate(ctx, HrefGotoDef, &SymbolInfo{Pos: "/x/y.go:3:4"})
	assert.Equal(t, Action{Kind: ActionOpenFile, Target: "/x/y.go:3:4"}, act)

	act = n.Navigate(ctx, HrefGotoDef, &SymbolInfo{Name: "len", Import: "builtin"})
	assert.Equal(t, Action{Kind: ActionStatus, Target: "can't navigate to built-in symbol"}, act)

	act = n.Navigate(ctx, HrefGotoDef, &SymbolInfo{Name: "x"})
	assert.Equal(t, ActionNone, act.Kind)

	act = n.Navigate(ctx, HrefGodoc, &SymbolInfo{Name: "Println", Import: "fmt"})
	assert.Equal(t, Action{Kind: ActionOpenURL, Target: srv.URL + "/fmt#Println"}, act)

	act = n.Navigate(ctx, HrefGodoc, &SymbolInfo{Name: "Nope", Import: "nope"})
	assert.Equal(t, ActionStatus, act.Kind)
	assert.Equal(t, "no page available at "+srv.URL+"/nope#Nope", act.Target)

	assert.Equal(t, ActionNone, n.Navigate(ctx, "mailto:x", &SymbolInfo{}).Kind)
}

func TestNavigateUnreachable(t *testing.T) {
	n := &Navigator{HTTP: &http.Client{Transport: failingTransport{}}}
	act := n.Navigate(context.Background(), HrefGodoc, &SymbolInfo{Name: "X", Import: "y"})
	assert.Equal(t, ActionStatus, act.Kind)
	assert.Equal(t, "no page available at https://godoc.org/y#X", act.Target)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("offline")
}
