// Copyright © 2024 The Gide authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"main.go": "package main\n\nfunc main() {\n\tfoo(\n}\n",
	})

	d := Diagnostic{
		Message:    "expected operand, found '}'",
		Row:        4,
		Col:        0,
		SourceName: "main.go",
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: expected operand, found '}'")
	assertContains(t, got, "--> main.go:5:1")
	assertContains(t, got, "5 |  }")
	assertContains(t, got, "^")
}

func TestRenderUnderlinesToEndOfLine(t *testing.T) {
	r := testRenderer(map[string]string{
		"main.go": "func main() {",
	})

	d := Diagnostic{Message: "bad", Row: 0, Col: 5, SourceName: "main.go"}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// "main() {" is 8 characters.
	assertContains(t, got, "     ^^^^^^^^\n")
	assertNotContains(t, got, "^^^^^^^^^")
}

func TestRenderTabsExpanded(t *testing.T) {
	r := testRenderer(map[string]string{
		"main.go": "\tx := ",
	})

	d := Diagnostic{Message: "expected operand", Row: 0, Col: 1, SourceName: "main.go"}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "|      x := ")
	assertContains(t, got, "|      ^^^^^")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{Message: "some error", Row: 4, Col: 2, SourceName: "<stdin>"}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: some error")
	assertContains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assertContains(t, got, "|")
	assertNotContains(t, got, "^")
}

func TestRenderColumnPastEndOfLine(t *testing.T) {
	r := testRenderer(map[string]string{
		"main.go": "x",
	})

	d := Diagnostic{Message: "unexpected EOF", Row: 0, Col: 12, SourceName: "main.go"}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "--> main.go:1:13")
	assertContains(t, got, "   ^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"main.go": "package main\nfunc (\nvar",
	})

	diags := []Diagnostic{
		{Message: "expected 'IDENT', found newline", Row: 1, Col: 6, SourceName: "main.go"},
		{Message: "expected declaration", Row: 2, Col: 0, SourceName: "main.go"},
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	parts := strings.Split(got, "\n\n")
	if len(parts) < 2 {
		t.Errorf("expected diagnostics separated by blank line, got:\n%s", got)
	}
	assertContains(t, got, "expected 'IDENT', found newline")
	assertContains(t, got, "expected declaration")
}

func TestRenderAlwaysColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways

	var buf bytes.Buffer
	if err := r.Render(&buf, Diagnostic{Message: "boom", SourceName: "x.go"}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "\x1b[")
}

func TestHoverHTML(t *testing.T) {
	got := HoverHTML([]Diagnostic{
		{Message: "expected ';', found '<'", Row: 2},
		{Message: "missing return", Row: 2},
	})
	want := "<div><b>3:</b> expected &#39;;&#39;, found &#39;&lt;&#39;</div>\n" +
		"<div><b>3:</b> missing return</div>"
	if got != want {
		t.Errorf("HoverHTML:\n got %q\nwant %q", got, want)
	}
	if HoverHTML(nil) != "" {
		t.Error("expected empty HTML for no diagnostics")
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("output unexpectedly contains %q:\n%s", unwanted, got)
	}
}
