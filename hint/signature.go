// Copyright © 2024 The Gide authors

package hint

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// DefaultDocBase is where DocURL points.
const DefaultDocBase = "https://godoc.org"

// methodDecl captures the receiver type of a method declaration.
var methodDecl = regexp.MustCompile(`func \(\w+ \*?(\w+)\) .*`)

// Link targets used in signature popups.
const (
	HrefGotoDef = "goto-def"
	HrefGodoc   = "godoc"
)

// Signature renders the markdown popup for a symbol. It is empty unless
// the symbol has both a declaration and documentation.
func Signature(info *SymbolInfo) string {
	if info == nil || info.Decl == "" || info.Doc == "" {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "```go\n%s\n```\n\n", info.Decl)
	sb.WriteString(FormatDoc(info.Doc))
	fmt.Fprintf(&sb, "\n\n[definition](%s) | [godoc](%s)\n", HrefGotoDef, HrefGodoc)
	return sb.String()
}

// DocURL returns the godoc.org page for a symbol. Methods are addressed as
// Type.Method.
func DocURL(info *SymbolInfo) string {
	return docURL(DefaultDocBase, info)
}

func docURL(base string, info *SymbolInfo) string {
	name := info.Name
	if m := methodDecl.FindStringSubmatch(info.Decl); m != nil {
		name = m[1] + "." + info.Name
	}
	return fmt.Sprintf("%s/%s#%s", strings.TrimSuffix(base, "/"), info.Import, name)
}

// ActionKind is what the editor should do after a popup link is followed.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionOpenFile
	ActionOpenURL
	ActionStatus
)

// Action is the outcome of Navigate.
type Action struct {
	Kind ActionKind
	// Target is a file position, a URL or a status message depending on
	// Kind.
	Target string
}

// Navigator resolves popup links.
type Navigator struct {
	// HTTP checks that documentation pages exist. If nil,
	// http.DefaultClient is used.
	HTTP *http.Client
	// DocBase overrides DefaultDocBase.
	DocBase string
}

// Navigate handles a link followed in a signature popup.
func (n *Navigator) Navigate(ctx context.Context, href string, info *SymbolInfo) Action {
	switch href {
	case HrefGotoDef:
		if info.Pos != "" {
			return Action{Kind: ActionOpenFile, Target: info.Pos}
		}
		if info.Builtin() {
			return Action{Kind: ActionStatus, Target: "can't navigate to built-in symbol"}
		}
	case HrefGodoc:
		base := n.DocBase
		if base == "" {
			base = DefaultDocBase
		}
		u := docURL(base, info)
		if n.pageExists(ctx, u) {
			return Action{Kind: ActionOpenURL, Target: u}
		}
		return Action{Kind: ActionStatus, Target: "no page available at " + u}
	}
	return Action{Kind: ActionNone}
}

func (n *Navigator) pageExists(ctx context.Context, url string) bool {
	client := n.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close() //nolint:errcheck // body is not read
	return resp.StatusCode == http.StatusOK
}
