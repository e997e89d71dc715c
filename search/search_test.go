// Copyright © 2024 The Gide authors

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/luthersystems/gide/gidetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const godocBody = `{"results":[
	{"name":"yaml","path":"gopkg.in/yaml.v2","synopsis":"Package yaml implements YAML support.","stars":4000},
	{"name":"toml","path":"github.com/BurntSushi/toml","synopsis":"","stars":3000},
	{"name":"ini","path":"github.com/go-ini/ini","synopsis":"Package ini provides INI file read and write functionality.","stars":3300}
]}`

const githubBody = `{"items":[
	{"name":"toml","html_url":"https://github.com/BurntSushi/toml","description":"TOML parser","stargazers_count":3000,"license":{"spdx_id":"MIT"}},
	{"name":"go-toml","html_url":"https://github.com/pelletier/go-toml/","description":"Go library for TOML","stargazers_count":1500,"license":null}
]}`

type fakeIndex struct {
	mu           sync.Mutex
	godocStatus  int
	githubStatus int
	lastQuery    string
	githubQuery  url.Values
	githubHeader http.Header
}

func (f *fakeIndex) seen() (godoc string, github url.Values, header http.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery, f.githubQuery, f.githubHeader
}

func (f *fakeIndex) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/search":
		f.lastQuery = r.URL.Query().Get("q")
		if f.godocStatus != 0 {
			w.WriteHeader(f.godocStatus)
			return
		}
		_, _ = w.Write([]byte(godocBody))
	case "/search/repositories":
		f.githubQuery = r.URL.Query()
		f.githubHeader = r.Header.Clone()
		if f.githubStatus != 0 {
			w.WriteHeader(f.githubStatus)
			return
		}
		_, _ = w.Write([]byte(githubBody))
	default:
		http.NotFound(w, r)
	}
}

func newClient(t *testing.T, index *fakeIndex) *Client {
	t.Helper()
	srv := httptest.NewServer(index)
	t.Cleanup(srv.Close)
	return &Client{HTTP: srv.Client(), GoDocURL: srv.URL, GitHubURL: srv.URL + "/"}
}

func TestGoDoc(t *testing.T) {
	index := &fakeIndex{}
	c := newClient(t, index)

	pkgs, err := c.GoDoc(context.Background(), "config files")
	require.NoError(t, err)
	query, _, _ := index.seen()
	assert.Equal(t, "config files", query)
	require.Len(t, pkgs, 3)
	assert.Equal(t, "yaml", pkgs[0].Name)
	assert.Equal(t, "ini", pkgs[1].Name)
	assert.Equal(t, "toml", pkgs[2].Name)
	assert.Equal(t, "gopkg.in/yaml.v2", pkgs[0].Path)
}

func TestGoDocUnavailable(t *testing.T) {
	c := newClient(t, &fakeIndex{godocStatus: http.StatusServiceUnavailable})
	pkgs, err := c.GoDoc(context.Background(), "yaml")
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func TestGitHub(t *testing.T) {
	index := &fakeIndex{}
	c := newClient(t, index)
	c.Token = "s3cret"

	pkgs, err := c.GitHub(context.Background(), "toml")
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, Package{
		Name:     "toml",
		Path:     "github.com/BurntSushi/toml",
		Synopsis: "TOML parser",
		Stars:    3000,
		URL:      "https://github.com/BurntSushi/toml",
		License:  "MIT",
	}, pkgs[0])
	assert.Equal(t, "github.com/pelletier/go-toml", pkgs[1].Path)
	assert.Empty(t, pkgs[1].License)

	_, q, header := index.seen()
	assert.Equal(t, `"toml" language:go`, q.Get("q"))
	assert.Equal(t, "stars", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("order"))
	assert.Equal(t, "token s3cret", header.Get("Authorization"))
}

func TestGitHubAnonymous(t *testing.T) {
	index := &fakeIndex{}
	c := newClient(t, index)
	_, err := c.GitHub(context.Background(), "toml")
	require.NoError(t, err)
	_, _, header := index.seen()
	assert.Empty(t, header.Get("Authorization"))
	assert.Equal(t, "application/vnd.github+json", header.Get("Accept"))
}

func TestSearchMerges(t *testing.T) {
	c := newClient(t, &fakeIndex{})
	pkgs, err := c.Search(context.Background(), "toml")
	require.NoError(t, err)

	var paths []string
	for _, p := range pkgs {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{
		"gopkg.in/yaml.v2",
		"github.com/go-ini/ini",
		"github.com/BurntSushi/toml",
		"github.com/pelletier/go-toml",
	}, paths)
	// The godoc entry wins over the GitHub duplicate.
	assert.Empty(t, pkgs[2].Synopsis)
}

func TestSearchOneIndexDown(t *testing.T) {
	c := newClient(t, &fakeIndex{githubStatus: http.StatusForbidden})
	pkgs, err := c.Search(context.Background(), "toml")
	require.NoError(t, err)
	assert.Len(t, pkgs, 3)
}

func TestSearchUnreachable(t *testing.T) {
	srv := httptest.NewServer(&fakeIndex{})
	srv.Close()
	c := &Client{GoDocURL: srv.URL, GitHubURL: srv.URL}
	_, err := c.Search(context.Background(), "toml")
	assert.ErrorContains(t, err, "searching packages")
}

func TestItems(t *testing.T) {
	p := Package{Name: "toml", Path: "github.com/BurntSushi/toml", Stars: 3000}
	assert.Equal(t, []string{
		"toml (3000 stars)",
		"No synopsis provided.",
		"go get github.com/BurntSushi/toml",
	}, p.Items())

	p = Package{Name: "x", URL: "https://github.com/a/x", Synopsis: "Does x.", Stars: 1}
	assert.Equal(t, []string{"x (1 stars)", "Does x.", "go get github.com/a/x"}, p.Items())
}

func TestGoGetPath(t *testing.T) {
	tests := []struct {
		name    string
		pkg     Package
		want    string
		wantErr bool
	}{
		{"import path", Package{Path: "gopkg.in/yaml.v2"}, "gopkg.in/yaml.v2", false},
		{"repository url", Package{URL: "https://github.com/spf13/cobra/"}, "github.com/spf13/cobra", false},
		{"path wins", Package{Path: "example.com/a", URL: "https://github.com/b/c"}, "example.com/a", false},
		{"empty", Package{}, "", true},
		{"bad path", Package{Path: "github.com/a b/c"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoGetPath(tt.pkg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstall(t *testing.T) {
	runner := gidetest.NewFakeRunner(map[string]gidetest.Reply{"go": {}})
	in := &Installer{Runner: runner}
	require.NoError(t, in.Install(context.Background(), "github.com/spf13/cobra"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "go", calls[0].Name)
	assert.Equal(t, []string{"get", "github.com/spf13/cobra"}, calls[0].Args)
}

func TestInstallFailure(t *testing.T) {
	runner := gidetest.NewFakeRunner(map[string]gidetest.Reply{
		"go": {Stderr: "go: module github.com/nope/nope: not found\n", ExitCode: 1},
	})
	in := &Installer{Runner: runner}
	err := in.Install(context.Background(), "github.com/nope/nope")
	assert.EqualError(t, err, "go get github.com/nope/nope: go: module github.com/nope/nope: not found")

	err = in.Install(context.Background(), "not a path")
	assert.Error(t, err)
	assert.Len(t, runner.Calls(), 1, "invalid paths never reach go")
}
