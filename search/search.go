// Copyright © 2024 The Gide authors

// Package search finds installable Go packages on godoc and GitHub.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/mod/module"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultGoDocURL  = "https://api.godoc.org"
	DefaultGitHubURL = "https://api.github.com"
)

// Package is one search hit.
type Package struct {
	Name     string
	Path     string
	Synopsis string
	Stars    int
	URL      string
	License  string
}

// Items returns the three quick-panel rows describing p.
func (p Package) Items() []string {
	synopsis := p.Synopsis
	if synopsis == "" {
		synopsis = "No synopsis provided."
	}
	path, err := GoGetPath(p)
	if err != nil {
		path = p.Path
	}
	return []string{
		p.Name + " (" + strconv.Itoa(p.Stars) + " stars)",
		synopsis,
		"go get " + path,
	}
}

// GoGetPath returns the import path to pass to go get. Packages found on
// GitHub carry only a repository URL, which is reduced to host and path.
func GoGetPath(p Package) (string, error) {
	path := p.Path
	if path == "" && p.URL != "" {
		u, err := url.Parse(p.URL)
		if err != nil {
			return "", fmt.Errorf("package %s: %w", p.Name, err)
		}
		path = u.Host + strings.TrimSuffix(u.Path, "/")
	}
	if err := module.CheckImportPath(path); err != nil {
		return "", err
	}
	return path, nil
}

// Client queries the package indexes.
type Client struct {
	// HTTP is the client used for requests. If nil, http.DefaultClient is
	// used.
	HTTP      *http.Client
	GoDocURL  string
	GitHubURL string
	// Token authenticates GitHub requests when set.
	Token string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return strings.TrimSuffix(s, "/")
}

type godocResult struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Synopsis string `json:"synopsis"`
	Stars    int    `json:"stars"`
}

// GoDoc searches the godoc index. A non-200 answer yields no packages.
func (c *Client) GoDoc(ctx context.Context, query string) ([]Package, error) {
	u := orDefault(c.GoDocURL, DefaultGoDocURL) + "/search?" + url.Values{"q": {query}}.Encode()
	var body struct {
		Results []godocResult `json:"results"`
	}
	ok, err := c.getJSON(ctx, u, nil, &body)
	if err != nil || !ok {
		return nil, err
	}
	pkgs := make([]Package, 0, len(body.Results))
	for _, r := range body.Results {
		pkgs = append(pkgs, Package{
			Name:     r.Name,
			Path:     r.Path,
			Synopsis: r.Synopsis,
			Stars:    r.Stars,
			URL:      "https://" + r.Path,
		})
	}
	sortByStars(pkgs)
	return pkgs, nil
}

type githubRepo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	License     *struct {
		SPDX string `json:"spdx_id"`
	} `json:"license"`
}

// GitHub searches Go repositories on GitHub, most starred first. A non-200
// answer yields no packages.
func (c *Client) GitHub(ctx context.Context, query string) ([]Package, error) {
	params := url.Values{
		"q":     {`"` + query + `" language:go`},
		"sort":  {"stars"},
		"order": {"desc"},
	}
	u := orDefault(c.GitHubURL, DefaultGitHubURL) + "/search/repositories?" + params.Encode()
	header := http.Header{"Accept": {"application/vnd.github+json"}}
	if c.Token != "" {
		header.Set("Authorization", "token "+c.Token)
	}
	var body struct {
		Items []githubRepo `json:"items"`
	}
	ok, err := c.getJSON(ctx, u, header, &body)
	if err != nil || !ok {
		return nil, err
	}
	pkgs := make([]Package, 0, len(body.Items))
	for _, r := range body.Items {
		p := Package{
			Name:     r.Name,
			Synopsis: r.Description,
			Stars:    r.Stars,
			URL:      r.HTMLURL,
		}
		if r.License != nil {
			p.License = r.License.SPDX
		}
		if path, err := GoGetPath(p); err == nil {
			p.Path = path
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}

// Search queries both indexes concurrently and merges the results. A
// package found by both is reported once, with the godoc entry winning.
func (c *Client) Search(ctx context.Context, query string) ([]Package, error) {
	var fromGoDoc, fromGitHub []Package
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		fromGoDoc, err = c.GoDoc(gctx, query)
		return err
	})
	g.Go(func() (err error) {
		fromGitHub, err = c.GitHub(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []Package
	for _, p := range append(fromGoDoc, fromGitHub...) {
		key := p.Path
		if key == "" {
			key = p.URL
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, p)
	}
	sortByStars(merged)
	log.WithFields(log.Fields{
		"query":  query,
		"godoc":  len(fromGoDoc),
		"github": len(fromGitHub),
		"merged": len(merged),
	}).Debug("package search")
	return merged, nil
}

func sortByStars(pkgs []Package) {
	sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].Stars > pkgs[j].Stars })
}

// getJSON decodes the body of a GET into v. It reports false, with no
// error, when the server answers with anything but 200.
func (c *Client) getJSON(ctx context.Context, u string, header http.Header, v interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return false, fmt.Errorf("searching packages: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{"url": u, "status": resp.StatusCode}).Debug("search unavailable")
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", req.URL.Host, err)
	}
	return true, nil
}
