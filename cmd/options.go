// Copyright © 2024 The Gide authors

package cmd

import (
	"net/http"

	"github.com/luthersystems/gide/config"
	"github.com/luthersystems/gide/editor"
	"github.com/luthersystems/gide/toolexec"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (FmtCommand, LSPCommand,
// ...).
type Option func(*cmdConfig)

type cmdConfig struct {
	settings *config.Config
	runner   toolexec.Runner
	http     *http.Client
}

// WithConfig replaces the settings otherwise loaded through viper.
func WithConfig(c *config.Config) Option {
	return func(cfg *cmdConfig) { cfg.settings = c }
}

// WithRunner injects the runner used to invoke Go tools. Embedders and
// tests use it to run tools somewhere other than the local PATH.
func WithRunner(r toolexec.Runner) Option {
	return func(cfg *cmdConfig) { cfg.runner = r }
}

// WithHTTPClient sets the client used for package search.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *cmdConfig) { cfg.http = c }
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// load resolves the settings, preferring injected ones.
func (c *cmdConfig) load() (*config.Config, error) {
	if c.settings != nil {
		return c.settings, nil
	}
	return config.Load(viper.GetViper())
}

func (c *cmdConfig) toolRunner(settings *config.Config) toolexec.Runner {
	if c.runner != nil {
		return c.runner
	}
	return settings.Runner()
}

// session builds an editor session from the resolved settings.
func (c *cmdConfig) session() (*editor.Session, error) {
	settings, err := c.load()
	if err != nil {
		return nil, err
	}
	return editor.NewSession(settings, c.toolRunner(settings))
}
