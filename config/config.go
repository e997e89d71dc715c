// Copyright © 2024 The Gide authors

// Package config defines gide's settings. A Config value is built once and
// passed explicitly to everything that needs it.
package config

import (
	"fmt"
	"time"

	"github.com/luthersystems/gide/toolexec"
	"github.com/spf13/viper"
)

// Trigger selects when signature popups are shown.
type Trigger string

const (
	TriggerNone  Trigger = "none"
	TriggerHover Trigger = "hover"
	TriggerEdit  Trigger = "edit"
	TriggerBoth  Trigger = "both"
)

// OnHover reports whether signatures are shown when hovering a symbol.
func (t Trigger) OnHover() bool { return t == TriggerHover || t == TriggerBoth }

// OnEdit reports whether signatures are shown after typing "(".
func (t Trigger) OnEdit() bool { return t == TriggerEdit || t == TriggerBoth }

// Setting keys.
const (
	KeyFormatCmds       = "format_cmds"
	KeyFormatOnSave     = "format_on_save"
	KeyPopupWidth       = "popup_width"
	KeyPopupCSS         = "popup_css"
	KeySignatureTrigger = "signature_trigger"
	KeyDebug            = "debug"
	KeyToolTimeout      = "tool_timeout"
	KeyGitHubToken      = "github_token"
	KeyGoDocURL         = "godoc_url"
	KeyGitHubURL        = "github_url"
)

// Config holds every recognized setting.
type Config struct {
	// FormatCmds are run in order; each one's output feeds the next.
	FormatCmds       []string      `mapstructure:"format_cmds"`
	FormatOnSave     bool          `mapstructure:"format_on_save"`
	PopupWidth       int           `mapstructure:"popup_width"`
	PopupCSS         string        `mapstructure:"popup_css"`
	SignatureTrigger Trigger       `mapstructure:"signature_trigger"`
	Debug            bool          `mapstructure:"debug"`
	ToolTimeout      time.Duration `mapstructure:"tool_timeout"`
	GitHubToken      string        `mapstructure:"github_token"`
	GoDocURL         string        `mapstructure:"godoc_url"`
	GitHubURL        string        `mapstructure:"github_url"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		FormatCmds:       []string{"gofmt -e -s"},
		FormatOnSave:     true,
		PopupWidth:       600,
		PopupCSS:         "Packages/Gide/popup.css",
		SignatureTrigger: TriggerBoth,
		ToolTimeout:      10 * time.Second,
		GoDocURL:         "https://api.godoc.org",
		GitHubURL:        "https://api.github.com",
	}
}

// SetDefaults registers the built-in settings with v so that environment
// variables and config files can override them key by key.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyFormatCmds, d.FormatCmds)
	v.SetDefault(KeyFormatOnSave, d.FormatOnSave)
	v.SetDefault(KeyPopupWidth, d.PopupWidth)
	v.SetDefault(KeyPopupCSS, d.PopupCSS)
	v.SetDefault(KeySignatureTrigger, string(d.SignatureTrigger))
	v.SetDefault(KeyDebug, d.Debug)
	v.SetDefault(KeyToolTimeout, d.ToolTimeout)
	v.SetDefault(KeyGitHubToken, d.GitHubToken)
	v.SetDefault(KeyGoDocURL, d.GoDocURL)
	v.SetDefault(KeyGitHubURL, d.GitHubURL)
}

// Load builds a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.SignatureTrigger {
	case TriggerNone, TriggerHover, TriggerEdit, TriggerBoth:
	default:
		return fmt.Errorf("%s: unknown trigger %q (want none, hover, edit or both)", KeySignatureTrigger, c.SignatureTrigger)
	}
	if _, err := toolexec.ParseCommands(c.FormatCmds); err != nil {
		return fmt.Errorf("%s: %w", KeyFormatCmds, err)
	}
	if c.PopupWidth < 0 {
		return fmt.Errorf("%s: must not be negative", KeyPopupWidth)
	}
	if c.ToolTimeout < 0 {
		return fmt.Errorf("%s: must not be negative", KeyToolTimeout)
	}
	return nil
}

// Runner returns the tool runner described by the settings.
func (c *Config) Runner() *toolexec.ExecRunner {
	return &toolexec.ExecRunner{Timeout: c.ToolTimeout}
}
