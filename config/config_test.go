// Copyright © 2024 The Gide authors

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, []string{"gofmt -e -s"}, c.FormatCmds)
	assert.True(t, c.FormatOnSave)
	assert.Equal(t, TriggerBoth, c.SignatureTrigger)
}

func TestLoadFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
format_cmds:
  - goimports
  - gofmt -s
format_on_save: false
popup_width: 480
signature_trigger: hover
tool_timeout: 2s
github_token: abc123
`)))

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"goimports", "gofmt -s"}, c.FormatCmds)
	assert.False(t, c.FormatOnSave)
	assert.Equal(t, 480, c.PopupWidth)
	assert.Equal(t, TriggerHover, c.SignatureTrigger)
	assert.Equal(t, 2*time.Second, c.ToolTimeout)
	assert.Equal(t, "abc123", c.GitHubToken)
	// Unset keys keep their defaults.
	assert.Equal(t, "https://api.godoc.org", c.GoDocURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GIDE_FORMAT_ON_SAVE", "false")
	t.Setenv("GIDE_SIGNATURE_TRIGGER", "edit")

	v := viper.New()
	v.SetEnvPrefix("GIDE")
	v.AutomaticEnv()

	c, err := Load(v)
	require.NoError(t, err)
	assert.False(t, c.FormatOnSave)
	assert.Equal(t, TriggerEdit, c.SignatureTrigger)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad trigger", func(c *Config) { c.SignatureTrigger = "sometimes" }, "signature_trigger"},
		{"empty command", func(c *Config) { c.FormatCmds = []string{"gofmt", " "} }, "format_cmds"},
		{"unterminated quote", func(c *Config) { c.FormatCmds = []string{`gofmt "-s`} }, "format_cmds"},
		{"no commands", func(c *Config) { c.FormatCmds = nil }, ""},
		{"negative width", func(c *Config) { c.PopupWidth = -1 }, "popup_width"},
		{"negative timeout", func(c *Config) { c.ToolTimeout = -time.Second }, "tool_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTrigger(t *testing.T) {
	assert.True(t, TriggerBoth.OnHover())
	assert.True(t, TriggerBoth.OnEdit())
	assert.True(t, TriggerHover.OnHover())
	assert.False(t, TriggerHover.OnEdit())
	assert.False(t, TriggerEdit.OnHover())
	assert.True(t, TriggerEdit.OnEdit())
	assert.False(t, TriggerNone.OnHover())
	assert.False(t, TriggerNone.OnEdit())
}

func TestRunner(t *testing.T) {
	c := Default()
	c.ToolTimeout = 3 * time.Second
	assert.Equal(t, 3*time.Second, c.Runner().Timeout)
}
