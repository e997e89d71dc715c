// Copyright © 2024 The Gide authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/gide/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
	debugFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gide",
	Short: "Go editing helpers for editors and the terminal",
	Long: `Gide wraps the Go toolchain's editing tools (gofmt, goimports, gocode,
gogetdoc) behind a language server and a small CLI.

Getting started:
  gide fmt -w ./...            Format every Go file below the current directory
  gide lsp                     Start the language server on stdio
  gide doc main.go 120         Show the signature of the symbol at offset 120
  gide search yaml             Find packages on godoc and GitHub
  gide watch .                 Format Go files whenever they are saved

Configuration is read from $HOME/.gide.yaml (or --config) and from
environment variables prefixed with GIDE_, e.g. GIDE_FORMAT_ON_SAVE=false.

Settings:
  format_cmds        Formatter command lines, run in order (default ["gofmt -e -s"])
  format_on_save     Format when a file is saved (default true)
  signature_trigger  When to show signatures: none, hover, edit or both
  tool_timeout       Upper bound for each tool invocation (default 10s)
  github_token       Token for GitHub package search
  debug              Verbose logging`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gide.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging.")
	_ = viper.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gide" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gide")
	}

	viper.SetEnvPrefix("GIDE")
	viper.AutomaticEnv() // read in environment variables that match

	err := viper.ReadInConfig()
	if viper.GetBool(config.KeyDebug) {
		log.SetLevel(log.DebugLevel)
	}
	if err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	} else if cfgFile != "" {
		log.WithError(err).Warn("reading config file")
	}
}
