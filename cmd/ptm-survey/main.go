// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ptm-survey CLI. One subcommand
// per pipeline stage; every stage reads from and appends to the same
// SQLite store, so stages can be run independently and resumed.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ptm-survey/internal/logging"
	"github.com/pdiddy/ptm-survey/internal/secrets"
	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "ptm-survey/0.1"
	defaultMaxRetries = 10
	defaultDBPath     = "ptm-survey.db"

	// Inference calls run far longer than the crawl requests; a completion
	// can legitimately take most of an hour on a busy backend.
	defaultAnalyzeTimeout = 3600 * time.Second
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the ptm-survey CLI.
var rootCmd = &cobra.Command{
	Use:   "ptm-survey",
	Short: "Longitudinal survey of pre-trained model reuse in the natural sciences",
	Long: `ptm-survey builds the evidence base for a longitudinal survey of pre-trained
model (PTM) reuse in natural-science publications. It searches megajournal
archives, enriches articles with OpenAlex metadata, filters to the
natural-science cohort, acquires JATS full text, converts it to Markdown,
and classifies each paper with an LLM.

Each pipeline stage is a subcommand: init, search, openalex, filter, jats,
pandoc, analyze, and normalize. All stages share one SQLite store and are
append-only, so any stage can be re-run to resume after an interruption.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ptm-survey.yaml or ~/.config/ptm-survey/config.yaml)")
	rootCmd.PersistentFlags().String("db", defaultDBPath, "SQLite database file")
	rootCmd.PersistentFlags().String("log-level", "info", "minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log output format (console, json)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ptm-survey")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ptm-survey"))
		}
	}

	viper.SetEnvPrefix("PTM_SURVEY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the database file from flag, then config.
func dbPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("db") {
		path, _ := cmd.Flags().GetString("db")
		return path
	}
	if viper.IsSet("db") {
		return viper.GetString("db")
	}
	path, _ := cmd.Flags().GetString("db")
	return path
}

// httpConfig builds the shared HTTP settings from a command's flags.
func httpConfig(cmd *cobra.Command) types.HTTPConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retries, _ := cmd.Flags().GetInt("max-retries")
	if retries == 0 {
		retries = defaultMaxRetries
	}
	return types.HTTPConfig{
		Timeout:    timeout,
		UserAgent:  defaultUserAgent,
		MaxRetries: retries,
	}
}

// runStage constructs the named stage and executes it.
func runStage(cmd *cobra.Command, name string, params stage.Params) error {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	format, _ := rootCmd.PersistentFlags().GetString("log-format")
	params.Logger = logging.New(types.LoggingConfig{Level: level, Format: format})
	params.Out = os.Stdout

	s, err := stage.New(name, params)
	if err != nil {
		return err
	}
	return s.Execute(cmd.Context())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
