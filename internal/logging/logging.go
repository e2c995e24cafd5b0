// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the zerolog logger shared by all stages.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

// New returns a logger built from cfg. Level defaults to info; format
// defaults to console on a terminal-oriented CLI.
func New(cfg types.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "json":
		logger = zerolog.New(os.Stderr)
	default:
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	return logger.Level(level).With().Timestamp().Logger()
}
