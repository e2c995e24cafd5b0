// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var jatsCmd = &cobra.Command{
	Use:   "jats",
	Short: "Acquire JATS full text for the natural-science articles",
	Long: `Jats obtains structured full text for every natural-science article that
does not have one yet. PLOS articles come from the bulk archive zip; the
other megajournals are fetched from per-article XML endpoints derived
from the open-access URL. Failures are logged and skipped.`,
	RunE: runJATS,
}

func init() {
	jatsCmd.Flags().String("archive", "", "PLOS bulk archive zip (required for PLOS articles)")
	jatsCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	jatsCmd.Flags().Int("max-retries", 0, "HTTP retry budget (default 10)")

	rootCmd.AddCommand(jatsCmd)
}

func runJATS(cmd *cobra.Command, args []string) error {
	archive, _ := cmd.Flags().GetString("archive")

	return runStage(cmd, stage.StageJATS, stage.Params{
		JATS: types.JATSConfig{
			HTTPConfig:  httpConfig(cmd),
			DBPath:      dbPath(cmd),
			ArchivePath: archive,
		},
	})
}
