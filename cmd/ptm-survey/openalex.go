// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var openalexCmd = &cobra.Command{
	Use:   "openalex",
	Short: "Enrich articles with OpenAlex metadata and rebuild the cohort",
	Long: `Openalex batches every DOI without a metadata record into filter queries
against the OpenAlex works endpoint and appends one enrichment row per
work: citation count, open-access flag and URL, and up to three topic
field names. It then rebuilds the natural-science DOI set from the full
enriched corpus.`,
	RunE: runOpenAlex,
}

func init() {
	openalexCmd.Flags().String("email", "", "polite-pool email sent as the mailto parameter")
	openalexCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	openalexCmd.Flags().Int("max-retries", 0, "HTTP retry budget (default 10)")

	rootCmd.AddCommand(openalexCmd)
}

func runOpenAlex(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = loadedSecrets.OpenAlexEmail()
	}
	if email == "" {
		return fmt.Errorf("an email is required for polite-pool access (--email or .secrets/openalex_email)")
	}

	return runStage(cmd, stage.StageOpenAlex, stage.Params{
		OpenAlex: types.OpenAlexConfig{
			HTTPConfig: httpConfig(cmd),
			DBPath:     dbPath(cmd),
			Email:      email,
		},
	})
}
