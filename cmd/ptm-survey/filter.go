// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Rebuild the natural-science DOI set from stored metadata",
	Long: `Filter recomputes which DOIs qualify as natural science (cited at least
once, at least two topic fields in the seeded set) from the enrichment
rows already in the store, without calling any external service. The
stored set is reconciled in place; an unchanged corpus touches no rows.`,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	return runStage(cmd, stage.StageFilter, stage.Params{
		OpenAlex: types.OpenAlexConfig{DBPath: dbPath(cmd)},
	})
}
