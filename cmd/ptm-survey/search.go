// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search one megajournal for the seeded keywords and years",
	Long: `Search runs one megajournal adapter over the Cartesian product of the
seeded keywords and years, persists every raw response page, and extracts
article records (DOI, title, journal) from the persisted pages. Pages
already in the store are not fetched again.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("journal", string(types.Journals[0]), "megajournal to search (bmj, f1000, frontiersin, plos, nature)")
	searchCmd.Flags().Bool("legacy-endpoints", false, "use the older search URL templates (bmj, frontiersin)")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	searchCmd.Flags().Int("max-retries", 0, "HTTP retry budget (default 10)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("journal")
	journal := types.Megajournal(name)
	known := false
	for _, j := range append(types.Journals, types.JournalNature) {
		if journal == j {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown journal %q", name)
	}
	legacy, _ := cmd.Flags().GetBool("legacy-endpoints")

	return runStage(cmd, stage.StageSearch, stage.Params{
		Search: types.SearchConfig{
			HTTPConfig:      httpConfig(cmd),
			DBPath:          dbPath(cmd),
			Journal:         journal,
			LegacyEndpoints: legacy,
		},
	})
}
