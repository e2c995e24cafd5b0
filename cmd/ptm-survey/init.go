// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the store schema and seed the constant tables",
	Long: `Init creates every table and seeds the search years, the canonical keyword
set, the natural-science field set, and the LLM prompt catalog. Re-running
init is a no-op for rows that already exist.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Int("min-year", 2015, "first search year (lower-bounded at 1999)")
	initCmd.Flags().Int("max-year", 2024, "last search year (upper-bounded at the current year)")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	minYear, _ := cmd.Flags().GetInt("min-year")
	maxYear, _ := cmd.Flags().GetInt("max-year")

	return runStage(cmd, stage.StageInit, stage.Params{
		Init: types.InitConfig{
			DBPath:  dbPath(cmd),
			MinYear: minYear,
			MaxYear: maxYear,
		},
	})
}
