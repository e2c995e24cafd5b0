// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rewrite raw LLM responses into their canonical JSON shapes",
	Long: `Normalize coerces every stored model response into the canonical shape for
its prompt: code fences stripped, strict JSON parse, the tag's empty shape
on failure, blank or "None" model names dropped, and reuse classifications
restricted to the closed set. Rows are rewritten in place; re-running the
pass changes nothing.`,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	return runStage(cmd, stage.StageNormalize, stage.Params{
		Analyze: types.AnalyzeConfig{DBPath: dbPath(cmd)},
	})
}
