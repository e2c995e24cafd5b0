// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/prompts"
	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify each paper with an LLM under one system prompt",
	Long: `Analyze submits every Markdown document to an OpenAI-compatible inference
backend with one of the seeded system prompts and deterministic decoding
parameters, persisting the raw response, the reasoning content, and the
wall-clock seconds per call. Several workers can partition the document
set with --index and --stride without coordination. Documents that
already have a response for the prompt are skipped unless --reprocess is
given.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("backend", string(types.BackendALCF), "inference backend (alcf, ollama)")
	analyzeCmd.Flags().String("endpoint", "", "chat-completions base URL (required for alcf)")
	analyzeCmd.Flags().String("key", "", "bearer token for the backend")
	analyzeCmd.Flags().String("model", "", "model identifier sent with each request")
	analyzeCmd.Flags().String("prompt", prompts.TagUsesDL, "system prompt tag")
	analyzeCmd.Flags().Int("index", 0, "shard offset: first document index this worker takes")
	analyzeCmd.Flags().Int("stride", 1, "shard stride: this worker takes every stride-th document")
	analyzeCmd.Flags().Bool("reprocess", false, "re-run documents that already have a response")
	analyzeCmd.Flags().Duration("timeout", defaultAnalyzeTimeout, "HTTP request timeout per inference call")
	analyzeCmd.Flags().Int("max-retries", 0, "HTTP retry budget (default 10)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	backend, _ := cmd.Flags().GetString("backend")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	key, _ := cmd.Flags().GetString("key")
	model, _ := cmd.Flags().GetString("model")
	tag, _ := cmd.Flags().GetString("prompt")
	index, _ := cmd.Flags().GetInt("index")
	stride, _ := cmd.Flags().GetInt("stride")
	reprocess, _ := cmd.Flags().GetBool("reprocess")

	if key == "" {
		key = loadedSecrets.BackendAPIKey()
	}
	if model == "" {
		return fmt.Errorf("a model identifier is required (--model)")
	}
	if stride < 1 || index < 0 || index >= stride {
		return fmt.Errorf("shard (index=%d, stride=%d) is invalid: need stride >= 1 and 0 <= index < stride", index, stride)
	}

	return runStage(cmd, stage.StageAnalyze, stage.Params{
		Analyze: types.AnalyzeConfig{
			HTTPConfig: httpConfig(cmd),
			DBPath:     dbPath(cmd),
			Backend:    types.AnalyzeBackend(backend),
			Endpoint:   endpoint,
			APIKey:     key,
			Model:      model,
			PromptTag:  tag,
			Index:      index,
			Stride:     stride,
			Reprocess:  reprocess,
		},
	})
}
