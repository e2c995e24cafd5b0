// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/analyze"
	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/internal/prompts"
	"github.com/pdiddy/ptm-survey/internal/store"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// analyzeStage submits the shard's Markdown documents to the inference
// backend under one system prompt.
type analyzeStage struct {
	cfg types.AnalyzeConfig
	log zerolog.Logger
	out io.Writer
}

func (s *analyzeStage) Name() string { return StageAnalyze }

func (s *analyzeStage) Execute(ctx context.Context) error {
	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	tag := s.cfg.PromptTag
	if tag == "" {
		tag = prompts.TagUsesDL
	}
	prompt, err := st.PromptByTag(ctx, tag)
	if err != nil {
		return err
	}

	docs, err := st.ListMarkdown(ctx)
	if err != nil {
		return err
	}

	backend, err := analyze.NewBackend(s.cfg, httputil.NewClient(s.cfg.Timeout))
	if err != nil {
		return err
	}

	summary, err := analyze.Run(ctx, st, backend, prompt, docs, s.cfg, s.log)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "analyze %s: %d analyzed, %d skipped, %d failed (shard %d/%d over %d docs)\n",
		tag, summary.Analyzed, summary.Skipped, summary.Failed, s.cfg.Index, s.cfg.Stride, len(docs))
	return nil
}

// normalizeStage rewrites every raw response into its canonical JSON shape.
type normalizeStage struct {
	dbPath string
	log    zerolog.Logger
	out    io.Writer
}

func (s *normalizeStage) Name() string { return StageNormalize }

func (s *normalizeStage) Execute(ctx context.Context) error {
	st, err := store.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	updated, unchanged, err := analyze.NormalizeAll(ctx, st, prompts.Tags(), s.log)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "normalize: %d rewritten, %d already canonical\n", updated, unchanged)
	return nil
}
