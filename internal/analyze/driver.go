// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

// ResponseStore is the slice of the store the driver needs.
type ResponseStore interface {
	HasAnalysis(ctx context.Context, tag, doi string) (bool, error)
	AppendAnalysis(ctx context.Context, row types.AnalysisRow) error
	DeleteAnalysis(ctx context.Context, tag, doi string) error
}

// BatchSummary holds counts from one driver run.
type BatchSummary struct {
	Analyzed int
	Skipped  int
	Failed   int
}

// Total returns the number of documents in the shard.
func (s BatchSummary) Total() int {
	return s.Analyzed + s.Skipped + s.Failed
}

// HasFailures reports whether any inference call failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Run submits every shard document to the backend with the given system
// prompt and persists one row per call. docs must be DOI-sorted so that
// every worker computes the same shard boundaries; the shard is every
// cfg.Stride-th document starting at cfg.Index.
//
// Documents that already have a row for the tag are skipped unless
// cfg.Reprocess is set, in which case the old row is deleted first. A
// backend failure records an empty response row so the document is not
// retried on resume.
func Run(ctx context.Context, st ResponseStore, backend Backend, prompt types.Prompt, docs []types.MarkdownDoc, cfg types.AnalyzeConfig, log zerolog.Logger) (BatchSummary, error) {
	stride := cfg.Stride
	if stride < 1 {
		stride = 1
	}

	var summary BatchSummary
	for i := cfg.Index; i < len(docs); i += stride {
		doc := docs[i]

		present, err := st.HasAnalysis(ctx, prompt.Tag, doc.DOI)
		if err != nil {
			return summary, err
		}
		if present {
			if !cfg.Reprocess {
				log.Debug().Str("doi", doc.DOI).Msg("already analyzed, skipping")
				summary.Skipped++
				continue
			}
			if err := st.DeleteAnalysis(ctx, prompt.Tag, doc.DOI); err != nil {
				return summary, err
			}
		}

		row := types.AnalysisRow{DOI: doc.DOI, PromptTag: prompt.Tag}
		started := time.Now()
		completion, err := backend.Complete(ctx, prompt.Text, doc.Markdown)
		row.Seconds = time.Since(started).Seconds()
		if err != nil {
			log.Error().Err(err).Str("doi", doc.DOI).Msg("inference failed, recording empty response")
			summary.Failed++
		} else {
			row.ModelResponse = completion.Content
			row.Reasoning = completion.Reasoning
			summary.Analyzed++
			log.Info().Str("doi", doc.DOI).Str("tag", prompt.Tag).Float64("seconds", row.Seconds).Msg("analyzed")
		}

		if err := st.AppendAnalysis(ctx, row); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
