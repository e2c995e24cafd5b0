// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/internal/journal"
	"github.com/pdiddy/ptm-survey/internal/store"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// searchStage runs one megajournal adapter over the seeded keyword and
// year sets, persists the raw pages, and extracts article records from
// every persisted page of that megajournal.
type searchStage struct {
	cfg types.SearchConfig
	log zerolog.Logger
	out io.Writer
}

func (s *searchStage) Name() string { return StageSearch }

func (s *searchStage) Execute(ctx context.Context) error {
	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	keywords, err := st.SearchKeywords(ctx)
	if err != nil {
		return err
	}
	years, err := st.Years(ctx)
	if err != nil {
		return err
	}

	adapter, err := journal.ForJournal(s.cfg.Journal, journal.Options{
		Client:          httputil.NewClient(s.cfg.Timeout),
		MaxRetries:      s.cfg.MaxRetries,
		UserAgent:       s.cfg.UserAgent,
		Logger:          s.log,
		LegacyEndpoints: s.cfg.LegacyEndpoints,
		Skip: func(keyword string, year, page int) bool {
			present, err := st.HasSearch(ctx, s.cfg.Journal, keyword, year, page)
			return err == nil && present
		},
	})
	if err != nil {
		return err
	}

	pages := adapter.Search(ctx, keywords, years)
	insertedPages, err := st.AppendSearches(ctx, pages)
	if err != nil {
		return err
	}

	// Articles are re-extracted from every persisted page of this
	// megajournal; the DOI key makes the append a no-op for known ones.
	persisted, err := st.ListSearches(ctx, s.cfg.Journal)
	if err != nil {
		return err
	}
	articles, err := adapter.ParseResponses(persisted)
	if errors.Is(err, journal.ErrSearchOnly) {
		s.log.Info().Str("journal", string(s.cfg.Journal)).Msg("search-only adapter, no article extraction")
		fmt.Fprintf(s.out, "%s: %d pages fetched, %d new (search-only)\n",
			s.cfg.Journal, len(pages), insertedPages)
		return nil
	}
	if err != nil {
		return err
	}
	insertedArticles, err := st.AppendArticles(ctx, articles)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s: %d pages fetched, %d new; %d articles parsed, %d new\n",
		s.cfg.Journal, len(pages), insertedPages, len(articles), insertedArticles)
	return nil
}
