// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/internal/openalex"
	"github.com/pdiddy/ptm-survey/internal/store"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// openAlexStage enriches every DOI without a metadata record, then
// rebuilds the natural-science set from the full enriched corpus.
type openAlexStage struct {
	cfg types.OpenAlexConfig
	log zerolog.Logger
	out io.Writer
}

func (s *openAlexStage) Name() string { return StageOpenAlex }

func (s *openAlexStage) Execute(ctx context.Context) error {
	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	dois, err := st.DOIsMissingOpenAlex(ctx)
	if err != nil {
		return err
	}

	records := openalex.Enrich(ctx, openalex.Config{
		Client:     httputil.NewClient(s.cfg.Timeout),
		MaxRetries: s.cfg.MaxRetries,
		UserAgent:  s.cfg.UserAgent,
		Email:      s.cfg.Email,
	}, dois, s.log)

	if err := st.AppendOpenAlex(ctx, records); err != nil {
		return err
	}

	added, removed, err := rebuildNaturalScience(ctx, st)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "openalex: %d dois pending, %d enriched; filter %+d/-%d\n",
		len(dois), len(records), added, removed)
	return nil
}

// filterStage rebuilds the natural-science DOI set without enriching.
type filterStage struct {
	dbPath string
	log    zerolog.Logger
	out    io.Writer
}

func (s *filterStage) Name() string { return StageFilter }

func (s *filterStage) Execute(ctx context.Context) error {
	st, err := store.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	added, removed, err := rebuildNaturalScience(ctx, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "filter: %+d added, -%d removed\n", added, removed)
	return nil
}

// rebuildNaturalScience recomputes the qualifying DOI set from the latest
// enrichment record per DOI and reconciles the stored set against it.
func rebuildNaturalScience(ctx context.Context, st *store.Store) (added, removed int, err error) {
	records, err := st.ListOpenAlex(ctx)
	if err != nil {
		return 0, 0, err
	}
	fields, err := st.FieldSet(ctx)
	if err != nil {
		return 0, 0, err
	}
	return st.RebuildNaturalScience(ctx, openalex.NaturalScience(records, fields))
}
