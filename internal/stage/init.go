// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/prompts"
	"github.com/pdiddy/ptm-survey/internal/store"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// minYearFloor is the earliest year the pipeline searches; none of the
// megajournal archives reach further back usefully.
const minYearFloor = 1999

// initStage creates the schema and seeds the constant tables.
type initStage struct {
	cfg types.InitConfig
	log zerolog.Logger
	out io.Writer
}

func (s *initStage) Name() string { return StageInit }

func (s *initStage) Execute(ctx context.Context) error {
	minYear, maxYear := clampYears(s.cfg.MinYear, s.cfg.MaxYear)

	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog, err := prompts.Catalog()
	if err != nil {
		return err
	}
	if err := st.SeedInit(ctx, minYear, maxYear, catalog); err != nil {
		return err
	}

	s.log.Info().Int("min_year", minYear).Int("max_year", maxYear).Msg("store initialized")
	fmt.Fprintf(s.out, "initialized %s: years %d-%d, %d keywords, %d prompts\n",
		s.cfg.DBPath, minYear, maxYear, len(store.Keywords), len(catalog))
	return nil
}

// clampYears bounds the requested range to [1999, current year].
func clampYears(minYear, maxYear int) (int, int) {
	if minYear < minYearFloor {
		minYear = minYearFloor
	}
	if current := time.Now().Year(); maxYear > current {
		maxYear = current
	}
	return minYear, maxYear
}
