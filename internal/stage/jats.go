// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/fulltext"
	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/internal/journal"
	"github.com/pdiddy/ptm-survey/internal/store"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// jatsStage acquires JATS XML for every natural-science article that does
// not have one yet, grouping candidates by megajournal so each adapter
// handles its own download path.
type jatsStage struct {
	cfg types.JATSConfig
	log zerolog.Logger
	out io.Writer
}

func (s *jatsStage) Name() string { return StageJATS }

func (s *jatsStage) Execute(ctx context.Context) error {
	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	candidates, err := st.ListFullTextCandidates(ctx)
	if err != nil {
		return err
	}

	byJournal := make(map[types.Megajournal][]fulltext.Request)
	for _, c := range candidates {
		byJournal[c.Megajournal] = append(byJournal[c.Megajournal], fulltext.Request{DOI: c.DOI, OAURL: c.OAURL})
	}

	opts := journal.Options{
		Client:     httputil.NewClient(s.cfg.Timeout),
		MaxRetries: s.cfg.MaxRetries,
		UserAgent:  s.cfg.UserAgent,
		Logger:     s.log,
	}

	fetched := 0
	inserted := 0
	for _, j := range types.Journals {
		reqs := byJournal[j]
		if len(reqs) == 0 {
			continue
		}
		adapter, err := journal.ForJournal(j, opts)
		if err != nil {
			return err
		}
		docs := adapter.DownloadFullText(ctx, reqs, s.cfg.ArchivePath)
		fetched += len(docs)

		n, err := st.AppendJATS(ctx, docs)
		if err != nil {
			return err
		}
		inserted += n
	}

	fmt.Fprintf(s.out, "jats: %d candidates, %d fetched, %d new\n", len(candidates), fetched, inserted)
	return nil
}
