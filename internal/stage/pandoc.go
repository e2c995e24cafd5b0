// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/convert"
	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/internal/store"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// pandocStage prunes and converts every JATS row that does not have a
// Markdown row yet.
type pandocStage struct {
	cfg types.PandocConfig
	log zerolog.Logger
	out io.Writer
}

func (s *pandocStage) Name() string { return StagePandoc }

func (s *pandocStage) Execute(ctx context.Context) error {
	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.ListJATSMissingMarkdown(ctx)
	if err != nil {
		return err
	}

	uri := s.cfg.ConverterURI
	if uri == "" {
		uri = convert.DefaultConverterURI
	}
	client := &convert.PandocClient{
		URI:        uri,
		Client:     httputil.NewClient(s.cfg.Timeout),
		MaxRetries: s.cfg.MaxRetries,
		UserAgent:  s.cfg.UserAgent,
	}

	converted := convert.ToMarkdown(ctx, client, docs, s.log)
	inserted, err := st.AppendMarkdown(ctx, converted)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "pandoc: %d pending, %d converted, %d new\n", len(docs), len(converted), inserted)
	return nil
}
