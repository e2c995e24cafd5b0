// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stage dispatches one named pipeline stage per invocation. Every
// stage reads its input from the store, performs its work, and appends its
// output; cross-stage dependencies are implicit in the schema.
package stage

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

// Stage is a single pipeline step. Execute runs the step to completion;
// item-level failures are logged and skipped inside, only unrecoverable
// I/O surfaces as an error.
type Stage interface {
	Name() string
	Execute(ctx context.Context) error
}

// Params carries every stage's configuration; the factory picks the parts
// the named stage needs.
type Params struct {
	Init     types.InitConfig
	Search   types.SearchConfig
	OpenAlex types.OpenAlexConfig
	JATS     types.JATSConfig
	Pandoc   types.PandocConfig
	Analyze  types.AnalyzeConfig

	Logger zerolog.Logger
	Out    io.Writer
}

// Stage names accepted by the factory.
const (
	StageInit      = "init"
	StageSearch    = "search"
	StageOpenAlex  = "openalex"
	StageFilter    = "filter"
	StageJATS      = "jats"
	StagePandoc    = "pandoc"
	StageAnalyze   = "analyze"
	StageNormalize = "normalize"
)

// New constructs the named stage.
func New(name string, p Params) (Stage, error) {
	switch name {
	case StageInit:
		return &initStage{cfg: p.Init, log: p.Logger, out: p.Out}, nil
	case StageSearch:
		return &searchStage{cfg: p.Search, log: p.Logger, out: p.Out}, nil
	case StageOpenAlex:
		return &openAlexStage{cfg: p.OpenAlex, log: p.Logger, out: p.Out}, nil
	case StageFilter:
		return &filterStage{dbPath: p.OpenAlex.DBPath, log: p.Logger, out: p.Out}, nil
	case StageJATS:
		return &jatsStage{cfg: p.JATS, log: p.Logger, out: p.Out}, nil
	case StagePandoc:
		return &pandocStage{cfg: p.Pandoc, log: p.Logger, out: p.Out}, nil
	case StageAnalyze:
		return &analyzeStage{cfg: p.Analyze, log: p.Logger, out: p.Out}, nil
	case StageNormalize:
		return &normalizeStage{dbPath: p.Analyze.DBPath, log: p.Logger, out: p.Out}, nil
	}
	return nil, fmt.Errorf("unknown stage %q", name)
}
