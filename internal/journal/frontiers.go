// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pdiddy/ptm-survey/internal/fulltext"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// Frontiers search endpoints. Two API generations exist; config picks one.
// Vars so tests can substitute httptest servers.
var (
	frontiersSearchBase       = "https://www.frontiersin.org/api/v3/articles/search"
	frontiersLegacySearchBase = "https://www.frontiersin.org/api/v2/articles/search"
)

// frontiersTop is the result budget per query. The API has no year filter,
// so one query per keyword covers all years and Top must exceed any
// plausible match count.
const frontiersTop = 5000

// FrontiersAdapter queries the Frontiers JSON POST API.
type FrontiersAdapter struct {
	opts Options
}

// Name returns the megajournal identifier.
func (a *FrontiersAdapter) Name() types.Megajournal { return types.JournalFrontiersIn }

type frontiersQuery struct {
	Query string `json:"query"`
	Top   int    `json:"top"`
}

type frontiersResponse struct {
	Summary  frontiersSummary   `json:"Summary"`
	Articles []frontiersArticle `json:"Articles"`
}

type frontiersSummary struct {
	Article frontiersCount `json:"Article"`
}

type frontiersCount struct {
	Count int `json:"Count"`
}

type frontiersArticle struct {
	Doi     string           `json:"Doi"`
	Title   string           `json:"Title"`
	Journal frontiersJournal `json:"Journal"`
}

type frontiersJournal struct {
	Name string `json:"Name"`
}

// Search issues one POST per keyword across all years (the API cannot
// filter by year). The search row is stored with year 0 and page 1.
func (a *FrontiersAdapter) Search(ctx context.Context, keywords []string, years []int) []types.Search {
	base := frontiersSearchBase
	if a.opts.LegacyEndpoints {
		base = frontiersLegacySearchBase
	}

	var out []types.Search
	for _, kw := range keywords {
		body, err := json.Marshal(frontiersQuery{Query: `"` + kw + `"`, Top: frontiersTop})
		if err != nil {
			a.opts.Logger.Error().Err(err).Str("keyword", kw).Msg("encoding query failed")
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(body))
		if err != nil {
			a.opts.Logger.Error().Err(err).Str("url", base).Msg("creating request failed")
			out = append(out, types.Search{Megajournal: a.Name(), Keyword: kw, Page: 1, URL: base})
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		row := fetchSearchPage(ctx, a.opts, req, a.Name(), kw, 0, 1)
		out = append(out, row)

		if ok(row) {
			var fr frontiersResponse
			if err := json.Unmarshal([]byte(row.Body), &fr); err == nil && fr.Summary.Article.Count > frontiersTop {
				a.opts.Logger.Warn().Str("keyword", kw).Int("count", fr.Summary.Article.Count).
					Int("top", frontiersTop).Msg("match count exceeds result budget")
			}
		}
	}
	return out
}

// ParseResponses extracts DOI, title, and the nested journal name from each
// persisted response.
func (a *FrontiersAdapter) ParseResponses(searches []types.Search) ([]types.Article, error) {
	var articles []types.Article
	for _, s := range searches {
		if !ok(s) {
			continue
		}
		var fr frontiersResponse
		if err := json.Unmarshal([]byte(s.Body), &fr); err != nil {
			a.opts.Logger.Warn().Err(err).Int64("search_id", s.ID).Msg("response parse failed, skipping")
			continue
		}
		for _, art := range fr.Articles {
			if art.Doi == "" {
				continue
			}
			articles = append(articles, types.Article{
				DOI:         CanonicalDOI(art.Doi),
				Title:       art.Title,
				Megajournal: a.Name(),
				Journal:     art.Journal.Name,
				SearchID:    s.ID,
			})
		}
	}
	return DedupArticles(articles), nil
}

// DownloadFullText rewrites each open-access PDF URL's "/pdf" segment to
// "/xml".
func (a *FrontiersAdapter) DownloadFullText(ctx context.Context, reqs []fulltext.Request, archivePath string) []types.FullText {
	return fulltext.FromEndpoints(ctx, a.opts.Client, a.opts.MaxRetries, a.opts.UserAgent, reqs,
		func(r fulltext.Request) string { return fulltext.XMLURLFromPDF(r.OAURL) },
		a.opts.Logger)
}
