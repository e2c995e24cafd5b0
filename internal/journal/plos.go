// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/ptm-survey/internal/fulltext"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// plosSearchBase is the PLOS Solr search endpoint. Declared as a var so
// tests can substitute an httptest server.
var plosSearchBase = "https://api.plos.org/search"

const plosPageSize = 100

// PLOSAdapter queries the PLOS JSON search API. Full text comes from the
// allofplos bulk archive, not per-article endpoints.
type PLOSAdapter struct {
	opts Options
}

// Name returns the megajournal identifier.
func (a *PLOSAdapter) Name() types.Megajournal { return types.JournalPLOS }

// plosResponse mirrors the search endpoint's JSON envelope.
type plosResponse struct {
	SearchResults plosResults `json:"searchResults"`
}

type plosResults struct {
	NumFound int       `json:"numFound"`
	Docs     []plosDoc `json:"docs"`
}

type plosDoc struct {
	ID      string `json:"id"`
	Title   string `json:"title_display"`
	Journal string `json:"journal"`
}

// searchURL encodes one (keyword, year, page) query. Keywords are quoted
// phrases; the year bounds a publication_date range filter.
func (a *PLOSAdapter) searchURL(keyword string, year, page int) string {
	params := url.Values{
		"q":     {fmt.Sprintf(`everything:"%s"`, keyword)},
		"fq":    {fmt.Sprintf(`publication_date:[%d-01-01T00:00:00Z TO %d-12-31T23:59:59Z]`, year, year)},
		"fl":    {"id,title_display,journal"},
		"wt":    {"json"},
		"rows":  {fmt.Sprintf("%d", plosPageSize)},
		"start": {fmt.Sprintf("%d", (page-1)*plosPageSize)},
	}
	return plosSearchBase + "?" + params.Encode()
}

// Search iterates keywords × years. The first page's numFound determines
// the page count; a parse failure treats the total as one page.
func (a *PLOSAdapter) Search(ctx context.Context, keywords []string, years []int) []types.Search {
	var out []types.Search
	for _, kw := range keywords {
		for _, year := range years {
			first := a.fetchPage(ctx, kw, year, 1)
			out = append(out, first)

			pages := 1
			if ok(first) {
				var pr plosResponse
				if err := json.Unmarshal([]byte(first.Body), &pr); err != nil {
					a.opts.Logger.Warn().Err(err).Str("keyword", kw).Int("year", year).Msg("page count parse failed, assuming 1 page")
				} else {
					pages = (pr.SearchResults.NumFound + plosPageSize - 1) / plosPageSize
				}
			}

			for page := 2; page <= pages; page++ {
				if a.opts.Skip != nil && a.opts.Skip(kw, year, page) {
					continue
				}
				out = append(out, a.fetchPage(ctx, kw, year, page))
			}
		}
	}
	return out
}

func (a *PLOSAdapter) fetchPage(ctx context.Context, keyword string, year, page int) types.Search {
	reqURL := a.searchURL(keyword, year, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		a.opts.Logger.Error().Err(err).Str("url", reqURL).Msg("creating request failed")
		return types.Search{Megajournal: a.Name(), Keyword: keyword, Year: year, Page: page, URL: reqURL}
	}
	return fetchSearchPage(ctx, a.opts, req, a.Name(), keyword, year, page)
}

// ParseResponses extracts one article per result document. The document id
// is the DOI; title and journal come from the same record.
func (a *PLOSAdapter) ParseResponses(searches []types.Search) ([]types.Article, error) {
	var articles []types.Article
	for _, s := range searches {
		if !ok(s) {
			continue
		}
		var pr plosResponse
		if err := json.Unmarshal([]byte(s.Body), &pr); err != nil {
			a.opts.Logger.Warn().Err(err).Int64("search_id", s.ID).Msg("response parse failed, skipping")
			continue
		}
		for _, doc := range pr.SearchResults.Docs {
			articles = append(articles, types.Article{
				DOI:         CanonicalDOI(doc.ID),
				Title:       doc.Title,
				Megajournal: a.Name(),
				Journal:     doc.Journal,
				SearchID:    s.ID,
			})
		}
	}
	return DedupArticles(articles), nil
}

// DownloadFullText reads each DOI's entry from the bulk archive.
func (a *PLOSAdapter) DownloadFullText(ctx context.Context, reqs []fulltext.Request, archivePath string) []types.FullText {
	if archivePath == "" {
		a.opts.Logger.Error().Msg("plos full text requires the bulk archive path")
		return nil
	}
	dois := make([]string, 0, len(reqs))
	for _, r := range reqs {
		dois = append(dois, r.DOI)
	}
	out, err := fulltext.FromArchive(archivePath, dois, a.opts.Logger)
	if err != nil {
		a.opts.Logger.Error().Err(err).Str("archive", archivePath).Msg("opening bulk archive failed")
		return nil
	}
	return out
}
