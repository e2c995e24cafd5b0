// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/ptm-survey/internal/fulltext"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// F1000 endpoints. Vars so tests can substitute httptest servers.
var (
	f1000SearchBase = "https://f1000research.com/extapi/search"
	f1000XMLBase    = "https://f1000research.com/extapi/article/xml"
)

// F1000Adapter queries the F1000Research XML search API. The API is keyed
// on a timestamp range covering the whole year; the page count is the
// totalnumberofpages attribute on the results element.
type F1000Adapter struct {
	opts Options
}

// Name returns the megajournal identifier.
func (a *F1000Adapter) Name() types.Megajournal { return types.JournalF1000 }

func (a *F1000Adapter) searchURL(keyword string, year, page int) string {
	params := url.Values{
		"q":        {fmt.Sprintf("%q", keyword)},
		"dateFrom": {fmt.Sprintf("%d-01-01T00:00:00Z", year)},
		"dateTo":   {fmt.Sprintf("%d-12-31T23:59:59Z", year)},
		"page":     {strconv.Itoa(page)},
	}
	return f1000SearchBase + "?" + params.Encode()
}

// Search iterates keywords × years, reading the page count from the first
// page's results element. A parse failure treats the total as one page.
func (a *F1000Adapter) Search(ctx context.Context, keywords []string, years []int) []types.Search {
	var out []types.Search
	for _, kw := range keywords {
		for _, year := range years {
			first := a.fetchPage(ctx, kw, year, 1)
			out = append(out, first)

			pages := 1
			if ok(first) {
				if n, err := parseF1000PageCount(first.Body); err != nil {
					a.opts.Logger.Warn().Err(err).Str("keyword", kw).Int("year", year).Msg("page count parse failed, assuming 1 page")
				} else {
					pages = n
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

func (a *F1000Adapter) fetchPage(ctx context.Context, keyword string, year, page int) types.Search {
	reqURL := a.searchURL(keyword, year, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		a.opts.Logger.Error().Err(err).Str("url", reqURL).Msg("creating request failed")
		return types.Search{Megajournal: a.Name(), Keyword: keyword, Year: year, Page: page, URL: reqURL}
	}
	return fetchSearchPage(ctx, a.opts, req, a.Name(), keyword, year, page)
}

// parseF1000PageCount reads the totalnumberofpages attribute from the
// results element.
func parseF1000PageCount(body string) (int, error) {
	dec := xml.NewDecoder(strings.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, fmt.Errorf("no results element: %w", err)
		}
		start, isStart := tok.(xml.StartElement)
		if !isStart || start.Name.Local != "results" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "totalnumberofpages" {
				n, err := strconv.Atoi(attr.Value)
				if err != nil {
					return 0, fmt.Errorf("parsing totalnumberofpages %q: %w", attr.Value, err)
				}
				return n, nil
			}
		}
		return 0, fmt.Errorf("results element has no totalnumberofpages attribute")
	}
}

// ParseResponses collects every doi element in each persisted page. The API
// carries no usable title in search results.
func (a *F1000Adapter) ParseResponses(searches []types.Search) ([]types.Article, error) {
	var articles []types.Article
	for _, s := range searches {
		if !ok(s) {
			continue
		}
		dois, err := parseF1000DOIs(s.Body)
		if err != nil {
			a.opts.Logger.Warn().Err(err).Int64("search_id", s.ID).Msg("response parse failed, skipping")
			continue
		}
		for _, doi := range dois {
			articles = append(articles, types.Article{
				DOI:         CanonicalDOI(doi),
				Megajournal: a.Name(),
				Journal:     "F1000Research",
				SearchID:    s.ID,
			})
		}
	}
	return DedupArticles(articles), nil
}

// parseF1000DOIs returns the character data of every doi element.
func parseF1000DOIs(body string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))
	var dois []string
	inDOI := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inDOI = t.Name.Local == "doi"
		case xml.EndElement:
			inDOI = false
		case xml.CharData:
			if inDOI {
				if doi := strings.TrimSpace(string(t)); doi != "" {
					dois = append(dois, doi)
				}
			}
		}
	}
	if len(dois) == 0 {
		return nil, fmt.Errorf("no doi elements")
	}
	return dois, nil
}

// DownloadFullText fetches each article's JATS from the fixed XML endpoint
// with the DOI substituted; the open-access URL is not consulted.
func (a *F1000Adapter) DownloadFullText(ctx context.Context, reqs []fulltext.Request, archivePath string) []types.FullText {
	return fulltext.FromEndpoints(ctx, a.opts.Client, a.opts.MaxRetries, a.opts.UserAgent, reqs,
		func(r fulltext.Request) string {
			return f1000XMLBase + "?doi=" + url.QueryEscape(r.DOI)
		},
		a.opts.Logger)
}
