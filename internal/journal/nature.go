// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/ptm-survey/internal/fulltext"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// natureSearchBase is the Nature portfolio HTML search page. Var so tests
// can substitute an httptest server.
var natureSearchBase = "https://www.nature.com/search"

const naturePageSize = 50

// NatureAdapter persists raw search pages from the Nature portfolio site.
// It is search-only: the cohort is built from the other megajournals, and
// these pages are kept for coverage comparison.
type NatureAdapter struct {
	opts Options
}

// Name returns the megajournal identifier.
func (a *NatureAdapter) Name() types.Megajournal { return types.JournalNature }

func (a *NatureAdapter) searchURL(keyword string, year, page int) string {
	params := url.Values{
		"q":          {fmt.Sprintf("%q", keyword)},
		"date_range": {fmt.Sprintf("%d-%d", year, year)},
		"page":       {strconv.Itoa(page)},
	}
	return natureSearchBase + "?" + params.Encode()
}

// Search iterates keywords × years. The result count comes from the
// results summary element; a parse failure treats the total as one page.
func (a *NatureAdapter) Search(ctx context.Context, keywords []string, years []int) []types.Search {
	var out []types.Search
	for _, kw := range keywords {
		for _, year := range years {
			first := a.fetchPage(ctx, kw, year, 1)
			out = append(out, first)

			pages := 1
			if ok(first) {
				if count, err := parseNatureResultCount(first.Body); err != nil {
					a.opts.Logger.Warn().Err(err).Str("keyword", kw).Int("year", year).Msg("page count parse failed, assuming 1 page")
				} else {
					pages = (count + naturePageSize - 1) / naturePageSize
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

func (a *NatureAdapter) fetchPage(ctx context.Context, keyword string, year, page int) types.Search {
	reqURL := a.searchURL(keyword, year, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		a.opts.Logger.Error().Err(err).Str("url", reqURL).Msg("creating request failed")
		return types.Search{Megajournal: a.Name(), Keyword: keyword, Year: year, Page: page, URL: reqURL}
	}
	return fetchSearchPage(ctx, a.opts, req, a.Name(), keyword, year, page)
}

// parseNatureResultCount reads the total from the results summary element,
// e.g. <span data-test="results-data">Showing 1–50 of 1234 results</span>.
func parseNatureResultCount(body string) (int, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parsing search page: %w", err)
	}

	summary := findFirst(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key == "data-test" && attr.Val == "results-data" {
				return true
			}
		}
		return false
	})
	if summary == nil {
		return 0, fmt.Errorf("no results summary element")
	}

	fields := strings.Fields(nodeText(summary))
	for i, f := range fields {
		if f == "of" && i+1 < len(fields) {
			count, err := strconv.Atoi(strings.ReplaceAll(fields[i+1], ",", ""))
			if err != nil {
				return 0, fmt.Errorf("parsing result count %q: %w", fields[i+1], err)
			}
			return count, nil
		}
	}
	return 0, fmt.Errorf("no result count in summary %q", nodeText(summary))
}

// ParseResponses is not implemented; the adapter is search-only.
func (a *NatureAdapter) ParseResponses(searches []types.Search) ([]types.Article, error) {
	return nil, ErrSearchOnly
}

// DownloadFullText is not implemented; the adapter is search-only.
func (a *NatureAdapter) DownloadFullText(ctx context.Context, reqs []fulltext.Request, archivePath string) []types.FullText {
	a.opts.Logger.Error().Err(ErrSearchOnly).Msg("nature adapter cannot download full text")
	return nil
}
