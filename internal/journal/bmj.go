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

// BMJ search endpoints. The site has carried two URL layouts; config picks
// which one the adapter uses. Vars so tests can substitute httptest servers.
var (
	bmjSearchBase       = "https://www.bmj.com/search"
	bmjLegacySearchBase = "https://www.bmj.com/search/advanced"
)

const bmjPageSize = 100

// BMJAdapter scrapes the BMJ HTML search pages. Results are Highwire cite
// elements; the document count lives in a search summary tag.
type BMJAdapter struct {
	opts Options
}

// Name returns the megajournal identifier.
func (a *BMJAdapter) Name() types.Megajournal { return types.JournalBMJ }

func (a *BMJAdapter) searchURL(keyword string, year, page int) string {
	base := bmjSearchBase
	if a.opts.LegacyEndpoints {
		base = bmjLegacySearchBase
	}
	params := url.Values{
		"text_abstract_title": {fmt.Sprintf("%q", keyword)},
		"limit_from":          {fmt.Sprintf("%d-01-01", year)},
		"limit_to":            {fmt.Sprintf("%d-12-31", year)},
		"numresults":          {strconv.Itoa(bmjPageSize)},
		"page":                {strconv.Itoa(page - 1)},
	}
	return base + "?" + params.Encode()
}

// Search iterates keywords × years, deriving the page count from the
// summary tag of the first page. A missing or unparseable summary treats
// the total as one page.
func (a *BMJAdapter) Search(ctx context.Context, keywords []string, years []int) []types.Search {
	var out []types.Search
	for _, kw := range keywords {
		for _, year := range years {
			first := a.fetchPage(ctx, kw, year, 1)
			out = append(out, first)

			pages := 1
			if ok(first) {
				if count, err := parseBMJResultCount(first.Body); err != nil {
					a.opts.Logger.Warn().Err(err).Str("keyword", kw).Int("year", year).Msg("page count parse failed, assuming 1 page")
				} else {
					pages = (count + bmjPageSize - 1) / bmjPageSize
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

func (a *BMJAdapter) fetchPage(ctx context.Context, keyword string, year, page int) types.Search {
	reqURL := a.searchURL(keyword, year, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		a.opts.Logger.Error().Err(err).Str("url", reqURL).Msg("creating request failed")
		return types.Search{Megajournal: a.Name(), Keyword: keyword, Year: year, Page: page, URL: reqURL}
	}
	return fetchSearchPage(ctx, a.opts, req, a.Name(), keyword, year, page)
}

// parseBMJResultCount extracts the document count from the search summary
// tag, e.g. <div class="highwire-search-summary">1234 Results</div>.
func parseBMJResultCount(body string) (int, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parsing search page: %w", err)
	}

	summary := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, "highwire-search-summary")
	})
	if summary == nil {
		return 0, fmt.Errorf("no search summary tag")
	}

	fields := strings.Fields(nodeText(summary))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty search summary")
	}
	count, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return 0, fmt.Errorf("parsing document count %q: %w", fields[0], err)
	}
	return count, nil
}

// ParseResponses extracts DOI, title, and journal from the highwire-cite
// elements of each persisted page.
func (a *BMJAdapter) ParseResponses(searches []types.Search) ([]types.Article, error) {
	var articles []types.Article
	for _, s := range searches {
		if !ok(s) {
			continue
		}
		doc, err := html.Parse(strings.NewReader(s.Body))
		if err != nil {
			a.opts.Logger.Warn().Err(err).Int64("search_id", s.ID).Msg("response parse failed, skipping")
			continue
		}

		for _, cite := range findAll(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && hasClass(n, "highwire-cite")
		}) {
			doi := citeField(cite, "highwire-cite-metadata-doi")
			if doi == "" {
				continue
			}
			articles = append(articles, types.Article{
				DOI:         CanonicalDOI(strings.TrimPrefix(doi, "doi:")),
				Title:       citeField(cite, "highwire-cite-title"),
				Megajournal: a.Name(),
				Journal:     citeField(cite, "highwire-cite-metadata-journal"),
				SearchID:    s.ID,
			})
		}
	}
	return DedupArticles(articles), nil
}

// citeField returns the trimmed text of the first descendant with the class.
func citeField(cite *html.Node, class string) string {
	n := findFirst(cite, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, class)
	})
	if n == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(n))
}

// DownloadFullText rewrites each open-access PDF URL into the BMJ JATS
// download URL (".full.pdf" → ".download.xml").
func (a *BMJAdapter) DownloadFullText(ctx context.Context, reqs []fulltext.Request, archivePath string) []types.FullText {
	return fulltext.FromEndpoints(ctx, a.opts.Client, a.opts.MaxRetries, a.opts.UserAgent, reqs,
		func(r fulltext.Request) string { return fulltext.XMLURLFromPDF(r.OAURL) },
		a.opts.Logger)
}

// --- HTML helpers shared by the scraping adapters ---

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if pred(n) {
		out = append(out, n)
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, pred)...)
	}
	return out
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
