// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal queries megajournal search APIs and extracts article
// records. Each megajournal implements the Adapter interface per the
// Strategy pattern; transport, pagination discovery, and result shape are
// deliberately not unified because the variance is irreducible.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/fulltext"
	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// ErrSearchOnly is returned by ParseResponses and DownloadFullText on
// adapters that only implement the search capability.
var ErrSearchOnly = errors.New("adapter is search-only")

// SkipFunc reports whether a (keyword, year, page) triple is already
// persisted and should not be fetched again. Adapters consult it for pages
// past the first; the first page is always fetched because it carries the
// page count.
type SkipFunc func(keyword string, year, page int) bool

// Adapter searches a single megajournal and parses its responses.
type Adapter interface {
	Name() types.Megajournal

	// Search iterates the Cartesian product of keywords and years, issuing
	// the first page, deriving the page count from the response, and
	// paginating. Per-page HTTP failures are recorded with their status and
	// an empty body; transport failures are logged and skipped. Search
	// returns whatever it successfully fetched.
	Search(ctx context.Context, keywords []string, years []int) []types.Search

	// ParseResponses extracts article records from persisted search rows.
	// Returned DOIs are canonical and deduplicated keeping the first
	// occurrence. SearchID on each article is the _id of the originating
	// search row.
	ParseResponses(searches []types.Search) ([]types.Article, error)

	// DownloadFullText obtains JATS XML for each request, either from the
	// megajournal's per-article endpoint or from the bulk archive at
	// archivePath. Failures are logged and skipped.
	DownloadFullText(ctx context.Context, reqs []fulltext.Request, archivePath string) []types.FullText
}

// Options configures adapter construction.
type Options struct {
	Client     *http.Client
	MaxRetries int
	UserAgent  string
	Logger     zerolog.Logger

	// LegacyEndpoints selects the older search URL templates on the
	// adapters that carry two (BMJ, FrontiersIn).
	LegacyEndpoints bool

	// Skip marks already-persisted pages; nil fetches everything.
	Skip SkipFunc
}

// ForJournal returns the adapter for a megajournal name.
func ForJournal(j types.Megajournal, opts Options) (Adapter, error) {
	switch j {
	case types.JournalPLOS:
		return &PLOSAdapter{opts: opts}, nil
	case types.JournalBMJ:
		return &BMJAdapter{opts: opts}, nil
	case types.JournalF1000:
		return &F1000Adapter{opts: opts}, nil
	case types.JournalFrontiersIn:
		return &FrontiersAdapter{opts: opts}, nil
	case types.JournalNature:
		return &NatureAdapter{opts: opts}, nil
	}
	return nil, fmt.Errorf("unknown megajournal %q", j)
}

// CanonicalDOI strips URL schemes and the doi: prefix and lowercases the
// identifier. All stored DOIs and all comparisons use this form; the URL
// form is reconstructed only at enrichment time.
func CanonicalDOI(s string) string {
	doi := strings.TrimSpace(s)
	for _, prefix := range []string{
		"https://doi.org/", "http://doi.org/",
		"https://dx.doi.org/", "http://dx.doi.org/",
		"doi:",
	} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(doi)
}

// DOIURL returns the https URL form of a canonical DOI.
func DOIURL(doi string) string {
	return "https://doi.org/" + doi
}

// DedupArticles collapses duplicate DOIs keeping the first occurrence.
func DedupArticles(articles []types.Article) []types.Article {
	seen := make(map[string]bool, len(articles))
	var out []types.Article
	for _, a := range articles {
		if a.DOI == "" || seen[a.DOI] {
			continue
		}
		seen[a.DOI] = true
		out = append(out, a)
	}
	return out
}

// fetchSearchPage issues one search request and returns the persisted form.
// A non-2xx response is recorded with its status and an empty body; a
// transport failure after the retry budget is recorded with status 0.
func fetchSearchPage(ctx context.Context, opts Options, req *http.Request, journal types.Megajournal, keyword string, year, page int) types.Search {
	row := types.Search{
		Timestamp:   time.Now().UTC(),
		Megajournal: journal,
		Keyword:     keyword,
		Year:        year,
		Page:        page,
		URL:         req.URL.String(),
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, opts.Client, req, opts.MaxRetries)
	if err != nil {
		opts.Logger.Warn().Err(err).Str("url", row.URL).Msg("search request failed")
		return row
	}
	defer resp.Body.Close()

	row.Status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		opts.Logger.Warn().Int("status", resp.StatusCode).Str("url", row.URL).Msg("search returned non-2xx")
		return row
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		opts.Logger.Warn().Err(err).Str("url", row.URL).Msg("reading search body failed")
		return row
	}
	row.Body = string(body)
	return row
}

// ok reports whether a persisted search row carries a parseable 2xx body.
func ok(s types.Search) bool {
	return s.Status >= 200 && s.Status <= 299 && s.Body != ""
}
