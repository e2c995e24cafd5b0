// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fulltext obtains structured JATS XML for selected articles,
// either from a megajournal's per-article endpoint or from a bulk archive.
package fulltext

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// Request identifies one article to acquire. OAURL is the open-access PDF
// URL from the article's OpenAlex record; adapters that derive the XML
// endpoint from a fixed template ignore it.
type Request struct {
	DOI   string
	OAURL string
}

// ArchiveEntryName derives the bulk-archive entry for a DOI: the DOI suffix
// with ".xml" appended (10.1371/journal.pone.0000001 → journal.pone.0000001.xml).
func ArchiveEntryName(doi string) string {
	suffix := doi
	if i := strings.LastIndex(doi, "/"); i >= 0 {
		suffix = doi[i+1:]
	}
	return suffix + ".xml"
}

// FromArchive extracts the named entry for each DOI from the zip archive at
// path. Missing entries are logged and skipped.
func FromArchive(path string, dois []string, log zerolog.Logger) ([]types.FullText, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	entries := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		entries[f.Name] = f
	}

	var out []types.FullText
	for _, doi := range dois {
		name := ArchiveEntryName(doi)
		f, found := entries[name]
		if !found {
			log.Warn().Str("doi", doi).Str("entry", name).Msg("entry not in archive, skipping")
			continue
		}

		rc, err := f.Open()
		if err != nil {
			log.Warn().Err(err).Str("doi", doi).Msg("opening archive entry failed, skipping")
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			log.Warn().Err(err).Str("doi", doi).Msg("reading archive entry failed, skipping")
			continue
		}

		out = append(out, types.FullText{
			DOI: doi,
			XML: strings.TrimRight(string(data), "\n"),
		})
	}
	return out, nil
}

// URLRewrite derives an article's XML endpoint from its request.
type URLRewrite func(Request) string

// XMLURLFromPDF rewrites an open-access PDF URL into the corresponding JATS
// URL: ".full.pdf" becomes ".download.xml" and a "/pdf" path segment
// becomes "/xml". Returns "" when the URL matches neither pattern.
func XMLURLFromPDF(oaURL string) string {
	switch {
	case strings.HasSuffix(oaURL, ".full.pdf"):
		return strings.TrimSuffix(oaURL, ".full.pdf") + ".download.xml"
	case strings.Contains(oaURL, "/pdf"):
		return strings.Replace(oaURL, "/pdf", "/xml", 1)
	}
	return ""
}

// FromEndpoints fetches the JATS XML for each request from the URL the
// rewrite derives. Requests without a derivable URL (typically a missing
// open-access URL) and HTTP failures are logged and skipped.
func FromEndpoints(ctx context.Context, client *http.Client, maxRetries int, userAgent string, reqs []Request, rewrite URLRewrite, log zerolog.Logger) []types.FullText {
	var out []types.FullText
	for _, r := range reqs {
		xmlURL := rewrite(r)
		if xmlURL == "" {
			log.Warn().Str("doi", r.DOI).Msg("no XML URL derivable, skipping")
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, xmlURL, nil)
		if err != nil {
			log.Warn().Err(err).Str("doi", r.DOI).Msg("creating request failed, skipping")
			continue
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := httputil.DoWithRetry(ctx, client, req, maxRetries)
		if err != nil {
			log.Warn().Err(err).Str("doi", r.DOI).Str("url", xmlURL).Msg("full-text request failed, skipping")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			log.Warn().Int("status", resp.StatusCode).Str("doi", r.DOI).Str("url", xmlURL).Msg("full-text returned non-200, skipping")
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Warn().Err(err).Str("doi", r.DOI).Msg("reading full-text body failed, skipping")
			continue
		}

		out = append(out, types.FullText{
			DOI: r.DOI,
			XML: strings.TrimRight(string(data), "\n"),
		})
	}
	return out
}
