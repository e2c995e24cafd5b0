// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex enriches article DOIs with bibliographic metadata and
// selects the natural-science cohort from the enriched records.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/internal/journal"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// worksBase is the OpenAlex Works endpoint. Declared as a var so tests can
// substitute an httptest server.
var worksBase = "https://api.openalex.org/works"

// chunkSize is the number of DOIs pipe-joined into one filter expression.
const chunkSize = 50

// Config holds the enrichment settings.
type Config struct {
	Client     *http.Client
	MaxRetries int
	UserAgent  string

	// Email is sent as the mailto parameter for polite pool access.
	Email string
}

// Enrich queries the metadata service for each chunk of DOIs and returns
// one record per work the service returned. DOIs are converted to URL form
// for the filter and stored back in canonical form. Chunk-level HTTP
// failures are logged and skipped.
func Enrich(ctx context.Context, cfg Config, dois []string, log zerolog.Logger) []types.OpenAlexRecord {
	sorted := make([]string, len(dois))
	copy(sorted, dois)
	sort.Strings(sorted)

	var out []types.OpenAlexRecord
	for start := 0; start < len(sorted); start += chunkSize {
		end := start + chunkSize
		if end > len(sorted) {
			end = len(sorted)
		}
		records, err := enrichChunk(ctx, cfg, sorted[start:end])
		if err != nil {
			log.Warn().Err(err).Int("chunk_start", start).Msg("metadata chunk failed, skipping")
			continue
		}
		out = append(out, records...)
	}
	return out
}

func enrichChunk(ctx context.Context, cfg Config, dois []string) ([]types.OpenAlexRecord, error) {
	urls := make([]string, len(dois))
	for i, doi := range dois {
		urls[i] = journal.DOIURL(doi)
	}

	params := url.Values{
		"per-page": {"100"},
		"filter":   {"doi:" + strings.Join(urls, "|")},
	}
	if cfg.Email != "" {
		params.Set("mailto", cfg.Email)
	}
	reqURL := worksBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, cfg.Client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("metadata request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("metadata service returned HTTP %d", resp.StatusCode)
	}

	// Results are kept as raw messages so the stored blob is exactly what
	// the service returned.
	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("parsing metadata response: %w", err)
	}

	now := time.Now().UTC()
	var out []types.OpenAlexRecord
	for _, raw := range envelope.Results {
		var work openAlexWork
		if err := json.Unmarshal(raw, &work); err != nil {
			return nil, fmt.Errorf("parsing work record: %w", err)
		}
		if work.DOI == "" {
			continue
		}

		rec := types.OpenAlexRecord{
			Timestamp:    now,
			DOI:          journal.CanonicalDOI(work.DOI),
			CitedByCount: work.CitedByCount,
			IsOA:         work.OpenAccess.IsOA,
			OAURL:        work.OpenAccess.OAURL,
			JSONData:     string(raw),
		}

		// Topics fill topic_0..topic_2 in service order; missing positions
		// stay empty and are stored as NULL.
		topics := []*string{&rec.Topic0, &rec.Topic1, &rec.Topic2}
		for i, t := range work.Topics {
			if i >= len(topics) {
				break
			}
			*topics[i] = t.Field.DisplayName
		}

		out = append(out, rec)
	}
	return out, nil
}

// OpenAlex API JSON structures.
type openAlexWork struct {
	DOI          string             `json:"doi"`
	CitedByCount int                `json:"cited_by_count"`
	OpenAccess   openAlexOpenAccess `json:"open_access"`
	Topics       []openAlexTopic    `json:"topics"`
}

type openAlexOpenAccess struct {
	IsOA  bool   `json:"is_oa"`
	OAURL string `json:"oa_url"`
}

type openAlexTopic struct {
	Field openAlexField `json:"field"`
}

type openAlexField struct {
	DisplayName string `json:"display_name"`
}
