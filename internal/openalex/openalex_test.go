// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(client *http.Client) Config {
	return Config{
		Client:    client,
		UserAgent: "test-agent",
		Email:     "survey@example.org",
	}
}

func TestEnrichBuildsFilterAndParsesWorks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "100", q.Get("per-page"))
		assert.Equal(t, "survey@example.org", q.Get("mailto"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		// DOIs are sorted and sent in URL form.
		assert.Equal(t,
			"doi:https://doi.org/10.1136/bmj.n71|https://doi.org/10.1371/journal.pone.0000001",
			q.Get("filter"))

		fmt.Fprint(w, `{"results": [
			{"doi": "https://doi.org/10.1371/journal.pone.0000001",
			 "cited_by_count": 12,
			 "open_access": {"is_oa": true, "oa_url": "https://x/a.full.pdf"},
			 "topics": [
				{"field": {"display_name": "Chemistry"}},
				{"field": {"display_name": "Neuroscience"}},
				{"field": {"display_name": "Physics and Astronomy"}},
				{"field": {"display_name": "Materials Science"}}
			 ]},
			{"doi": "https://doi.org/10.1136/bmj.n71",
			 "cited_by_count": 0,
			 "open_access": {"is_oa": false},
			 "topics": [{"field": {"display_name": "Medicine"}}]},
			{"doi": "", "cited_by_count": 3}
		]}`)
	}))
	defer srv.Close()

	old := worksBase
	worksBase = srv.URL
	defer func() { worksBase = old }()

	records := Enrich(context.Background(), testConfig(srv.Client()),
		[]string{"10.1371/journal.pone.0000001", "10.1136/bmj.n71"}, zerolog.Nop())
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "10.1371/journal.pone.0000001", first.DOI)
	assert.Equal(t, 12, first.CitedByCount)
	assert.True(t, first.IsOA)
	assert.Equal(t, "https://x/a.full.pdf", first.OAURL)
	assert.Equal(t, "Chemistry", first.Topic0)
	assert.Equal(t, "Neuroscience", first.Topic1)
	assert.Equal(t, "Physics and Astronomy", first.Topic2) // fourth topic dropped
	assert.True(t, json.Valid([]byte(first.JSONData)))
	assert.False(t, first.Timestamp.IsZero())

	second := records[1]
	assert.Equal(t, "10.1136/bmj.n71", second.DOI)
	assert.Equal(t, "Medicine", second.Topic0)
	assert.Equal(t, "", second.Topic1)
}

func TestEnrichChunksLargeBatches(t *testing.T) {
	var filters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters = append(filters, r.URL.Query().Get("filter"))
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	old := worksBase
	worksBase = srv.URL
	defer func() { worksBase = old }()

	dois := make([]string, 120)
	for i := range dois {
		dois[i] = fmt.Sprintf("10.1371/journal.pone.%07d", i)
	}

	records := Enrich(context.Background(), testConfig(srv.Client()), dois, zerolog.Nop())
	assert.Empty(t, records)
	require.Len(t, filters, 3)

	// 120 DOIs split into chunks of 50, 50, and 20.
	assert.Equal(t, 50, strings.Count(filters[0], "https://doi.org/"))
	assert.Equal(t, 50, strings.Count(filters[1], "https://doi.org/"))
	assert.Equal(t, 20, strings.Count(filters[2], "https://doi.org/"))
}

func TestEnrichSkipsFailedChunks(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"results": [{"doi": "https://doi.org/10.2/b", "cited_by_count": 1}]}`)
	}))
	defer srv.Close()

	old := worksBase
	worksBase = srv.URL
	defer func() { worksBase = old }()

	dois := make([]string, chunkSize+1)
	for i := range dois {
		dois[i] = fmt.Sprintf("10.1/%07d", i)
	}
	dois[chunkSize] = "10.2/b" // sorts last, lands in the second chunk

	records := Enrich(context.Background(), testConfig(srv.Client()), dois, zerolog.Nop())
	require.Len(t, records, 1)
	assert.Equal(t, "10.2/b", records[0].DOI)
}
