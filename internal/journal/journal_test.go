// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

func init() {
	// Retry instantly; the production backoff schedule would dominate the
	// transport-failure tests.
	httputil.RetryBaseDelay = time.Millisecond
}

func testOptions() Options {
	return Options{
		Client:     &http.Client{},
		MaxRetries: 1,
		UserAgent:  "test-agent",
		Logger:     zerolog.Nop(),
	}
}

func TestForJournal(t *testing.T) {
	all := []types.Megajournal{
		types.JournalPLOS, types.JournalBMJ, types.JournalF1000,
		types.JournalFrontiersIn, types.JournalNature,
	}
	for _, j := range all {
		adapter, err := ForJournal(j, testOptions())
		require.NoError(t, err)
		assert.Equal(t, j, adapter.Name())
	}

	_, err := ForJournal(types.Megajournal("elife"), testOptions())
	assert.Error(t, err)
}

func TestCanonicalDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1371/journal.pone.0000001", "10.1371/journal.pone.0000001"},
		{"https://doi.org/10.1371/Journal.PONE.0000001", "10.1371/journal.pone.0000001"},
		{"http://dx.doi.org/10.1136/bmj.n71", "10.1136/bmj.n71"},
		{"doi:10.12688/f1000research.1.1", "10.12688/f1000research.1.1"},
		{"  10.3389/fmicb.2020.00001 \n", "10.3389/fmicb.2020.00001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalDOI(tt.in), "input %q", tt.in)
	}
}

func TestDOIURL(t *testing.T) {
	assert.Equal(t, "https://doi.org/10.1136/bmj.n71", DOIURL("10.1136/bmj.n71"))
}

func TestDedupArticles(t *testing.T) {
	in := []types.Article{
		{DOI: "10.1/a", Title: "first"},
		{DOI: ""},
		{DOI: "10.1/b"},
		{DOI: "10.1/a", Title: "second"},
	}
	out := DedupArticles(in)
	require.Len(t, out, 2)
	assert.Equal(t, "10.1/a", out[0].DOI)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "10.1/b", out[1].DOI)
}

func TestFetchSearchPagePersistsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	row := fetchSearchPage(context.Background(), testOptions(), req, types.JournalPLOS, "deep learning", 2020, 1)
	assert.Equal(t, types.JournalPLOS, row.Megajournal)
	assert.Equal(t, "deep learning", row.Keyword)
	assert.Equal(t, 2020, row.Year)
	assert.Equal(t, 1, row.Page)
	assert.Equal(t, http.StatusNotFound, row.Status)
	assert.Empty(t, row.Body)
	assert.Equal(t, srv.URL, row.URL)
	assert.False(t, row.Timestamp.IsZero())
	assert.False(t, ok(row))
}

func TestFetchSearchPageTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	row := fetchSearchPage(context.Background(), testOptions(), req, types.JournalBMJ, "kw", 2021, 3)
	assert.Equal(t, 0, row.Status)
	assert.Empty(t, row.Body)
}
