// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

func TestPLOSSearchPaginates(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, `everything:"deep learning"`, q.Get("q"))
		assert.Equal(t, "publication_date:[2020-01-01T00:00:00Z TO 2020-12-31T23:59:59Z]", q.Get("fq"))
		assert.Equal(t, "100", q.Get("rows"))
		starts = append(starts, q.Get("start"))
		fmt.Fprint(w, `{"searchResults": {"numFound": 250, "docs": []}}`)
	}))
	defer srv.Close()

	old := plosSearchBase
	plosSearchBase = srv.URL
	defer func() { plosSearchBase = old }()

	adapter := &PLOSAdapter{opts: testOptions()}
	searches := adapter.Search(context.Background(), []string{"deep learning"}, []int{2020})

	// 250 results at 100 per page is three pages.
	require.Len(t, searches, 3)
	assert.Equal(t, []string{"0", "100", "200"}, starts)
	for i, s := range searches {
		assert.Equal(t, i+1, s.Page)
		assert.Equal(t, http.StatusOK, s.Status)
	}
}

func TestPLOSSearchSkipsPersistedPages(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("start"))
		fmt.Fprint(w, `{"searchResults": {"numFound": 250, "docs": []}}`)
	}))
	defer srv.Close()

	old := plosSearchBase
	plosSearchBase = srv.URL
	defer func() { plosSearchBase = old }()

	opts := testOptions()
	opts.Skip = func(keyword string, year, page int) bool { return page == 2 }

	adapter := &PLOSAdapter{opts: opts}
	searches := adapter.Search(context.Background(), []string{"kw"}, []int{2020})

	// Page 1 is always fetched; page 2 is skipped; page 3 is fetched.
	require.Len(t, searches, 2)
	assert.Equal(t, []string{"0", "200"}, starts)
}

func TestPLOSParseResponses(t *testing.T) {
	body := `{"searchResults": {"numFound": 2, "docs": [
		{"id": "10.1371/journal.pone.0000001", "title_display": "First", "journal": "PLOS ONE"},
		{"id": "https://doi.org/10.1371/Journal.PBIO.3000001", "title_display": "Second", "journal": "PLOS Biology"},
		{"id": "10.1371/journal.pone.0000001", "title_display": "Duplicate", "journal": "PLOS ONE"}
	]}}`

	adapter := &PLOSAdapter{opts: testOptions()}
	articles, err := adapter.ParseResponses([]types.Search{
		{ID: 42, Status: http.StatusOK, Body: body},
		{ID: 43, Status: http.StatusForbidden, Body: "ignored"},
	})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "10.1371/journal.pone.0000001", articles[0].DOI)
	assert.Equal(t, "First", articles[0].Title)
	assert.Equal(t, types.JournalPLOS, articles[0].Megajournal)
	assert.Equal(t, "PLOS ONE", articles[0].Journal)
	assert.Equal(t, int64(42), articles[0].SearchID)

	assert.Equal(t, "10.1371/journal.pbio.3000001", articles[1].DOI)
	assert.Equal(t, "PLOS Biology", articles[1].Journal)
}

func TestPLOSDownloadFullTextRequiresArchive(t *testing.T) {
	adapter := &PLOSAdapter{opts: testOptions()}
	out := adapter.DownloadFullText(context.Background(), nil, "")
	assert.Nil(t, out)
}
