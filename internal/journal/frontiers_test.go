// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

const frontiersSearchBody = `{
	"Summary": {"Article": {"Count": 2}},
	"Articles": [
		{"Doi": "10.3389/fmicb.2020.00001", "Title": "Microbes", "Journal": {"Name": "Frontiers in Microbiology"}},
		{"Doi": "", "Title": "No identifier", "Journal": {"Name": "Frontiers in Ecology"}},
		{"Doi": "https://doi.org/10.3389/FNINS.2021.00002", "Title": "Neurons", "Journal": {"Name": "Frontiers in Neuroscience"}}
	]
}`

func TestFrontiersSearchPostsOneQueryPerKeyword(t *testing.T) {
	var bodies []frontiersQuery
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var q frontiersQuery
		require.NoError(t, json.Unmarshal(data, &q))
		bodies = append(bodies, q)
		fmt.Fprint(w, frontiersSearchBody)
	}))
	defer srv.Close()

	old := frontiersSearchBase
	frontiersSearchBase = srv.URL
	defer func() { frontiersSearchBase = old }()

	adapter := &FrontiersAdapter{opts: testOptions()}
	searches := adapter.Search(context.Background(), []string{"deep learning", "transformer"}, []int{2020, 2021})

	// One query per keyword regardless of how many years are configured.
	require.Len(t, searches, 2)
	require.Len(t, bodies, 2)
	assert.Equal(t, frontiersQuery{Query: `"deep learning"`, Top: frontiersTop}, bodies[0])
	assert.Equal(t, frontiersQuery{Query: `"transformer"`, Top: frontiersTop}, bodies[1])

	for _, s := range searches {
		assert.Equal(t, 0, s.Year)
		assert.Equal(t, 1, s.Page)
		assert.Equal(t, http.StatusOK, s.Status)
		assert.NotEmpty(t, s.Body)
	}
}

func TestFrontiersSearchLegacyEndpoint(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, frontiersSearchBody)
	}))
	defer srv.Close()

	old := frontiersLegacySearchBase
	frontiersLegacySearchBase = srv.URL
	defer func() { frontiersLegacySearchBase = old }()

	opts := testOptions()
	opts.LegacyEndpoints = true
	adapter := &FrontiersAdapter{opts: opts}
	adapter.Search(context.Background(), []string{"kw"}, nil)
	assert.Equal(t, 1, hits)
}

func TestFrontiersParseResponses(t *testing.T) {
	adapter := &FrontiersAdapter{opts: testOptions()}
	articles, err := adapter.ParseResponses([]types.Search{
		{ID: 11, Status: http.StatusOK, Body: frontiersSearchBody},
		{ID: 12, Status: http.StatusServiceUnavailable},
	})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "10.3389/fmicb.2020.00001", articles[0].DOI)
	assert.Equal(t, "Microbes", articles[0].Title)
	assert.Equal(t, "Frontiers in Microbiology", articles[0].Journal)
	assert.Equal(t, types.JournalFrontiersIn, articles[0].Megajournal)
	assert.Equal(t, int64(11), articles[0].SearchID)

	assert.Equal(t, "10.3389/fnins.2021.00002", articles[1].DOI)
}
