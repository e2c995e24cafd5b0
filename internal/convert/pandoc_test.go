// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

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

	"github.com/pdiddy/ptm-survey/pkg/types"
)

func TestPandocConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req pandocRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jats", req.From)
		assert.Equal(t, "markdown", req.To)
		assert.Equal(t, "<article/>", req.Text)

		fmt.Fprint(w, "# Title\n\nbody\n")
	}))
	defer srv.Close()

	c := &PandocClient{URI: srv.URL, Client: srv.Client(), UserAgent: "test-agent"}
	md, err := c.Convert(context.Background(), "<article/>")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody\n", md)
}

func TestPandocConvertNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cannot convert", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := &PandocClient{URI: srv.URL, Client: srv.Client()}
	_, err := c.Convert(context.Background(), "<article/>")
	assert.ErrorContains(t, err, "HTTP 422")
}

func TestToMarkdownSkipsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req pandocRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if len(req.Text) > 200 {
			http.Error(w, "too large", http.StatusRequestEntityTooLarge)
			return
		}
		// Broken lines that Rewrap should join.
		fmt.Fprint(w, "converted\ntext\n")
	}))
	defer srv.Close()

	c := &PandocClient{URI: srv.URL, Client: srv.Client()}
	docs := []types.FullText{
		{DOI: "10.1/good", XML: "<article><body><p>short</p></body></article>"},
		{DOI: "10.1/badxml", XML: "<article><unclosed"},
		{DOI: "10.1/rejected", XML: "<article><body><p>" + strings.Repeat("long text ", 40) + "</p></body></article>"},
	}

	out := ToMarkdown(context.Background(), c, docs, zerolog.Nop())
	require.Len(t, out, 1)
	assert.Equal(t, "10.1/good", out[0].DOI)
	assert.Equal(t, "converted text\n", out[0].Markdown)
}
