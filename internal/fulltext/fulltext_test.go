// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fulltext

import (
	"archive/zip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveEntryName(t *testing.T) {
	assert.Equal(t, "journal.pone.0000001.xml", ArchiveEntryName("10.1371/journal.pone.0000001"))
	assert.Equal(t, "bare.xml", ArchiveEntryName("bare"))
}

func TestXMLURLFromPDF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.bmj.com/content/371/bmj.n71.full.pdf", "https://www.bmj.com/content/371/bmj.n71.download.xml"},
		{"https://www.frontiersin.org/articles/10.3389/fmicb.2020.00001/pdf", "https://www.frontiersin.org/articles/10.3389/fmicb.2020.00001/xml"},
		{"https://example.org/article.pdf", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, XMLURLFromPDF(tt.in), "input %q", tt.in)
	}
}

func writeTestArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, body := range entries {
		e, err := w.Create(name)
		require.NoError(t, err)
		_, err = e.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestFromArchive(t *testing.T) {
	path := writeTestArchive(t, map[string]string{
		"journal.pone.0000001.xml": "<article>one</article>\n",
		"journal.pbio.3000001.xml": "<article>two</article>",
	})

	out, err := FromArchive(path, []string{
		"10.1371/journal.pone.0000001",
		"10.1371/journal.pmed.9999999", // not in the archive, skipped
		"10.1371/journal.pbio.3000001",
	}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "10.1371/journal.pone.0000001", out[0].DOI)
	assert.Equal(t, "<article>one</article>", out[0].XML)
	assert.Equal(t, "<article>two</article>", out[1].XML)
}

func TestFromArchiveBadPath(t *testing.T) {
	_, err := FromArchive(filepath.Join(t.TempDir(), "missing.zip"), []string{"10.1/a"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestFromEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.xml":
			fmt.Fprint(w, "<article/>\n\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	reqs := []Request{
		{DOI: "10.1/good", OAURL: srv.URL + "/good.xml"},
		{DOI: "10.1/missing", OAURL: srv.URL + "/missing.xml"}, // 404, skipped
		{DOI: "10.1/nourl", OAURL: ""},                         // no derivable URL, skipped
	}
	rewrite := func(r Request) string { return r.OAURL }

	out := FromEndpoints(context.Background(), srv.Client(), 0, "test-agent", reqs, rewrite, zerolog.Nop())
	require.Len(t, out, 1)
	assert.Equal(t, "10.1/good", out[0].DOI)
	assert.Equal(t, "<article/>", out[0].XML)
}
