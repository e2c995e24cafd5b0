// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/internal/mdwrap"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// DefaultConverterURI is the local pandoc service address.
const DefaultConverterURI = "http://localhost:3030"

// PandocClient talks to the out-of-process conversion service: one POST
// per document with a {from, to, text} body, Markdown text back.
type PandocClient struct {
	URI        string
	Client     *http.Client
	MaxRetries int
	UserAgent  string
}

type pandocRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// Convert posts xmlText as JATS and returns the service's Markdown.
func (c *PandocClient) Convert(ctx context.Context, xmlText string) (string, error) {
	body, err := json.Marshal(pandocRequest{From: "jats", To: "markdown", Text: xmlText})
	if err != nil {
		return "", fmt.Errorf("encoding conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URI, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("conversion request: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading conversion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("conversion service returned HTTP %d", resp.StatusCode)
	}
	return string(text), nil
}

// ToMarkdown prunes each stored JATS document, converts it, and re-wraps
// the Markdown for canonical line breaks. A prune or conversion failure
// skips the document with a warning; the pipeline moves on.
func ToMarkdown(ctx context.Context, c *PandocClient, docs []types.FullText, log zerolog.Logger) []types.MarkdownDoc {
	var out []types.MarkdownDoc
	for _, doc := range docs {
		pruned, err := PruneJATS(doc.XML)
		if err != nil {
			log.Warn().Err(err).Str("doi", doc.DOI).Msg("prune failed, skipping")
			continue
		}
		md, err := c.Convert(ctx, pruned)
		if err != nil {
			log.Warn().Err(err).Str("doi", doc.DOI).Msg("conversion failed, skipping")
			continue
		}
		out = append(out, types.MarkdownDoc{DOI: doc.DOI, Markdown: mdwrap.Rewrap(md)})
		log.Info().Str("doi", doc.DOI).Msg("converted")
	}
	return out
}
