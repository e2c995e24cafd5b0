// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze submits each Markdown document to an LLM with one of the
// seeded system prompts and persists the raw answers, then normalizes them
// into the canonical per-tag JSON shapes.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/ptm-survey/internal/httputil"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// maxCompletionTokens is the output budget per inference call.
const maxCompletionTokens = 16384

// defaultOllamaEndpoint is the local gateway's OpenAI-compatible base URL.
const defaultOllamaEndpoint = "http://localhost:11434/v1"

// Completion is one model answer. Reasoning is empty when the backend does
// not expose a reasoning_content attribute.
type Completion struct {
	Content   string
	Reasoning string
}

// Backend abstracts the inference endpoint so tests can supply a mock.
// Per Strategy pattern, one implementation per backend family.
type Backend interface {
	Complete(ctx context.Context, system, user string) (Completion, error)
}

// OpenAIBackend talks to an OpenAI-compatible chat-completions endpoint
// with deterministic decoding parameters. Both supported backends (the
// remote inference service and the local ollama gateway) speak this
// protocol; only the base URL and authentication differ.
type OpenAIBackend struct {
	Endpoint   string
	APIKey     string
	Model      string
	Client     *http.Client
	MaxRetries int
}

// NewBackend constructs the backend selected by cfg.
func NewBackend(cfg types.AnalyzeConfig, client *http.Client) (Backend, error) {
	endpoint := cfg.Endpoint
	switch cfg.Backend {
	case types.BackendALCF:
		if endpoint == "" {
			return nil, fmt.Errorf("backend %s requires an endpoint", cfg.Backend)
		}
	case types.BackendOllama:
		if endpoint == "" {
			endpoint = defaultOllamaEndpoint
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return &OpenAIBackend{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Client:     client,
		MaxRetries: cfg.MaxRetries,
	}, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	TopP           float64        `json:"top_p"`
	Seed           int            `json:"seed"`
	N              int            `json:"n"`
	Stream         bool           `json:"stream"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message struct {
		Content          string `json:"content"`
		ReasoningContent string `json:"reasoning_content"`
	} `json:"message"`
}

// Complete issues one chat-completions call with the system prompt and the
// document as the user message.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string) (Completion, error) {
	body, err := json.Marshal(chatRequest{
		Model: b.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.1,
		TopP:           0.1,
		Seed:           42,
		N:              1,
		Stream:         false,
		MaxTokens:      maxCompletionTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("encoding inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("creating inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.MaxRetries)
	if err != nil {
		return Completion{}, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Completion{}, fmt.Errorf("inference backend returned HTTP %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Completion{}, fmt.Errorf("parsing inference response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return Completion{}, fmt.Errorf("inference response has no choices")
	}
	return Completion{
		Content:   cr.Choices[0].Message.Content,
		Reasoning: cr.Choices[0].Message.ReasoningContent,
	}, nil
}
