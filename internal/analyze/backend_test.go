// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

func TestNewBackend(t *testing.T) {
	client := &http.Client{}

	_, err := NewBackend(types.AnalyzeConfig{Backend: types.BackendALCF}, client)
	assert.ErrorContains(t, err, "requires an endpoint")

	b, err := NewBackend(types.AnalyzeConfig{
		Backend: types.BackendALCF, Endpoint: "https://inference.example.org/v1/",
	}, client)
	require.NoError(t, err)
	assert.Equal(t, "https://inference.example.org/v1", b.(*OpenAIBackend).Endpoint)

	b, err = NewBackend(types.AnalyzeConfig{Backend: types.BackendOllama}, client)
	require.NoError(t, err)
	assert.Equal(t, defaultOllamaEndpoint, b.(*OpenAIBackend).Endpoint)

	_, err = NewBackend(types.AnalyzeConfig{Backend: "watsonx"}, client)
	assert.ErrorContains(t, err, "unknown backend")
}

func TestCompleteSendsDeterministicParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req["model"])
		assert.Equal(t, 0.1, req["temperature"])
		assert.Equal(t, 0.1, req["top_p"])
		assert.Equal(t, float64(42), req["seed"])
		assert.Equal(t, float64(1), req["n"])
		assert.Equal(t, false, req["stream"])
		assert.Equal(t, float64(maxCompletionTokens), req["max_tokens"])
		assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])

		messages := req["messages"].([]any)
		require.Len(t, messages, 2)
		assert.Equal(t, map[string]any{"role": "system", "content": "prompt text"}, messages[0])
		assert.Equal(t, map[string]any{"role": "user", "content": "document text"}, messages[1])

		fmt.Fprint(w, `{"choices": [{"message": {
			"content": "{\"result\": true}",
			"reasoning_content": "thinking"
		}}]}`)
	}))
	defer srv.Close()

	b := &OpenAIBackend{Endpoint: srv.URL + "/v1", APIKey: "sk-test", Model: "llama3", Client: srv.Client()}
	completion, err := b.Complete(context.Background(), "prompt text", "document text")
	require.NoError(t, err)
	assert.Equal(t, `{"result": true}`, completion.Content)
	assert.Equal(t, "thinking", completion.Reasoning)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "non-200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "denied", http.StatusUnauthorized)
			},
			wantErr: "HTTP 401",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices": []}`)
			},
			wantErr: "no choices",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not json")
			},
			wantErr: "parsing inference response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := &OpenAIBackend{Endpoint: srv.URL, Model: "m", Client: srv.Client()}
			_, err := b.Complete(context.Background(), "s", "u")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
