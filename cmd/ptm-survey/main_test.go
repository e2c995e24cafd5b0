// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPConfigDefaults(t *testing.T) {
	cfg := httpConfig(searchCmd)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, defaultUserAgent, cfg.UserAgent)
}

func TestAnalyzeTimeoutDefaultCoversLongInference(t *testing.T) {
	// Inference calls get an hour per request, not the crawl default.
	cfg := httpConfig(analyzeCmd)
	assert.Equal(t, 3600*time.Second, cfg.Timeout)

	flag := analyzeCmd.Flags().Lookup("timeout")
	assert.Equal(t, defaultAnalyzeTimeout.String(), flag.DefValue)
}
