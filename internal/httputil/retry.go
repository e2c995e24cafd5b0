// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the shared retrying HTTP session used by every
// networked stage.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var RetryBaseDelay = time.Second

const defaultMaxRetries = 10

// retryStatuses is the HTTP status set retried with backoff. Everything
// else is returned to the caller as-is.
var retryStatuses = map[int]bool{
	http.StatusForbidden:           true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// allowedMethods is the method set eligible for retry. Requests with other
// methods are issued exactly once.
var allowedMethods = map[string]bool{
	http.MethodHead:    true,
	http.MethodGet:     true,
	http.MethodOptions: true,
	http.MethodPost:    true,
}

// NewClient returns an http.Client with the given per-request timeout.
// Stages share one client per run; the zero timeout means no limit.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// DoWithRetry executes req and retries on the retryable status set with
// exponential backoff: RetryBaseDelay, doubling each attempt. Transport
// errors are retried on the same schedule. When maxRetries is 0 the default
// (10) is used. On each retry the response body is drained and closed before
// sleeping. If the context is cancelled during a backoff wait the function
// returns ctx.Err(). After exhausting the budget the last response (or last
// transport error) is returned so the caller can record it and skip the item.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !retryStatuses[resp.StatusCode] {
			return resp, nil
		}
		if !allowedMethods[req.Method] {
			return resp, err
		}

		if attempt >= maxRetries {
			return resp, err
		}

		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
