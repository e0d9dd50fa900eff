// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil holds the HTTP retry helper used by the harvesters.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff delay. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

// MaxRetryDelay caps a single wait, including one requested by Retry-After.
var MaxRetryDelay = 2 * time.Minute

const defaultMaxRetries = 4

// Retryable reports whether a status code is worth retrying: 429 and the
// transient 5xx codes a rate-limited API returns under load.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry sends req and retries retryable responses with exponential
// backoff starting at RetryBaseDelay. A Retry-After header given in seconds
// overrides the computed delay. maxRetries <= 0 uses the default of 4.
//
// The body of a retried response is drained and closed. After the last
// retry the final response is returned unread so the caller can report its
// status. Transport errors are returned at once.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	delay := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := delay
		if ra, ok := retryAfter(resp); ok {
			wait = ra
		}
		if wait > MaxRetryDelay {
			wait = MaxRetryDelay
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		slog.Debug("http: retrying request",
			"url", req.URL.Redacted(), "status", resp.StatusCode,
			"attempt", attempt+1, "max_retries", maxRetries, "wait", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// retryAfter parses a Retry-After header holding a number of seconds.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
