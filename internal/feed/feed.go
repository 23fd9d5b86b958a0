// Package feed implements the remote poll strategies behind the pollable
// timers: GitHub activity, Bluesky posts, and Open-Meteo temperatures.
// Network access goes through the Fetcher interface so the strategies stay
// testable without a connection.
package feed

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every remote fetch. A poll blocks the control loop,
// so this is the worst-case tick latency.
const DefaultTimeout = 5 * time.Second

// maxBodySize caps response reads. The archive backfill response (30 days of
// hourly samples) is the largest payload we ever pull.
const maxBodySize = 1 << 20

// Fetcher performs one HTTP GET and returns the response body.
// Implementations return an error for connectivity failures and for
// non-success status codes alike; callers treat both as a failed poll.
type Fetcher interface {
	Get(url string, header http.Header) ([]byte, error)
}

// HTTPFetcher fetches over a shared http.Client with a fixed timeout.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests time out after the given
// duration (DefaultTimeout if zero).
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Get issues the request and returns the body for 200 responses.
func (f *HTTPFetcher) Get(url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
