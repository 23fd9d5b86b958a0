package feed

import (
	"fmt"
	"net/http"
)

// FakeFetcher is a test double that serves canned response bodies by URL.
type FakeFetcher struct {
	// Responses maps exact request URLs to response bodies.
	Responses map[string][]byte

	// Err, if set, is returned by every Get.
	Err error

	// Requests records the URLs fetched, in order.
	Requests []string

	// Headers records the headers sent with each request, in order.
	Headers []http.Header
}

// NewFakeFetcher creates a FakeFetcher with the given canned responses.
func NewFakeFetcher(responses map[string][]byte) *FakeFetcher {
	return &FakeFetcher{Responses: responses}
}

// Get returns the canned body for the URL, or an error if none is configured.
func (f *FakeFetcher) Get(url string, header http.Header) ([]byte, error) {
	f.Requests = append(f.Requests, url)
	f.Headers = append(f.Headers, header)
	if f.Err != nil {
		return nil, f.Err
	}
	body, ok := f.Responses[url]
	if !ok {
		return nil, fmt.Errorf("fake: no response for %s", url)
	}
	return body, nil
}
