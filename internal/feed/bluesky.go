package feed

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// MaxBlueskyHandleLen is the longest handle the AT protocol allows (a DNS
// name). Enforced at construction for the same reason as the GitHub limit.
const MaxBlueskyHandleLen = 253

// Bluesky tracks the most recent post of one Bluesky account.
type Bluesky struct {
	handle  string
	fetcher Fetcher
}

// NewBluesky creates a Bluesky post tracker for the given handle.
func NewBluesky(handle string, fetcher Fetcher) (*Bluesky, error) {
	if handle == "" {
		return nil, fmt.Errorf("bluesky: empty handle")
	}
	if len(handle) > MaxBlueskyHandleLen {
		return nil, fmt.Errorf("bluesky: handle %q exceeds %d characters", handle, MaxBlueskyHandleLen)
	}
	return &Bluesky{handle: handle, fetcher: fetcher}, nil
}

// Poll fetches the account's recent posts and returns the creation time of
// the newest one, taking the maximum across records rather than trusting
// feed order.
func (b *Bluesky) Poll(now time.Time) (time.Time, bool, error) {
	u := fmt.Sprintf(
		"https://bsky.social/xrpc/com.atproto.repo.listRecords?repo=%s&collection=app.bsky.feed.post",
		url.QueryEscape(b.handle))

	body, err := b.fetcher.Get(u, nil)
	if err != nil {
		return time.Time{}, false, err
	}

	var feed struct {
		Records []struct {
			Value struct {
				CreatedAt string `json:"createdAt"`
			} `json:"value"`
		} `json:"records"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return time.Time{}, false, fmt.Errorf("bluesky: parse records: %w", err)
	}

	latest, err := latestTimestamp(len(feed.Records), func(i int) string {
		return feed.Records[i].Value.CreatedAt
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("bluesky: %w", err)
	}
	return latest, true, nil
}
