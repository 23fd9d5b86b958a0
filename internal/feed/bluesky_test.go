package feed

import (
	"strings"
	"testing"
	"time"
)

const blueskyURL = "https://bsky.social/xrpc/com.atproto.repo.listRecords?repo=evjrob.bsky.social&collection=app.bsky.feed.post"

func TestNewBlueskyValidatesHandle(t *testing.T) {
	f := NewFakeFetcher(nil)

	if _, err := NewBluesky("evjrob.bsky.social", f); err != nil {
		t.Errorf("valid handle rejected: %v", err)
	}
	if _, err := NewBluesky("", f); err == nil {
		t.Error("empty handle accepted")
	}
	if _, err := NewBluesky(strings.Repeat("a", 254), f); err == nil {
		t.Error("254-char handle accepted")
	}
}

func TestBlueskyPollPicksNewestRecord(t *testing.T) {
	body := `{
		"records": [
			{"uri": "at://x/1", "value": {"createdAt": "2026-01-01T11:55:00Z"}},
			{"uri": "at://x/2", "value": {"createdAt": "2026-01-01T11:59:50Z"}},
			{"uri": "at://x/3", "value": {"createdAt": "2026-01-01T11:58:20Z"}}
		]
	}`
	f := NewFakeFetcher(map[string][]byte{blueskyURL: []byte(body)})
	b, err := NewBluesky("evjrob.bsky.social", f)
	if err != nil {
		t.Fatalf("NewBluesky: %v", err)
	}

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	event, triggered, err := b.Poll(now)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !triggered {
		t.Error("Poll should trigger on a non-empty feed")
	}
	want := time.Date(2026, 1, 1, 11, 59, 50, 0, time.UTC)
	if !event.Equal(want) {
		t.Errorf("event time: got %v, want %v", event, want)
	}
}

func TestBlueskyPollFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty records", `{"records": []}`},
		{"missing createdAt", `{"records": [{"value": {}}]}`},
		{"malformed payload", `<html>503</html>`},
	}

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFakeFetcher(map[string][]byte{blueskyURL: []byte(tt.body)})
			b, _ := NewBluesky("evjrob.bsky.social", f)
			if _, _, err := b.Poll(now); err == nil {
				t.Error("expected poll failure")
			}
		})
	}
}
