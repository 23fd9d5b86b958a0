package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MaxGitHubUserLen is GitHub's username length limit. Longer strings are
// rejected at construction rather than truncated into someone else's
// username.
const MaxGitHubUserLen = 39

// GitHub tracks the most recent public activity of one GitHub user.
type GitHub struct {
	user    string
	fetcher Fetcher
}

// NewGitHub creates a GitHub activity tracker for the given username.
func NewGitHub(user string, fetcher Fetcher) (*GitHub, error) {
	if user == "" {
		return nil, fmt.Errorf("github: empty username")
	}
	if len(user) > MaxGitHubUserLen {
		return nil, fmt.Errorf("github: username %q exceeds %d characters", user, MaxGitHubUserLen)
	}
	return &GitHub{user: user, fetcher: fetcher}, nil
}

// Poll fetches the user's recent events and returns the creation time of the
// newest one. The feed's own ordering is not trusted: the maximum timestamp
// across all returned records wins.
func (g *GitHub) Poll(now time.Time) (time.Time, bool, error) {
	url := fmt.Sprintf("https://api.github.com/users/%s/events", g.user)
	header := http.Header{
		"Accept":     []string{"application/vnd.github.v3+json"},
		"User-Agent": []string{"timesince"},
	}

	body, err := g.fetcher.Get(url, header)
	if err != nil {
		return time.Time{}, false, err
	}

	// Decode only the one field we need out of each event record.
	var events []struct {
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(body, &events); err != nil {
		return time.Time{}, false, fmt.Errorf("github: parse events: %w", err)
	}

	latest, err := latestTimestamp(len(events), func(i int) string { return events[i].CreatedAt })
	if err != nil {
		return time.Time{}, false, fmt.Errorf("github: %w", err)
	}
	return latest, true, nil
}

// latestTimestamp parses n RFC3339 timestamps and returns the maximum.
// It fails when the feed is empty or no record carries a parseable time.
func latestTimestamp(n int, at func(i int) string) (time.Time, error) {
	var latest time.Time
	found := false
	for i := 0; i < n; i++ {
		s := at(i)
		if s == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			continue
		}
		if !found || ts.After(latest) {
			latest = ts
			found = true
		}
	}
	if !found {
		return time.Time{}, fmt.Errorf("no usable timestamp in %d records", n)
	}
	return latest, nil
}
