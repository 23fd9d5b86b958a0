package feed

import (
	"encoding/json"
	"fmt"
	"time"
)

// backfillWindow is how far back the construction-time archive scan looks
// for the last above-freezing sample.
const backfillWindow = 30 * 24 * time.Hour

// hourlyTimeLayout is Open-Meteo's hourly sample time format (UTC, no zone).
const hourlyTimeLayout = "2006-01-02T15:04"

// OpenMeteo tracks when the temperature at a location was last strictly
// above freezing. Unlike the activity trackers, triggering is conditional:
// a poll can succeed without producing a new event time.
type OpenMeteo struct {
	latitude  float64
	longitude float64
	fetcher   Fetcher
}

// NewOpenMeteo creates a freeze tracker for the given coordinates.
func NewOpenMeteo(latitude, longitude float64, fetcher Fetcher) (*OpenMeteo, error) {
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("openmeteo: latitude %v out of range", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("openmeteo: longitude %v out of range", longitude)
	}
	return &OpenMeteo{latitude: latitude, longitude: longitude, fetcher: fetcher}, nil
}

// Backfill scans the last 30 days of hourly archive samples, newest to
// oldest, and returns the time of the most recent sample strictly above
// 0°C. If no sample qualifies (including an archive with no samples at all)
// it returns the start of the window; if the fetch or parse fails it returns
// now, so the timer always gets a valid seed.
func (m *OpenMeteo) Backfill(now time.Time) time.Time {
	start := now.Add(-backfillWindow)
	url := fmt.Sprintf(
		"https://archive-api.open-meteo.com/v1/archive?latitude=%.4f&longitude=%.4f&start_date=%s&end_date=%s&hourly=temperature_2m",
		m.latitude, m.longitude,
		start.UTC().Format("2006-01-02"), now.UTC().Format("2006-01-02"))

	body, err := m.fetcher.Get(url, nil)
	if err != nil {
		return now
	}

	var archive struct {
		Hourly struct {
			Time          []string  `json:"time"`
			Temperature2M []float64 `json:"temperature_2m"`
		} `json:"hourly"`
	}
	if err := json.Unmarshal(body, &archive); err != nil {
		return now
	}

	times := archive.Hourly.Time
	temps := archive.Hourly.Temperature2M
	n := len(times)
	if len(temps) < n {
		n = len(temps)
	}
	for i := n - 1; i >= 0; i-- {
		if temps[i] <= 0 {
			continue
		}
		ts, err := time.ParseInLocation(hourlyTimeLayout, times[i], time.UTC)
		if err != nil {
			continue
		}
		return ts
	}
	return start
}

// Poll fetches the current temperature. Above 0°C the event time is now;
// at or below, the poll still succeeds but nothing triggers, so the elapsed
// time keeps growing.
func (m *OpenMeteo) Poll(now time.Time) (time.Time, bool, error) {
	url := fmt.Sprintf(
		"https://api.open-meteo.com/v1/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m",
		m.latitude, m.longitude)

	body, err := m.fetcher.Get(url, nil)
	if err != nil {
		return time.Time{}, false, err
	}

	var forecast struct {
		Current struct {
			Temperature2M *float64 `json:"temperature_2m"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &forecast); err != nil {
		return time.Time{}, false, fmt.Errorf("openmeteo: parse current: %w", err)
	}
	if forecast.Current.Temperature2M == nil {
		return time.Time{}, false, fmt.Errorf("openmeteo: response missing temperature_2m")
	}

	if *forecast.Current.Temperature2M > 0 {
		return now, true, nil
	}
	return time.Time{}, false, nil
}
