package emergent

import (
	"fmt"
	"strings"
	"time"
)

// Granularity maps an event time to the start of its bucket.
// Buckets are computed in UTC, so they are ordered and never overlap.
//
// Every bucket is labelled by its first instant. Calendar-period groupers
// that label by the period end ("W" by the closing Sunday, "M" by the last
// day of the month) cut the same buckets under a different key.
type Granularity struct {
	name  string
	trunc func(time.Time) time.Time
}

// Exact puts every distinct timestamp in its own bucket.
func Exact() Granularity {
	return Granularity{name: "exact", trunc: func(t time.Time) time.Time { return t.UTC() }}
}

// Hourly buckets by clock hour.
func Hourly() Granularity { return Every(time.Hour) }

// Daily buckets by calendar day.
func Daily() Granularity {
	return Granularity{name: "D", trunc: func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}}
}

// Weekly buckets by ISO week, Monday through Sunday. The bucket is labelled
// by its Monday, not by the closing Sunday.
func Weekly() Granularity {
	return Granularity{name: "W", trunc: func(t time.Time) time.Time {
		t = t.UTC()
		back := (int(t.Weekday()) + 6) % 7 // days since Monday
		d := t.AddDate(0, 0, -back)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}}
}

// Monthly buckets by calendar month, labelled by the first day of the month
// rather than the last.
func Monthly() Granularity {
	return Granularity{name: "M", trunc: func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}}
}

// Yearly buckets by calendar year.
func Yearly() Granularity {
	return Granularity{name: "Y", trunc: func(t time.Time) time.Time {
		return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}}
}

// Every buckets into fixed windows of length d counted from the zero time.
// A non-positive d behaves like Exact.
func Every(d time.Duration) Granularity {
	if d <= 0 {
		return Exact()
	}

	return Granularity{name: d.String(), trunc: func(t time.Time) time.Time {
		return t.UTC().Truncate(d)
	}}
}

// ParseGranularity accepts "" (exact), "H", "D", "W", "M", "Y" (case-insensitive,
// with long forms such as "daily") or any positive time.ParseDuration string.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "none":
		return Exact(), nil
	case "h", "hour", "hourly":
		return Hourly(), nil
	case "d", "day", "daily":
		return Daily(), nil
	case "w", "week", "weekly":
		return Weekly(), nil
	case "m", "ms", "month", "monthly":
		return Monthly(), nil
	case "y", "a", "year", "yearly":
		return Yearly(), nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return Exact(), fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}

	return Every(d), nil
}

// Bucket returns the start of the bucket holding t.
func (g Granularity) Bucket(t time.Time) time.Time {
	if g.trunc == nil {
		return t.UTC()
	}

	return g.trunc(t)
}

// String returns the configuration name of g.
func (g Granularity) String() string {
	if g.name == "" {
		return "exact"
	}

	return g.name
}
