// Package campaign holds the fixed fundraising parameters and the
// week arithmetic derived from them.
package campaign

import (
	"time"
)

// Week is the length of one campaign week. Days are counted as 24 hours,
// independent of DST transitions.
const Week = 7 * 24 * time.Hour

// Campaign is the immutable description of one fundraising drive.
// It is built once at startup and passed by value.
type Campaign struct {
	Name     string
	Target   float64
	Start    time.Time
	FeedURL  string
	Currency string // ISO 4217 code, e.g. "NGN"
	Locale   string // BCP 47 tag used for number formatting, e.g. "en-NG"
}

// CurrentWeek returns the 1-based week index of now relative to the start.
// Instants before the start yield 0 or negative values; no clamping is done.
func (c Campaign) CurrentWeek(now time.Time) int {
	return CurrentWeek(c.Start, now)
}

// CurrentWeek computes floor((now - start) / 7 days) + 1.
func CurrentWeek(start, now time.Time) int {
	d := now.Sub(start)
	weeks := d / Week
	if d < 0 && d%Week != 0 {
		weeks-- // floor, not truncation
	}
	return int(weeks) + 1
}

// WeekStart returns the instant week n begins.
func (c Campaign) WeekStart(n int) time.Time {
	return c.Start.Add(time.Duration(n-1) * Week)
}
