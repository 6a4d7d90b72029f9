// Package marketclock decides which calendar date an incremental fetch may
// extend to, based on the exchange's local close time.
package marketclock

import (
	"time"

	"github.com/apomeroy/aitrade/pkg/errors"
)

// Clock supplies the current wall-clock time. Production code uses
// SystemClock; tests inject a fixed time to pin the cutoff branch.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Time time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// Calendar computes fetch end dates from the exchange's close time plus a
// grace period. It is a plain time-of-day heuristic: weekends and exchange
// holidays are not modeled, so an end date may name a day with no bars
// (the provider then returns an empty range and the symbol is skipped).
type Calendar struct {
	location   *time.Location
	closeHour  int
	closeMin   int
	graceAfter time.Duration
	clock      Clock
}

// NewCalendar creates a calendar for the named timezone (for US equities,
// "America/New_York") with the given close time and post-close grace.
func NewCalendar(timezone string, closeHour, closeMin int, grace time.Duration, clock Clock) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "unknown market timezone %q", timezone)
	}

	return &Calendar{
		location:   loc,
		closeHour:  closeHour,
		closeMin:   closeMin,
		graceAfter: grace,
		clock:      clock,
	}, nil
}

// EndDate returns the most recent calendar date whose daily bar can be
// expected to exist: today if the local time has passed close plus grace,
// otherwise the previous calendar day. The result is a date at midnight UTC.
func (c *Calendar) EndDate() time.Time {
	now := c.clock.Now().In(c.location)

	cutoff := time.Date(now.Year(), now.Month(), now.Day(), c.closeHour, c.closeMin, 0, 0, c.location).
		Add(c.graceAfter)

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(cutoff) {
		day = day.AddDate(0, 0, -1)
	}

	return day
}

// Today returns the current calendar date in the exchange timezone at
// midnight UTC. Full-history runs fetch up to this date regardless of the
// close cutoff.
func (c *Calendar) Today() time.Time {
	now := c.clock.Now().In(c.location)

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
