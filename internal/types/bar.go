package types

import "time"

// Bar is one day's open/high/low/close/volume for a symbol. Bars are
// immutable once fetched; a later fetch for the same (symbol, date) is
// authoritative over an earlier one.
type Bar struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day returns the bar's timestamp truncated to its calendar date in UTC.
// Bars are keyed by calendar date within a symbol.
func (b Bar) Day() time.Time {
	return time.Date(b.Time.Year(), b.Time.Month(), b.Time.Day(), 0, 0, 0, 0, time.UTC)
}
