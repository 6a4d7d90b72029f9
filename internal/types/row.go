package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// IndicatorRow is one persisted row per (symbol, timestamp): the raw OHLCV
// bar plus every computed indicator column. The raw fields are retained so
// that history can be re-expanded into Bars for recomputation.
//
// Indicator values are optional: a None value means the row falls inside the
// indicator's warm-up period and no value is defined. None is distinct from
// a computed value of exactly zero; the two are only collapsed at the
// store-write boundary, where None is coerced to 0.0 to satisfy the
// non-nullable persisted schema.
type IndicatorRow struct {
	Symbol string
	Time   time.Time

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	RSI        optional.Option[float64]
	MA50       optional.Option[float64]
	MA200      optional.Option[float64]
	MACD       optional.Option[float64]
	MACDSignal optional.Option[float64]
	BBUpper    optional.Option[float64]
	BBMiddle   optional.Option[float64]
	BBLower    optional.Option[float64]
	ADX        optional.Option[float64]
}

// Bar re-expands the retained raw columns into a Bar so that persisted
// history can be concatenated with freshly fetched bars and recomputed.
func (r IndicatorRow) Bar() Bar {
	return Bar{
		Symbol: r.Symbol,
		Time:   r.Time,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}
