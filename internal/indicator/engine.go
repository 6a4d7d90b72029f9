// Package indicator derives the persisted technical indicator columns from
// an ordered daily bar series.
//
// The engine is pure: identical input sequences always produce identical
// output, and nothing here touches the store or the network. Rolling-window
// indicators (RSI, SMA, Bollinger, the ADX chain) are undefined during their
// warm-up period and carry None until enough bars have accumulated. The
// exponentially smoothed indicators (MACD and its signal line) are seeded
// from the first element of whatever series is supplied; they are only
// stable across runs when computed over an identical full prefix of history,
// so the engine must always be fed a symbol's complete retained history.
package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/apomeroy/aitrade/internal/types"
	"github.com/apomeroy/aitrade/pkg/errors"
)

// Config carries every indicator period as an explicit field so that none
// of them is a hidden constant.
type Config struct {
	RSIWindow       int
	ShortMAWindow   int
	LongMAWindow    int
	FastSpan        int
	SlowSpan        int
	SignalSpan      int
	BollingerWindow int
	BollingerK      float64
	ADXWindow       int
}

// DefaultConfig returns the production indicator periods. The MACD signal
// span matches the slow span (26) rather than the conventional 9; this is
// intentional and overridable.
func DefaultConfig() Config {
	return Config{
		RSIWindow:       14,
		ShortMAWindow:   50,
		LongMAWindow:    200,
		FastSpan:        12,
		SlowSpan:        26,
		SignalSpan:      26,
		BollingerWindow: 20,
		BollingerK:      2.0,
		ADXWindow:       14,
	}
}

// Engine computes one IndicatorRow per input Bar, index-aligned.
type Engine struct {
	config Config
}

// NewEngine creates an engine after validating every configured period.
func NewEngine(config Config) (*Engine, error) {
	periods := []int{
		config.RSIWindow, config.ShortMAWindow, config.LongMAWindow,
		config.FastSpan, config.SlowSpan, config.SignalSpan,
		config.BollingerWindow, config.ADXWindow,
	}
	for _, p := range periods {
		if p <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "indicator periods must be positive integers, got %d", p)
		}
	}

	if config.BollingerK <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "bollinger k must be positive, got %f", config.BollingerK)
	}

	return &Engine{config: config}, nil
}

// Config returns the engine's indicator periods.
func (e *Engine) Config() Config {
	return e.config
}

// Compute derives one IndicatorRow per bar. Bars must be ascending by
// timestamp and belong to a single symbol; the engine has no side effects
// and is deterministic given an identical input sequence.
//
// Compute must be invoked over the complete retained history of a symbol.
// The MACD chain is recursively smoothed from the start of the supplied
// series, so a truncated prefix yields different values than the full
// history even at overlapping later dates.
func (e *Engine) Compute(bars []types.Bar) []types.IndicatorRow {
	n := len(bars)
	if n == 0 {
		return nil
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)

	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	rsi := RSI(closes, e.config.RSIWindow)
	ma50 := SMA(closes, e.config.ShortMAWindow)
	ma200 := SMA(closes, e.config.LongMAWindow)
	macd := MACD(closes, e.config.FastSpan, e.config.SlowSpan)
	signal := MACDSignal(macd, e.config.SignalSpan)
	bbUpper, bbMiddle, bbLower := BollingerBands(closes, e.config.BollingerWindow, e.config.BollingerK)
	adx := ADX(highs, lows, closes, e.config.ADXWindow)

	rows := make([]types.IndicatorRow, n)
	for i, b := range bars {
		rows[i] = types.IndicatorRow{
			Symbol:     b.Symbol,
			Time:       b.Time,
			Open:       b.Open,
			High:       b.High,
			Low:        b.Low,
			Close:      b.Close,
			Volume:     b.Volume,
			RSI:        rsi[i],
			MA50:       ma50[i],
			MA200:      ma200[i],
			MACD:       optional.Some(macd[i]),
			MACDSignal: optional.Some(signal[i]),
			BBUpper:    bbUpper[i],
			BBMiddle:   bbMiddle[i],
			BBLower:    bbLower[i],
			ADX:        adx[i],
		}
	}

	return rows
}
