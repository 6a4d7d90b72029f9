// Package screener selects trade candidates from persisted indicator rows.
// It is a stateless predicate layer: all indicator math happened upstream,
// and the screener only filters, groups, and shapes the output payload.
package screener

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/apomeroy/aitrade/internal/logger"
	"github.com/apomeroy/aitrade/internal/marketclock"
	"github.com/apomeroy/aitrade/internal/types"
)

// Thresholds are the screening parameters. Every condition is ANDed.
type Thresholds struct {
	MinClose   float64
	MaxClose   float64
	RSILimit   float64
	MaxMADelta float64
	ADXMin     float64
	ADXMax     float64
	// LookbackDays scopes the match query to the most recent N calendar days.
	LookbackDays int
	// HistoryDays is how many recent rows each matched symbol contributes
	// to the output payload as context.
	HistoryDays int
}

// DefaultThresholds returns the production screening parameters.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinClose:     2,
		MaxClose:     22,
		RSILimit:     30,
		MaxMADelta:   0.3,
		ADXMin:       20,
		ADXMax:       40,
		LookbackDays: 5,
		HistoryDays:  14,
	}
}

// Matches reports whether a persisted row satisfies every screening
// condition. Persisted indicator columns are never null (warm-up rows are
// stored as 0.0), so missing values are read as zero here as well; a
// warm-up row cannot match because ma50 > ma200 fails at 0 > 0.
func Matches(row types.IndicatorRow, t Thresholds) bool {
	rsi := row.RSI.TakeOr(0)
	ma50 := row.MA50.TakeOr(0)
	ma200 := row.MA200.TakeOr(0)
	macd := row.MACD.TakeOr(0)
	signal := row.MACDSignal.TakeOr(0)
	bbMiddle := row.BBMiddle.TakeOr(0)
	adx := row.ADX.TakeOr(0)

	return row.Close >= t.MinClose &&
		row.Close <= t.MaxClose &&
		rsi <= t.RSILimit &&
		ma50 > ma200 &&
		ma50-ma200 <= t.MaxMADelta &&
		macd > signal &&
		row.Close < bbMiddle &&
		adx >= t.ADXMin &&
		adx <= t.ADXMax
}

// RowQuerier is the read-only store surface the screener needs.
type RowQuerier interface {
	Symbols() ([]string, error)
	RowsSince(symbols []string, since time.Time) ([]types.IndicatorRow, error)
	RecentRows(symbol string, n int) ([]types.IndicatorRow, error)
}

// Row is one output row in the candidates payload.
type Row struct {
	Date       string  `json:"date"`
	Close      float64 `json:"close"`
	RSI        float64 `json:"rsi"`
	MA50       float64 `json:"ma50"`
	MA200      float64 `json:"ma200"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	ADX        float64 `json:"adx"`
}

// Payload is the screener's output document: matched symbols mapped to
// their recent row history, ascending by date.
type Payload struct {
	Candidates map[string][]Row `json:"candidates"`
}

// Screener evaluates thresholds over persisted rows.
type Screener struct {
	store  RowQuerier
	clock  marketclock.Clock
	logger *logger.Logger
}

// New creates a screener over the given store.
func New(store RowQuerier, clock marketclock.Clock, log *logger.Logger) *Screener {
	return &Screener{store: store, clock: clock, logger: log}
}

// Run screens the given symbols (all stored symbols when empty) against
// the thresholds and returns the candidates payload. For each symbol with
// at least one matching row inside the lookback window, the payload
// carries that symbol's most recent HistoryDays rows as context.
func (s *Screener) Run(symbols []string, t Thresholds) (Payload, error) {
	payload := Payload{Candidates: make(map[string][]Row)}

	if len(symbols) == 0 {
		stored, err := s.store.Symbols()
		if err != nil {
			return payload, err
		}

		symbols = stored
	}

	if len(symbols) == 0 {
		return payload, nil
	}

	now := s.clock.Now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -t.LookbackDays)

	rows, err := s.store.RowsSince(symbols, since)
	if err != nil {
		return payload, err
	}

	matched := make(map[string]bool)

	for _, row := range rows {
		if Matches(row, t) {
			matched[row.Symbol] = true
		}
	}

	names := make([]string, 0, len(matched))
	for symbol := range matched {
		names = append(names, symbol)
	}

	sort.Strings(names)

	for _, symbol := range names {
		recent, err := s.store.RecentRows(symbol, t.HistoryDays)
		if err != nil {
			s.logger.Warn("failed to load candidate history", zap.String("symbol", symbol), zap.Error(err))

			continue
		}

		payload.Candidates[symbol] = toRows(recent)
	}

	s.logger.Info("screen complete",
		zap.Int("symbols", len(symbols)),
		zap.Int("candidates", len(payload.Candidates)))

	return payload, nil
}

// toRows shapes store rows into payload rows ascending by date.
func toRows(rows []types.IndicatorRow) []Row {
	sorted := make([]types.IndicatorRow, len(rows))
	copy(sorted, rows)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := make([]Row, 0, len(sorted))

	for _, r := range sorted {
		out = append(out, Row{
			Date:       r.Time.UTC().Format("2006-01-02"),
			Close:      r.Close,
			RSI:        r.RSI.TakeOr(0),
			MA50:       r.MA50.TakeOr(0),
			MA200:      r.MA200.TakeOr(0),
			MACD:       r.MACD.TakeOr(0),
			MACDSignal: r.MACDSignal.TakeOr(0),
			BBUpper:    r.BBUpper.TakeOr(0),
			BBMiddle:   r.BBMiddle.TakeOr(0),
			BBLower:    r.BBLower.TakeOr(0),
			ADX:        r.ADX.TakeOr(0),
		})
	}

	return out
}
