// Package updater orchestrates full and incremental indicator update runs:
// it decides fetch date ranges, reassembles a symbol's bar series from
// persisted history plus freshly fetched bars, recomputes indicators over
// the complete series, and persists only the rows that are actually new.
package updater

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/apomeroy/aitrade/internal/indicator"
	"github.com/apomeroy/aitrade/internal/logger"
	"github.com/apomeroy/aitrade/internal/marketclock"
	"github.com/apomeroy/aitrade/internal/provider"
	"github.com/apomeroy/aitrade/internal/types"
	"github.com/apomeroy/aitrade/pkg/errors"
)

// Mode selects how much data a run fetches per symbol.
type Mode string

const (
	// ModeFull fetches the entire available history from the epoch and
	// rewrites every row.
	ModeFull Mode = "full"
	// ModeIncremental fetches only bars after the persisted high-water
	// timestamp and writes only the new rows.
	ModeIncremental Mode = "incremental"
)

// Scope selects which symbols a run processes.
type Scope string

const (
	// ScopeAll processes every active ticker the provider knows about.
	ScopeAll Scope = "all"
	// ScopeDatabase processes the tickers already present in the store.
	ScopeDatabase Scope = "database"
	// ScopeSymbol processes a single named symbol.
	ScopeSymbol Scope = "symbol"
)

// Options selects scope and mode for one run.
type Options struct {
	Scope  Scope
	Symbol string
	Mode   Mode
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID    string
	Total    int
	Updated  int
	Failed   int
	Duration time.Duration
}

// Store is the persisted-store surface the controller needs.
type Store interface {
	Symbols() ([]string, error)
	LoadHistory(symbol string) ([]types.IndicatorRow, error)
	Upsert(symbol string, rows []types.IndicatorRow) (int, error)
}

// Config carries the controller's tunables.
type Config struct {
	// Epoch is the earliest supported bar date; full fetches and
	// empty-history incremental fetches start here.
	Epoch time.Time
	// Workers bounds the symbol worker pool. 1 reproduces a strictly
	// sequential run; symbols have no cross-symbol data dependency, so
	// wider pools are safe.
	Workers int
}

// Controller runs full and incremental updates over a set of symbols.
type Controller struct {
	source   provider.BarSource
	store    Store
	engine   *indicator.Engine
	calendar *marketclock.Calendar
	logger   *logger.Logger
	config   Config

	// OnProgress, when set, is called after each processed symbol.
	OnProgress func(done, total int)
}

// NewController wires a controller from its collaborators.
func NewController(source provider.BarSource, st Store, engine *indicator.Engine, calendar *marketclock.Calendar, config Config, log *logger.Logger) *Controller {
	if config.Workers <= 0 {
		config.Workers = 1
	}

	return &Controller{
		source:   source,
		store:    st,
		engine:   engine,
		calendar: calendar,
		logger:   log,
		config:   config,
	}
}

// Run processes every symbol in scope. Per-symbol failures are logged and
// counted but never abort the batch; only a failure to resolve the symbol
// list (a configuration-class problem) aborts the run itself.
func (c *Controller) Run(ctx context.Context, opts Options) (Summary, error) {
	started := time.Now()

	summary := Summary{RunID: uuid.New().String()}

	symbols, err := c.resolveSymbols(ctx, opts)
	if err != nil {
		return summary, err
	}

	summary.Total = len(symbols)
	if len(symbols) == 0 {
		c.logger.Warn("no tickers to process", zap.String("run_id", summary.RunID))

		return summary, nil
	}

	c.logger.Info("starting run",
		zap.String("run_id", summary.RunID),
		zap.String("mode", string(opts.Mode)),
		zap.String("scope", string(opts.Scope)),
		zap.Int("symbols", len(symbols)),
		zap.Int("workers", c.config.Workers))

	var (
		mu      sync.Mutex
		updated int
		failed  int
		done    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)

	for _, symbol := range symbols {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			written, err := c.processSymbol(gctx, symbol, opts.Mode)

			mu.Lock()
			defer mu.Unlock()

			done++

			switch {
			case err != nil:
				failed++

				c.logger.Error("symbol failed", zap.String("symbol", symbol), zap.Error(err))
			case written > 0:
				updated++

				c.logger.Info("symbol updated", zap.String("symbol", symbol), zap.Int("rows", written))
			default:
				c.logger.Debug("symbol up to date", zap.String("symbol", symbol))
			}

			if c.OnProgress != nil {
				c.OnProgress(done, len(symbols))
			}

			return nil
		})
	}

	// Workers never return errors; Wait only observes ctx cancellation.
	_ = g.Wait()

	summary.Updated = updated
	summary.Failed = failed
	summary.Duration = time.Since(started)

	c.logger.Info("run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("updated", summary.Updated),
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration))

	return summary, ctx.Err()
}

func (c *Controller) resolveSymbols(ctx context.Context, opts Options) ([]string, error) {
	switch opts.Scope {
	case ScopeAll:
		return c.source.ListTickers(ctx)
	case ScopeDatabase:
		return c.store.Symbols()
	case ScopeSymbol:
		if opts.Symbol == "" {
			return nil, errors.New(errors.ErrCodeInvalidParameter, "symbol scope requires a symbol")
		}

		return []string{opts.Symbol}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown scope %q", opts.Scope)
	}
}

// processSymbol runs one symbol to completion and returns the number of
// rows written. Either the symbol's full recomputed delta is upserted in a
// single transaction or nothing is written at all.
func (c *Controller) processSymbol(ctx context.Context, symbol string, mode Mode) (int, error) {
	switch mode {
	case ModeFull:
		return c.processFull(ctx, symbol)
	case ModeIncremental:
		return c.processIncremental(ctx, symbol)
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "unknown mode %q", mode)
	}
}

func (c *Controller) processFull(ctx context.Context, symbol string) (int, error) {
	bars, err := c.source.FetchBars(ctx, symbol, c.config.Epoch, c.calendar.Today())
	if err != nil {
		return 0, err
	}

	if len(bars) == 0 {
		return 0, nil
	}

	rows := c.engine.Compute(sortBars(dedupeBars(bars)))

	return c.store.Upsert(symbol, rows)
}

func (c *Controller) processIncremental(ctx context.Context, symbol string) (int, error) {
	history, err := c.store.LoadHistory(symbol)
	if err != nil {
		return 0, err
	}

	if len(history) == 0 {
		// Nothing persisted yet: fall back to a full fetch from the epoch.
		return c.processFull(ctx, symbol)
	}

	historyBars := make([]types.Bar, 0, len(history))
	for _, row := range history {
		historyBars = append(historyBars, row.Bar())
	}

	historyBars = sortBars(dedupeBars(historyBars))

	maxPersisted := historyBars[len(historyBars)-1].Day()
	start := maxPersisted.AddDate(0, 0, 1)
	end := c.calendar.EndDate()

	if start.After(end) {
		// History is already up to date; zero fetches, zero writes.
		c.logger.Debug("history up to date, skipping fetch", zap.String("symbol", symbol))

		return 0, nil
	}

	fetched, err := c.source.FetchBars(ctx, symbol, start, end)
	if err != nil {
		return 0, err
	}

	if len(fetched) == 0 {
		return 0, nil
	}

	// Recompute over the entire concatenated series, not just the new
	// bars: the exponentially smoothed indicators are seeded from the
	// series start, so a truncated recomputation would drift from a full
	// one. Freshly fetched bars win on date collisions (revisions).
	merged := mergeBars(historyBars, fetched)
	rows := c.engine.Compute(merged)

	delta := make([]types.IndicatorRow, 0, len(fetched))

	for _, row := range rows {
		// Compare calendar dates, not raw timestamps: rows loaded from
		// older stores may still carry an intraday component, and the
		// high-water row itself is never part of the delta.
		if row.Bar().Day().After(maxPersisted) {
			delta = append(delta, row)
		}
	}

	if len(delta) == 0 {
		return 0, nil
	}

	return c.store.Upsert(symbol, delta)
}

// mergeBars concatenates the persisted-history prefix with freshly fetched
// bars, deduplicates by calendar date with the fetched bar winning, and
// returns the merged series ascending by date.
func mergeBars(history, fetched []types.Bar) []types.Bar {
	byDay := make(map[time.Time]types.Bar, len(history)+len(fetched))

	for _, b := range history {
		byDay[b.Day()] = b
	}

	for _, b := range fetched {
		byDay[b.Day()] = b
	}

	merged := make([]types.Bar, 0, len(byDay))
	for _, b := range byDay {
		merged = append(merged, b)
	}

	return sortBars(merged)
}

func dedupeBars(bars []types.Bar) []types.Bar {
	byDay := make(map[time.Time]types.Bar, len(bars))
	for _, b := range bars {
		// Later entries win: a same-date refetch supersedes.
		byDay[b.Day()] = b
	}

	out := make([]types.Bar, 0, len(byDay))
	for _, b := range byDay {
		out = append(out, b)
	}

	return out
}

func sortBars(bars []types.Bar) []types.Bar {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	return bars
}
