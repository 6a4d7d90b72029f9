package provider

import (
	"context"
	"sort"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/apomeroy/aitrade/internal/logger"
	"github.com/apomeroy/aitrade/internal/types"
	"github.com/apomeroy/aitrade/pkg/errors"
)

const (
	aggsPageLimit   = 50000
	tickerPageLimit = 1000
)

// Polygon fetches daily aggregates and ticker listings from polygon.io.
//
// The client iterator follows continuation pages transparently; a short
// fixed pacing delay is inserted between pages to respect provider rate
// limits. There is no retry or backoff on outright failure: a failed fetch
// surfaces as a provider error and the caller skips the symbol.
type Polygon struct {
	client    *polygon.Client
	pageDelay time.Duration
	logger    *logger.Logger
}

// NewPolygon creates a polygon.io bar source. The API key is required.
func NewPolygon(apiKey string, pageDelay time.Duration, log *logger.Logger) (*Polygon, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingCredentials, "polygon API key is not set")
	}

	return &Polygon{
		client:    polygon.New(apiKey),
		pageDelay: pageDelay,
		logger:    log,
	}, nil
}

// FetchBars implements BarSource. Bars are adjusted, daily, ascending.
func (p *Polygon) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end.Add(24*time.Hour - time.Second)),
	}.WithAdjusted(true).WithOrder(models.Asc).WithLimit(aggsPageLimit)

	iter := p.client.ListAggs(ctx, params)

	var bars []types.Bar

	count := 0

	for iter.Next() {
		agg := iter.Item()

		// Daily aggregates are stamped at the session open in exchange
		// local time (04:00/05:00 UTC depending on DST). Bars are keyed
		// by calendar date, so truncate here to keep the persisted
		// (symbol, timestamp) key date-stable.
		ts := time.Time(agg.Timestamp).UTC()

		bars = append(bars, types.Bar{
			Symbol: symbol,
			Time:   time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})

		count++
		if count%aggsPageLimit == 0 && p.pageDelay > 0 {
			time.Sleep(p.pageDelay)
		}
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch bars for %s", symbol)
	}

	p.logger.Debug("fetched bars",
		zap.String("symbol", symbol),
		zap.Int("count", len(bars)),
		zap.String("start", start.Format("2006-01-02")),
		zap.String("end", end.Format("2006-01-02")))

	return bars, nil
}

// ListTickers implements BarSource. It pages through every active stock
// ticker, pacing between pages.
func (p *Polygon) ListTickers(ctx context.Context) ([]string, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListTickersParams{}.
		WithMarket(models.AssetStocks).
		WithActive(true).
		WithLimit(tickerPageLimit)

	iter := p.client.ListTickers(ctx, params)

	var tickers []string

	count := 0

	for iter.Next() {
		tickers = append(tickers, iter.Item().Ticker)

		count++
		if count%tickerPageLimit == 0 && p.pageDelay > 0 {
			time.Sleep(p.pageDelay)
		}
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTickerListFailed, "failed to list tickers", err)
	}

	sort.Strings(tickers)
	p.logger.Info("listed tickers", zap.Int("count", len(tickers)))

	return tickers, nil
}
