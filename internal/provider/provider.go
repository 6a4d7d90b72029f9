package provider

import (
	"context"
	"time"

	"github.com/apomeroy/aitrade/internal/types"
)

// BarSource supplies ordered daily OHLCV bars and ticker discovery.
type BarSource interface {
	// FetchBars returns the daily bars for symbol in [start, end], ascending
	// by date, following pagination until exhausted. An empty range yields
	// an empty slice, not an error.
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error)
	// ListTickers returns every active ticker known to the provider, sorted.
	ListTickers(ctx context.Context) ([]string, error)
}
