// Package store persists one row per (symbol, timestamp) with the raw OHLCV
// columns and every computed indicator column.
//
// The indicator columns are non-nullable DOUBLEs: an internally unavailable
// indicator value is coerced to 0.0 at the write boundary. Consumers reading
// rows back cannot distinguish "unavailable" from a computed zero; anything
// that needs the distinction must recompute from the retained OHLCV.
package store

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/apomeroy/aitrade/internal/logger"
	"github.com/apomeroy/aitrade/internal/types"
	"github.com/apomeroy/aitrade/pkg/errors"
)

const tableName = "stock_data"

// Store is a DuckDB-backed persisted store keyed by (symbol, timestamp).
type Store struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// Open opens (or creates) the DuckDB database at path and ensures the
// stock_data table exists. A failure here is a configuration-class error:
// the run must abort before any symbol is processed.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnreachable, "failed to open store", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStoreUnreachable, "store is unreachable", err)
	}

	s := &Store{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}

	if err := s.init(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS stock_data (
			symbol TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE,
			rsi DOUBLE,
			ma50 DOUBLE,
			ma200 DOUBLE,
			macd DOUBLE,
			macd_signal DOUBLE,
			bb_upper DOUBLE,
			bb_middle DOUBLE,
			bb_lower DOUBLE,
			adx DOUBLE,
			PRIMARY KEY (symbol, timestamp)
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create stock_data table", err)
	}

	return nil
}

// Symbols returns every distinct symbol currently persisted.
func (s *Store) Symbols() ([]string, error) {
	query, args, err := s.sq.Select("DISTINCT symbol").From(tableName).OrderBy("symbol").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to build symbols query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to list symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// LoadHistory returns every persisted row for a symbol, including the
// retained OHLCV columns, in no guaranteed order. Rows that fail to scan
// are dropped with a warning; a malformed row never aborts the series.
func (s *Store) LoadHistory(symbol string) ([]types.IndicatorRow, error) {
	query, args, err := s.sq.
		Select(rowColumns()...).
		From(tableName).
		Where(squirrel.Eq{"symbol": symbol}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to build history query", err)
	}

	return s.queryRows(query, args...)
}

// RowsSince returns persisted rows with timestamp at or after since,
// newest first, optionally restricted to the given symbols.
func (s *Store) RowsSince(symbols []string, since time.Time) ([]types.IndicatorRow, error) {
	builder := s.sq.
		Select(rowColumns()...).
		From(tableName).
		Where(squirrel.GtOrEq{"timestamp": since}).
		OrderBy("timestamp DESC")
	if len(symbols) > 0 {
		builder = builder.Where(squirrel.Eq{"symbol": symbols})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to build scan query", err)
	}

	return s.queryRows(query, args...)
}

// RecentRows returns the n most recent rows for a symbol, newest first.
func (s *Store) RecentRows(symbol string, n int) ([]types.IndicatorRow, error) {
	query, args, err := s.sq.
		Select(rowColumns()...).
		From(tableName).
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("timestamp DESC").
		Limit(uint64(n)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to build recent rows query", err)
	}

	return s.queryRows(query, args...)
}

// Upsert writes rows keyed by (symbol, timestamp), overwriting every raw and
// computed column on conflict, and returns the number of rows written.
// Unavailable indicator values are coerced to 0.0 here; this is the only
// place the coercion happens.
func (s *Store) Upsert(symbol string, rows []types.IndicatorRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stock_data (symbol, timestamp, open, high, low, close, volume,
			rsi, ma50, ma200, macd, macd_signal, bb_upper, bb_middle, bb_lower, adx)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, timestamp) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume,
			rsi = excluded.rsi,
			ma50 = excluded.ma50,
			ma200 = excluded.ma200,
			macd = excluded.macd,
			macd_signal = excluded.macd_signal,
			bb_upper = excluded.bb_upper,
			bb_middle = excluded.bb_middle,
			bb_lower = excluded.bb_lower,
			adx = excluded.adx
	`)
	if err != nil {
		tx.Rollback()

		return 0, errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to prepare upsert", err)
	}
	defer stmt.Close()

	written := 0

	for _, row := range rows {
		_, err := stmt.Exec(
			symbol,
			row.Time,
			row.Open,
			row.High,
			row.Low,
			row.Close,
			row.Volume,
			row.RSI.TakeOr(0.0),
			row.MA50.TakeOr(0.0),
			row.MA200.TakeOr(0.0),
			row.MACD.TakeOr(0.0),
			row.MACDSignal.TakeOr(0.0),
			row.BBUpper.TakeOr(0.0),
			row.BBMiddle.TakeOr(0.0),
			row.BBLower.TakeOr(0.0),
			row.ADX.TakeOr(0.0),
		)
		if err != nil {
			tx.Rollback()

			return 0, errors.Wrapf(errors.ErrCodeStoreWriteFailed, err, "failed to upsert row for %s at %s", symbol, row.Time.Format("2006-01-02"))
		}

		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to commit upsert", err)
	}

	return written, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func rowColumns() []string {
	return []string{
		"symbol", "timestamp", "open", "high", "low", "close", "volume",
		"rsi", "ma50", "ma200", "macd", "macd_signal", "bb_upper", "bb_middle", "bb_lower", "adx",
	}
}

func (s *Store) queryRows(query string, args ...interface{}) ([]types.IndicatorRow, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to query rows", err)
	}
	defer rows.Close()

	var out []types.IndicatorRow

	for rows.Next() {
		var (
			row types.IndicatorRow
			ts  sql.NullTime

			rsi, ma50, ma200, macd, macdSignal, bbUpper, bbMiddle, bbLower, adx float64
		)

		err := rows.Scan(
			&row.Symbol, &ts, &row.Open, &row.High, &row.Low, &row.Close, &row.Volume,
			&rsi, &ma50, &ma200, &macd, &macdSignal, &bbUpper, &bbMiddle, &bbLower, &adx,
		)
		if err != nil {
			// Unparseable row: drop it and keep the rest of the series.
			s.logger.Warn("dropping unparseable row", zap.Error(err))

			continue
		}

		if !ts.Valid {
			s.logger.Warn("dropping row with invalid timestamp", zap.String("symbol", row.Symbol))

			continue
		}

		row.Time = ts.Time.UTC()
		row.RSI = optional.Some(rsi)
		row.MA50 = optional.Some(ma50)
		row.MA200 = optional.Some(ma200)
		row.MACD = optional.Some(macd)
		row.MACDSignal = optional.Some(macdSignal)
		row.BBUpper = optional.Some(bbUpper)
		row.BBMiddle = optional.Some(bbMiddle)
		row.BBLower = optional.Some(bbLower)
		row.ADX = optional.Some(adx)

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "error iterating rows", err)
	}

	return out, nil
}
