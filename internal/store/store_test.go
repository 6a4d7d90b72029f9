package store

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/apomeroy/aitrade/internal/logger"
	"github.com/apomeroy/aitrade/internal/types"
)

type StoreTestSuite struct {
	suite.Suite

	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	store, err := Open(":memory:", log)
	suite.Require().NoError(err)
	suite.store = store
}

func (suite *StoreTestSuite) TearDownTest() {
	suite.store.Close()
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func testRow(symbol string, ts time.Time, close float64) types.IndicatorRow {
	return types.IndicatorRow{
		Symbol:     symbol,
		Time:       ts,
		Open:       close - 0.5,
		High:       close + 1,
		Low:        close - 1,
		Close:      close,
		Volume:     1000,
		RSI:        optional.Some(42.0),
		MA50:       optional.Some(close - 2),
		MA200:      optional.Some(close - 3),
		MACD:       optional.Some(0.5),
		MACDSignal: optional.Some(0.25),
		BBUpper:    optional.Some(close + 2),
		BBMiddle:   optional.Some(close),
		BBLower:    optional.Some(close - 2),
		ADX:        optional.Some(25.0),
	}
}

func (suite *StoreTestSuite) TestUpsertAndLoadHistory() {
	rows := []types.IndicatorRow{
		testRow("AAPL", day(2025, 1, 2), 10),
		testRow("AAPL", day(2025, 1, 3), 11),
	}

	n, err := suite.store.Upsert("AAPL", rows)
	suite.NoError(err)
	suite.Equal(2, n)

	loaded, err := suite.store.LoadHistory("AAPL")
	suite.NoError(err)
	suite.Len(loaded, 2)

	byDate := map[time.Time]types.IndicatorRow{}
	for _, r := range loaded {
		byDate[r.Time] = r
	}

	got := byDate[day(2025, 1, 2)]
	suite.Equal("AAPL", got.Symbol)
	suite.InDelta(10.0, got.Close, 1e-9)
	suite.InDelta(42.0, got.RSI.Unwrap(), 1e-9)
}

func (suite *StoreTestSuite) TestUpsertOverwritesOnConflict() {
	first := testRow("AAPL", day(2025, 1, 2), 10)
	second := testRow("AAPL", day(2025, 1, 2), 20)

	_, err := suite.store.Upsert("AAPL", []types.IndicatorRow{first})
	suite.NoError(err)

	_, err = suite.store.Upsert("AAPL", []types.IndicatorRow{second})
	suite.NoError(err)

	loaded, err := suite.store.LoadHistory("AAPL")
	suite.NoError(err)
	// Exactly one persisted row, reflecting the later write.
	suite.Require().Len(loaded, 1)
	suite.InDelta(20.0, loaded[0].Close, 1e-9)
}

func (suite *StoreTestSuite) TestUnavailableCoercedToZeroAtWriteBoundary() {
	row := testRow("AAPL", day(2025, 1, 2), 10)
	row.RSI = optional.None[float64]()
	row.MA200 = optional.None[float64]()

	_, err := suite.store.Upsert("AAPL", []types.IndicatorRow{row})
	suite.NoError(err)

	loaded, err := suite.store.LoadHistory("AAPL")
	suite.NoError(err)
	suite.Require().Len(loaded, 1)
	suite.InDelta(0.0, loaded[0].RSI.Unwrap(), 1e-9)
	suite.InDelta(0.0, loaded[0].MA200.Unwrap(), 1e-9)
}

func (suite *StoreTestSuite) TestUpsertEmptyIsNoop() {
	n, err := suite.store.Upsert("AAPL", nil)
	suite.NoError(err)
	suite.Zero(n)
}

func (suite *StoreTestSuite) TestSymbols() {
	_, err := suite.store.Upsert("MSFT", []types.IndicatorRow{testRow("MSFT", day(2025, 1, 2), 10)})
	suite.NoError(err)
	_, err = suite.store.Upsert("AAPL", []types.IndicatorRow{testRow("AAPL", day(2025, 1, 2), 10)})
	suite.NoError(err)

	symbols, err := suite.store.Symbols()
	suite.NoError(err)
	suite.Equal([]string{"AAPL", "MSFT"}, symbols)
}

func (suite *StoreTestSuite) TestRowsSince() {
	_, err := suite.store.Upsert("AAPL", []types.IndicatorRow{
		testRow("AAPL", day(2025, 1, 2), 10),
		testRow("AAPL", day(2025, 1, 10), 11),
	})
	suite.NoError(err)
	_, err = suite.store.Upsert("MSFT", []types.IndicatorRow{
		testRow("MSFT", day(2025, 1, 10), 30),
	})
	suite.NoError(err)

	rows, err := suite.store.RowsSince(nil, day(2025, 1, 5))
	suite.NoError(err)
	suite.Len(rows, 2)

	rows, err = suite.store.RowsSince([]string{"AAPL"}, day(2025, 1, 5))
	suite.NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal("AAPL", rows[0].Symbol)
}

func (suite *StoreTestSuite) TestRecentRowsNewestFirst() {
	_, err := suite.store.Upsert("AAPL", []types.IndicatorRow{
		testRow("AAPL", day(2025, 1, 2), 10),
		testRow("AAPL", day(2025, 1, 3), 11),
		testRow("AAPL", day(2025, 1, 6), 12),
	})
	suite.NoError(err)

	rows, err := suite.store.RecentRows("AAPL", 2)
	suite.NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal(day(2025, 1, 6), rows[0].Time)
	suite.Equal(day(2025, 1, 3), rows[1].Time)
}
