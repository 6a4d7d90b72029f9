package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (s *MACDTestSuite) TestMACDIsZeroOnConstantSeries() {
	closes := []float64{5, 5, 5, 5, 5, 5}

	macd := MACD(closes, 2, 4)

	for i, v := range macd {
		s.InDelta(0, v, 1e-12, "index %d", i)
	}
}

func (s *MACDTestSuite) TestMACDStartsAtZero() {
	// Both EMAs are seeded with the first close, so the difference at
	// index 0 is exactly zero regardless of spans.
	macd := MACD([]float64{10, 11, 13, 12}, 2, 4)

	s.Equal(0.0, macd[0])
}

func (s *MACDTestSuite) TestMACDPositiveInUptrend() {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	macd := MACD(closes, 12, 26)

	// The fast EMA tracks a rising series more closely than the slow one.
	s.Greater(macd[29], 0.0)
	s.Greater(macd[29], macd[10])
}

func (s *MACDTestSuite) TestMACDMatchesEMADifference() {
	closes := []float64{10, 12, 11, 13, 14, 12, 15}

	macd := MACD(closes, 3, 5)
	fast := EMA(closes, 3)
	slow := EMA(closes, 5)

	for i := range closes {
		s.InDelta(fast[i]-slow[i], macd[i], 1e-12)
	}
}

func (s *MACDTestSuite) TestSignalSmoothsMACD() {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}

	macd := MACD(closes, 12, 26)
	signal := MACDSignal(macd, 26)

	s.Len(signal, len(macd))
	s.Equal(macd[0], signal[0])

	// The signal line lags the MACD line in a rising tail.
	rising := MACD([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 2, 5)
	lagged := MACDSignal(rising, 5)
	s.Less(lagged[9], rising[9])
}
