package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ADXTestSuite struct {
	suite.Suite
}

func TestADXSuite(t *testing.T) {
	suite.Run(t, new(ADXTestSuite))
}

func (suite *ADXTestSuite) TestSteadyUptrend() {
	highs := []float64{10, 11, 12, 13}
	lows := []float64{9, 10, 11, 12}
	closes := []float64{9.5, 10.5, 11.5, 12.5}

	out := ADX(highs, lows, closes, 2)
	// DX is defined from index 1 (window-1), so the rolling mean of DX
	// becomes numeric at index 2(window-1).
	suite.True(out[0].IsNone())
	suite.True(out[1].IsNone())
	// All upward movement: +DI dominates fully, DX is 100 everywhere.
	suite.InDelta(100.0, out[2].Unwrap(), 1e-9)
	suite.InDelta(100.0, out[3].Unwrap(), 1e-9)
}

func (suite *ADXTestSuite) TestZeroTrueRangeIsUnavailable() {
	highs := []float64{5, 5, 5, 5}
	lows := []float64{5, 5, 5, 5}
	closes := []float64{5, 5, 5, 5}

	out := ADX(highs, lows, closes, 2)
	for i, v := range out {
		suite.True(v.IsNone(), "zero-range bar at index %d must be unavailable", i)
	}
}

func (suite *ADXTestSuite) TestNoDirectionalMovementIsUnavailable() {
	// Range exists but highs/lows never move, so both directional moves
	// stay zero and DX has a zero denominator.
	highs := []float64{10, 10, 10, 10}
	lows := []float64{9, 9, 9, 9}
	closes := []float64{9.5, 9.5, 9.5, 9.5}

	out := ADX(highs, lows, closes, 2)
	for i, v := range out {
		suite.True(v.IsNone(), "index %d must be unavailable", i)
	}
}

func (suite *ADXTestSuite) TestSimplifiedClipKeepsBothDirections() {
	// Both high and low move up on the second bar: the simplified formula
	// keeps +DM and also records -DM when lows later fall, without zeroing
	// the smaller move.
	highs := []float64{10, 12, 11, 13, 12, 14}
	lows := []float64{9, 10, 8, 10, 9, 11}
	closes := []float64{9.5, 11, 9, 12, 10, 13}

	out := ADX(highs, lows, closes, 2)
	suite.True(out[2].IsSome())
	v := out[2].Unwrap()
	suite.GreaterOrEqual(v, 0.0)
	suite.LessOrEqual(v, 100.0)
}
