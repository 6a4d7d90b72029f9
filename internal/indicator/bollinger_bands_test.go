package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestBandsAroundMiddle() {
	closes := []float64{1, 2, 3}

	upper, middle, lower := BollingerBands(closes, 3, 2.0)
	suite.True(middle[0].IsNone())
	suite.True(middle[1].IsNone())
	// SMA(1,2,3)=2, sample std=1, k=2.
	suite.InDelta(2.0, middle[2].Unwrap(), 1e-12)
	suite.InDelta(4.0, upper[2].Unwrap(), 1e-12)
	suite.InDelta(0.0, lower[2].Unwrap(), 1e-12)
}

func (suite *BollingerBandsTestSuite) TestBandsAreSymmetric() {
	closes := []float64{10, 12, 9, 14, 11, 13, 10, 12}

	upper, middle, lower := BollingerBands(closes, 5, 2.0)
	for i := 4; i < len(closes); i++ {
		m := middle[i].Unwrap()
		suite.InDelta(m-lower[i].Unwrap(), upper[i].Unwrap()-m, 1e-9)
	}
}

func (suite *BollingerBandsTestSuite) TestWarmupAlignedAcrossBands() {
	closes := []float64{1, 2, 3, 4, 5, 6}

	upper, middle, lower := BollingerBands(closes, 4, 2.0)
	for i := 0; i < 3; i++ {
		suite.True(upper[i].IsNone())
		suite.True(middle[i].IsNone())
		suite.True(lower[i].IsNone())
	}

	for i := 3; i < len(closes); i++ {
		suite.True(upper[i].IsSome())
		suite.True(middle[i].IsSome())
		suite.True(lower[i].IsSome())
	}
}
