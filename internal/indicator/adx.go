package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// ADX computes the Average Directional Index over the given window.
//
// True range TR = max(high-low, |high-prevClose|, |low-prevClose|);
// +DM = max(high_t - high_{t-1}, 0) and -DM = max(low_{t-1} - low_t, 0).
// The directional moves are a simplified clip: the smaller of the two is
// not zeroed out when both are positive, diverging from the textbook ADX.
// TR, +DM and -DM are smoothed with simple rolling means over the window;
// +DI = 100*smoothed(+DM)/smoothed(TR) and -DI analogously;
// DX = 100*|+DI - -DI|/(+DI + -DI); ADX = rolling mean of DX over the
// window. The first bar has no predecessor, so TR falls back to high-low
// and both directional moves are zero there.
//
// Indices where smoothed TR is zero, or where +DI + -DI is zero, are None.
func ADX(highs, lows, closes []float64, window int) []optional.Option[float64] {
	n := len(closes)

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 0; i < n; i++ {
		if i == 0 {
			tr[i] = highs[i] - lows[i]

			continue
		}

		tr[i] = math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
		plusDM[i] = math.Max(highs[i]-highs[i-1], 0)
		minusDM[i] = math.Max(lows[i-1]-lows[i], 0)
	}

	smTR := rollingMean(tr, window)
	smPlusDM := rollingMean(plusDM, window)
	smMinusDM := rollingMean(minusDM, window)

	dx := make([]optional.Option[float64], n)

	for i := 0; i < n; i++ {
		if smTR[i].IsNone() {
			dx[i] = optional.None[float64]()

			continue
		}

		trVal := smTR[i].Unwrap()
		if trVal == 0 {
			dx[i] = optional.None[float64]()

			continue
		}

		plusDI := 100.0 * smPlusDM[i].Unwrap() / trVal
		minusDI := 100.0 * smMinusDM[i].Unwrap() / trVal

		if plusDI+minusDI == 0 {
			dx[i] = optional.None[float64]()

			continue
		}

		dx[i] = optional.Some(100.0 * math.Abs(plusDI-minusDI) / (plusDI + minusDI))
	}

	return rollingMeanOption(dx, window)
}
