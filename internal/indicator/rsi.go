package indicator

import "github.com/moznion/go-optional"

// RSI computes the Relative Strength Index of closes over the given window.
//
// Per-bar close-to-close deltas are split into gain and loss-magnitude
// series, each smoothed with a simple rolling mean over the window;
// RS = meanGain/meanLoss and RSI = 100 - 100/(1+RS). The first bar has no
// preceding close, so its delta slot is zero; the value becomes numeric at
// index window-1.
//
// A window with losses but no gains yields 0, a window with gains but no
// losses yields 100, and a window with neither (flat prices) is None.
func RSI(closes []float64, window int) []optional.Option[float64] {
	n := len(closes)

	gains := make([]float64, n)
	losses := make([]float64, n)

	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	meanGain := rollingMean(gains, window)
	meanLoss := rollingMean(losses, window)

	out := make([]optional.Option[float64], n)

	for i := 0; i < n; i++ {
		if meanGain[i].IsNone() || meanLoss[i].IsNone() {
			out[i] = optional.None[float64]()

			continue
		}

		gain := meanGain[i].Unwrap()
		loss := meanLoss[i].Unwrap()

		switch {
		case loss == 0 && gain == 0:
			// 0/0: no movement in the window, value undefined.
			out[i] = optional.None[float64]()
		case loss == 0:
			out[i] = optional.Some(100.0)
		default:
			rs := gain / loss
			out[i] = optional.Some(100.0 - 100.0/(1.0+rs))
		}
	}

	return out
}
