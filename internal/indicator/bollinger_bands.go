package indicator

import "github.com/moznion/go-optional"

// BollingerBands computes the volatility envelope over the given window:
// middle = SMA(window), upper/lower = middle +/- k * rolling sample standard
// deviation of closes over the same window. All three bands share the same
// warm-up boundary at index window-1.
func BollingerBands(closes []float64, window int, k float64) (upper, middle, lower []optional.Option[float64]) {
	middle = rollingMean(closes, window)
	std := rollingStd(closes, window)

	upper = make([]optional.Option[float64], len(closes))
	lower = make([]optional.Option[float64], len(closes))

	for i := range closes {
		if middle[i].IsNone() || std[i].IsNone() {
			upper[i] = optional.None[float64]()
			lower[i] = optional.None[float64]()

			continue
		}

		m := middle[i].Unwrap()
		band := k * std[i].Unwrap()

		upper[i] = optional.Some(m + band)
		lower[i] = optional.Some(m - band)
	}

	return upper, middle, lower
}
