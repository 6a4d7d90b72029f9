package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// rollingMean computes the simple rolling mean of values over the given
// window. Indices with fewer than window preceding values are None.
func rollingMean(values []float64, window int) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))

	var sum float64

	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}

		if i >= window-1 {
			out[i] = optional.Some(sum / float64(window))
		} else {
			out[i] = optional.None[float64]()
		}
	}

	return out
}

// rollingStd computes the rolling sample standard deviation over the given
// window. Indices with an incomplete window are None.
func rollingStd(values []float64, window int) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))

	for i := range values {
		if i < window-1 || window < 2 {
			out[i] = optional.None[float64]()

			continue
		}

		frame := values[i-window+1 : i+1]

		var mean float64
		for _, v := range frame {
			mean += v
		}

		mean /= float64(window)

		var ss float64
		for _, v := range frame {
			ss += (v - mean) * (v - mean)
		}

		// Sample variance (n-1 denominator).
		out[i] = optional.Some(math.Sqrt(ss / float64(window-1)))
	}

	return out
}

// rollingMeanOption is rollingMean over a series that may itself contain
// None entries. A window containing any None value yields None.
func rollingMeanOption(values []optional.Option[float64], window int) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))

	for i := range values {
		if i < window-1 {
			out[i] = optional.None[float64]()

			continue
		}

		var sum float64

		complete := true

		for _, v := range values[i-window+1 : i+1] {
			if v.IsNone() {
				complete = false

				break
			}

			sum += v.Unwrap()
		}

		if complete {
			out[i] = optional.Some(sum / float64(window))
		} else {
			out[i] = optional.None[float64]()
		}
	}

	return out
}
