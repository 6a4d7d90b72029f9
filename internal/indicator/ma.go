package indicator

import "github.com/moznion/go-optional"

// SMA computes the simple moving average of values over the given window.
// The first window-1 outputs are None (insufficient preceding values).
func SMA(values []float64, window int) []optional.Option[float64] {
	return rollingMean(values, window)
}
