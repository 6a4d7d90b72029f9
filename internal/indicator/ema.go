package indicator

// EMA computes the exponential moving average of values with smoothing
// factor alpha = 2/(span+1), seeded recursively from the first element of
// the supplied series.
//
// The EMA is not a window-bounded statistic: every output depends on the
// starting point of whatever series is fed in. Feeding a truncated prefix
// of history yields different values than feeding the full history, even at
// overlapping later indices. Callers that need value continuity across runs
// must always supply the complete retained history of a symbol, never a
// recent slice.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)

	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1.0-alpha)*out[i-1]
	}

	return out
}
