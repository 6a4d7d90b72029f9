package indicator

// MACD computes the Moving Average Convergence Divergence line:
// EMA(closes, fastSpan) - EMA(closes, slowSpan).
//
// Both EMAs are seeded from the first element of the supplied series, so the
// MACD line inherits the EMA's full-history requirement: always compute it
// over a symbol's complete retained history, never a recent slice.
func MACD(closes []float64, fastSpan, slowSpan int) []float64 {
	fast := EMA(closes, fastSpan)
	slow := EMA(closes, slowSpan)

	out := make([]float64, len(closes))
	for i := range out {
		out[i] = fast[i] - slow[i]
	}

	return out
}

// MACDSignal computes the signal line: an EMA of the MACD line over
// signalSpan. The span deliberately matches the slow MACD span (26) rather
// than the conventional 9; it is an explicit parameter, not a hidden
// constant.
func MACDSignal(macd []float64, signalSpan int) []float64 {
	return EMA(macd, signalSpan)
}
