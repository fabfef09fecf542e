package calculator

// MACD returns the MACD line (EMA fast - EMA slow), its signal line
// (EMA of the line) and the histogram (line - signal).
// The line is NaN until the slow EMA is defined. fast and slow are swapped
// when given in the wrong order.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	if fast > slow {
		fast, slow = slow, fast
	}
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig = EMA(line, signal)

	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}
