package calculator

import "PortfolioSentinel/internal/model"

const (
	shortSMAPeriod = 20
	longSMAPeriod  = 50
)

// MinRows is the series length below which every derived column is left
// undefined: max(RSI length, slow+signal, 50).
func MinRows(p model.Params) int {
	slow := max(p.MACDFast, p.MACDSlow)
	return max(p.RSILength, slow+p.MACDSignal, longSMAPeriod)
}

// Compute derives RSI, MACD and the SMA20/SMA50 columns for series.
// Short series degrade to all-NaN columns; Compute never fails.
func Compute(series model.PriceSeries, p model.Params) model.IndicatorFrame {
	n := len(series.Bars)
	frame := model.IndicatorFrame{
		Bars:       series.Bars,
		RSI:        nanSeries(n),
		MACD:       nanSeries(n),
		MACDSignal: nanSeries(n),
		MACDHist:   nanSeries(n),
		SMA20:      nanSeries(n),
		SMA50:      nanSeries(n),
	}
	if n == 0 || n < MinRows(p) {
		return frame
	}

	closes := series.Closes()
	frame.RSI = RSI(closes, p.RSILength)
	frame.MACD, frame.MACDSignal, frame.MACDHist = MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	frame.SMA20 = SMA(closes, shortSMAPeriod)
	frame.SMA50 = SMA(closes, longSMAPeriod)
	return frame
}
