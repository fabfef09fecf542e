package strategy

import (
	"math"

	"PortfolioSentinel/internal/model"
)

// Thresholds are the RSI levels separating oversold and overbought.
type Thresholds struct {
	Oversold   float64
	Overbought float64
}

// DefaultThresholds returns 30/70.
func DefaultThresholds() Thresholds {
	return Thresholds{Oversold: 30, Overbought: 70}
}

// ThresholdsFrom extracts the RSI thresholds from indicator params.
func ThresholdsFrom(p model.Params) Thresholds {
	return Thresholds{Oversold: p.RSIOversold, Overbought: p.RSIOverbought}
}

// ClassifyRSI maps an RSI value to Buy below oversold, Sell above overbought
// and Neutral in between. NaN is Unknown.
func ClassifyRSI(rsi, oversold, overbought float64) model.Signal {
	switch {
	case math.IsNaN(rsi):
		return model.SignalUnknown
	case rsi < oversold:
		return model.SignalBuy
	case rsi > overbought:
		return model.SignalSell
	default:
		return model.SignalNeutral
	}
}

// ClassifyMACD is Buy when the MACD line is strictly above its signal line,
// Sell otherwise (ties included). NaN on either side is Unknown.
func ClassifyMACD(macd, signal float64) model.Signal {
	switch {
	case math.IsNaN(macd) || math.IsNaN(signal):
		return model.SignalUnknown
	case macd > signal:
		return model.SignalBuy
	default:
		return model.SignalSell
	}
}
