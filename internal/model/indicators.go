package model

import "math"

// IndicatorFrame extends a price series with derived columns.
// Every column is aligned with Bars; NaN marks an undefined value.
type IndicatorFrame struct {
	Bars       []OHLCV
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64
	SMA20      []float64
	SMA50      []float64
}

// Len returns the number of rows.
func (f IndicatorFrame) Len() int { return len(f.Bars) }

// Snapshot is the most recent row of an IndicatorFrame.
type Snapshot struct {
	Close      float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	SMA20      float64
	SMA50      float64
}

// UndefinedSnapshot has every field set to NaN.
func UndefinedSnapshot() Snapshot {
	nan := math.NaN()
	return Snapshot{Close: nan, RSI: nan, MACD: nan, MACDSignal: nan, MACDHist: nan, SMA20: nan, SMA50: nan}
}

// Latest returns the last row, or an undefined snapshot for an empty frame.
func (f IndicatorFrame) Latest() Snapshot {
	n := f.Len()
	if n == 0 {
		return UndefinedSnapshot()
	}
	i := n - 1
	return Snapshot{
		Close:      f.Bars[i].Close,
		RSI:        at(f.RSI, i),
		MACD:       at(f.MACD, i),
		MACDSignal: at(f.MACDSignal, i),
		MACDHist:   at(f.MACDHist, i),
		SMA20:      at(f.SMA20, i),
		SMA50:      at(f.SMA50, i),
	}
}

func at(col []float64, i int) float64 {
	if i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}
