package model

import "time"

// Window is a lookback range understood by the market data provider.
type Window string

const (
	Window5d  Window = "5d"
	Window1mo Window = "1mo"
	Window3mo Window = "3mo"
	Window6mo Window = "6mo"
	Window1y  Window = "1y"
	Window2y  Window = "2y"
)

// DefaultWindow is the lookback used for every holding.
const DefaultWindow = Window3mo

// Valid reports whether w is one of the supported ranges.
func (w Window) Valid() bool {
	switch w {
	case Window5d, Window1mo, Window3mo, Window6mo, Window1y, Window2y:
		return true
	}
	return false
}

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the bars of one ticker, oldest first.
// An empty series means the data was unavailable.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Window    Window    `json:"window"`
	Bars      []OHLCV   `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Empty reports whether the series has no bars.
func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }

// Closes extracts the close prices in bar order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
