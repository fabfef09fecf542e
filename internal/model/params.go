package model

import (
	"fmt"
	"math"
)

// Params are the user-tunable indicator and threshold settings.
type Params struct {
	RSILength     int     `json:"rsi_length" yaml:"rsi_length"`
	RSIOversold   float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	RSIOverbought float64 `json:"rsi_overbought" yaml:"rsi_overbought"`
	MACDFast      int     `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow      int     `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal    int     `json:"macd_signal" yaml:"macd_signal"`
}

// DefaultParams returns RSI(14) 30/70 and MACD(12,26,9).
func DefaultParams() Params {
	return Params{
		RSILength:     14,
		RSIOversold:   30,
		RSIOverbought: 70,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
	}
}

// Validate checks every parameter against its allowed range.
// oversold < overbought is left to the caller.
func (p Params) Validate() error {
	checks := []struct {
		name      string
		v, lo, hi float64
	}{
		{"rsi_length", float64(p.RSILength), 2, 50},
		{"rsi_oversold", p.RSIOversold, 1, 100},
		{"rsi_overbought", p.RSIOverbought, 1, 100},
		{"macd_fast", float64(p.MACDFast), 1, 50},
		{"macd_slow", float64(p.MACDSlow), 1, 100},
		{"macd_signal", float64(p.MACDSignal), 1, 50},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || c.v < c.lo || c.v > c.hi {
			return fmt.Errorf("%s must be within [%g,%g], got %g", c.name, c.lo, c.hi, c.v)
		}
	}
	return nil
}

// RSIHeader is the table header for the RSI column, e.g. "RSI (14)".
func (p Params) RSIHeader() string { return fmt.Sprintf("RSI (%d)", p.RSILength) }

// MACDHeader is the table header for the MACD column, e.g. "MACD (12,26,9)".
func (p Params) MACDHeader() string {
	return fmt.Sprintf("MACD (%d,%d,%d)", p.MACDFast, p.MACDSlow, p.MACDSignal)
}
