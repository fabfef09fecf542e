package model

import (
	"encoding/json"
	"math"
	"time"
)

// SectionKind names a holdings group.
type SectionKind string

const (
	SectionStocks  SectionKind = "stocks"
	SectionCryptos SectionKind = "cryptos"
)

// TotalName is the Name of the synthetic total row.
const TotalName = "Total"

// Row is one line of a section table. Value is in the reporting currency,
// Price in the asset's trading currency.
type Row struct {
	Name       string
	Ticker     string
	Quantity   float64
	Price      float64
	Currency   string
	Value      float64
	RSI        float64
	RSISignal  Signal
	MACD       float64
	MACDSignal Signal
	Strategy   Strategy
	Total      bool
}

// TotalRow builds the synthetic total row; every other field is undefined.
func TotalRow(value float64) Row {
	nan := math.NaN()
	return Row{
		Name:     TotalName,
		Quantity: nan,
		Price:    nan,
		Value:    value,
		RSI:      nan,
		MACD:     nan,
		Total:    true,
	}
}

func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string   `json:"name"`
		Ticker     string   `json:"ticker,omitempty"`
		Quantity   *float64 `json:"qty"`
		Price      *float64 `json:"price"`
		Currency   string   `json:"currency,omitempty"`
		Value      *float64 `json:"value"`
		RSI        *float64 `json:"rsi"`
		RSISignal  Signal   `json:"rsi_signal"`
		MACD       *float64 `json:"macd"`
		MACDSignal Signal   `json:"macd_signal"`
		Strategy   Strategy `json:"strategy"`
		Total      bool     `json:"total,omitempty"`
	}{
		Name:       r.Name,
		Ticker:     r.Ticker,
		Quantity:   Defined(r.Quantity),
		Price:      Defined(r.Price),
		Currency:   r.Currency,
		Value:      Defined(r.Value),
		RSI:        Defined(r.RSI),
		RSISignal:  r.RSISignal,
		MACD:       Defined(r.MACD),
		MACDSignal: r.MACDSignal,
		Strategy:   r.Strategy,
		Total:      r.Total,
	})
}

// Defined returns nil for NaN or infinite values, so they encode as null.
func Defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ChartPoint is one row of a per-asset chart.
type ChartPoint struct {
	Time  time.Time
	Close float64
	SMA20 float64
	SMA50 float64
}

func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time  time.Time `json:"time"`
		Close *float64  `json:"close"`
		SMA20 *float64  `json:"sma20"`
		SMA50 *float64  `json:"sma50"`
	}{p.Time, Defined(p.Close), Defined(p.SMA20), Defined(p.SMA50)})
}

// AssetChart is the close price against its moving averages for one holding.
type AssetChart struct {
	Name   string       `json:"name"`
	Ticker string       `json:"ticker"`
	Points []ChartPoint `json:"points"`
}

// Section is the summary table of one holdings group.
type Section struct {
	Kind     SectionKind  `json:"kind"`
	Rows     []Row        `json:"rows"`
	Charts   []AssetChart `json:"charts"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Total returns the total row, or a zero-valued total if none was appended.
func (s Section) Total() Row {
	for i := len(s.Rows) - 1; i >= 0; i-- {
		if s.Rows[i].Total {
			return s.Rows[i]
		}
	}
	return TotalRow(0)
}

// Holdings returns the rows without the total row.
func (s Section) Holdings() []Row {
	rows := make([]Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		if !r.Total {
			rows = append(rows, r)
		}
	}
	return rows
}

// ValuePoint is the total portfolio value at one timestamp.
type ValuePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// CombinedSeries is the portfolio value over time, oldest first.
type CombinedSeries []ValuePoint

// Dashboard is the result of one full recomputation.
type Dashboard struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	Currency       string         `json:"currency"`
	Params         Params         `json:"params"`
	Stocks         Section        `json:"stocks"`
	Cryptos        Section        `json:"cryptos"`
	Combined       CombinedSeries `json:"combined,omitempty"`
	Prompt         string         `json:"prompt"`
	RatesAvailable bool           `json:"rates_available"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// Charts returns the per-asset charts of both sections.
func (d *Dashboard) Charts() []AssetChart {
	charts := make([]AssetChart, 0, len(d.Stocks.Charts)+len(d.Cryptos.Charts))
	charts = append(charts, d.Stocks.Charts...)
	return append(charts, d.Cryptos.Charts...)
}
