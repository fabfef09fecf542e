package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorFrame_LatestEmpty(t *testing.T) {
	snap := IndicatorFrame{}.Latest()
	for name, v := range map[string]float64{
		"close": snap.Close, "rsi": snap.RSI, "macd": snap.MACD, "signal": snap.MACDSignal,
		"hist": snap.MACDHist, "sma20": snap.SMA20, "sma50": snap.SMA50,
	} {
		assert.True(t, math.IsNaN(v), "%s should be undefined", name)
	}
}

func TestIndicatorFrame_Latest(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	f := IndicatorFrame{
		Bars:       []OHLCV{{Time: day.AddDate(0, 0, -1), Close: 9}, {Time: day, Close: 10}},
		RSI:        []float64{math.NaN(), 55},
		MACD:       []float64{0.1, 0.2},
		MACDSignal: []float64{0.05, 0.15},
		MACDHist:   []float64{0.05, 0.05},
		SMA20:      []float64{9}, // shorter than Bars
	}
	snap := f.Latest()
	assert.Equal(t, 10.0, snap.Close)
	assert.Equal(t, 55.0, snap.RSI)
	assert.Equal(t, 0.2, snap.MACD)
	assert.Equal(t, 0.15, snap.MACDSignal)
	assert.True(t, math.IsNaN(snap.SMA20))
	assert.True(t, math.IsNaN(snap.SMA50))
}

func TestRow_MarshalJSONUndefinedAsNull(t *testing.T) {
	nan := math.NaN()
	row := Row{
		Name: "Acme", Ticker: "ACME.PA", Quantity: 2, Price: nan, Currency: "EUR",
		Value: math.Inf(1), RSI: nan, RSISignal: SignalUnknown, MACD: -0.5, MACDSignal: SignalBuy,
		Strategy: StrategyUptrend,
	}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Acme", "ticker": "ACME.PA", "qty": 2, "price": null, "currency": "EUR",
		"value": null, "rsi": null, "rsi_signal": "unknown", "macd": -0.5,
		"macd_signal": "buy", "strategy": "uptrend"
	}`, string(data))

	total, err := json.Marshal(TotalRow(12.5))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Total", "qty": null, "price": null, "value": 12.5, "rsi": null,
		"rsi_signal": "unknown", "macd": null, "macd_signal": "unknown",
		"strategy": "unknown", "total": true
	}`, string(total))
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
		want   string
	}{
		{"rsi length too short", func(p *Params) { p.RSILength = 1 }, "rsi_length"},
		{"oversold zero", func(p *Params) { p.RSIOversold = 0 }, "rsi_oversold"},
		{"oversold NaN", func(p *Params) { p.RSIOversold = math.NaN() }, "rsi_oversold"},
		{"overbought NaN", func(p *Params) { p.RSIOverbought = math.NaN() }, "rsi_overbought"},
		{"overbought too high", func(p *Params) { p.RSIOverbought = 101 }, "rsi_overbought"},
		{"slow too long", func(p *Params) { p.MACDSlow = 101 }, "macd_slow"},
		{"signal zero", func(p *Params) { p.MACDSignal = 0 }, "macd_signal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorContains(t, p.Validate(), tt.want)
		})
	}
}

func TestParams_Headers(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, "RSI (14)", p.RSIHeader())
	assert.Equal(t, "MACD (12,26,9)", p.MACDHeader())
}

func TestLabels_UnknownIsPlaceholder(t *testing.T) {
	assert.Equal(t, Placeholder, SignalUnknown.Label())
	assert.Equal(t, Placeholder, Signal(42).Label())
	assert.Equal(t, Placeholder, StrategyUnknown.Label())
	assert.Equal(t, "unknown", Strategy(42).String())
}

func TestPriceSeries(t *testing.T) {
	s := PriceSeries{Bars: []OHLCV{{Close: 1}, {Close: 2.5}}}
	assert.False(t, s.Empty())
	assert.Equal(t, []float64{1, 2.5}, s.Closes())
	assert.True(t, PriceSeries{}.Empty())
}
