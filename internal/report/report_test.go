package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func sampleRows() []model.Row {
	return []model.Row{
		{
			Name: "Airbus", Ticker: "AIR.PA", Quantity: 10, Price: 150.456, Currency: "EUR", Value: 1504.56,
			RSI: 67.94, RSISignal: model.SignalNeutral, MACD: -0.5404, MACDSignal: model.SignalBuy, Strategy: model.StrategyUptrend,
		},
		{
			Name: "Ghost", Ticker: "XYZ", Quantity: 3, Price: math.NaN(), Currency: "EUR", Value: math.NaN(),
			RSI: math.NaN(), MACD: math.NaN(),
		},
		model.TotalRow(1504.56),
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "1.50", Number(1.4999, 2))
	assert.Equal(t, "67.9", Number(67.94, 1))
	assert.Equal(t, "", Number(math.NaN(), 2))
	assert.Equal(t, "", Number(math.Inf(1), 2))
}

func TestQuantityDecimals(t *testing.T) {
	assert.Equal(t, 2, QuantityDecimals(model.SectionStocks))
	assert.Equal(t, 4, QuantityDecimals(model.SectionCryptos))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, money.NewFromFloat(1504.56, "EUR").Display(), Money(1504.56, "EUR"))
	assert.Equal(t, "", Money(math.NaN(), "EUR"))
	assert.Equal(t, "12.30", Money(12.3, "NOPE"))
}

func TestComposeSummary(t *testing.T) {
	crypto := []model.Row{
		{Name: "Bitcoin", Ticker: "BTC-USD", Quantity: 0.05, Value: 2500, RSISignal: model.SignalSell, MACDSignal: model.SignalSell},
		model.TotalRow(2500),
	}
	prompt := ComposeSummary(sampleRows(), crypto)

	assert.Contains(t, prompt, "### Stocks\n- Airbus (AIR.PA): 10 units (~"+Money(1504.56, "EUR")+"), RSI = "+model.SignalNeutral.Label()+", MACD = "+model.SignalBuy.Label())
	assert.Contains(t, prompt, "- Ghost (XYZ): 3 units (~), RSI = —, MACD = —")
	assert.Contains(t, prompt, "### Cryptocurrencies\n- Bitcoin (BTC-USD): 0.05 units")
	assert.NotContains(t, prompt, model.TotalName+" (")
	assert.Contains(t, prompt, "**buy**, **hold** or **sell**")
	assert.True(t, strings.HasSuffix(prompt, "Please give me clear recommendations."))
}

func TestComposeSummary_Empty(t *testing.T) {
	prompt := ComposeSummary(nil, nil)
	assert.Contains(t, prompt, "### Stocks\n\n\n### Cryptocurrencies\n\n\n")
}

func TestSectionTable(t *testing.T) {
	p := model.DefaultParams()
	table := SectionTable(model.Section{Kind: model.SectionStocks, Rows: sampleRows()}, p)
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "RSI (14)")
	assert.Contains(t, lines[0], "MACD (12,26,9)")
	assert.Equal(t, "| Airbus | AIR.PA | 10.00 | 150.46 | EUR | 1504.56 | 67.9 | "+
		model.SignalNeutral.Label()+" | -0.54 | "+model.SignalBuy.Label()+" | "+model.StrategyUptrend.Label()+" |", lines[2])
	assert.Equal(t, "| Ghost | XYZ | 3.00 |  | EUR |  |  | — |  | — | — |", lines[3])
	assert.Equal(t, "| **Total** | | | | | **1504.56** | | | | | |", lines[4])
}

func TestSectionTable_CryptoPrecision(t *testing.T) {
	rows := []model.Row{{Name: "Bitcoin", Ticker: "BTC-USD", Quantity: 0.123456, Price: 60000, Value: 1000}}
	table := SectionTable(model.Section{Kind: model.SectionCryptos, Rows: rows}, model.DefaultParams())
	assert.Contains(t, table, "| 0.1235 |")
}

func TestDashboardMarkdown(t *testing.T) {
	d := &model.Dashboard{
		GeneratedAt: time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC),
		Currency:    "EUR",
		Params:      model.DefaultParams(),
		Stocks:      model.Section{Kind: model.SectionStocks, Rows: sampleRows()},
		Cryptos:     model.Section{Kind: model.SectionCryptos, Rows: []model.Row{model.TotalRow(0)}},
		Combined: model.CombinedSeries{
			{Time: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Value: 1400},
			{Time: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Value: 1504.56},
		},
		Warnings: []string{"XYZ: no price history available"},
	}
	md := DashboardMarkdown(d)
	assert.Contains(t, md, "2024-06-03 09:30")
	assert.Contains(t, md, "## 📈 Stocks")
	assert.Contains(t, md, "## 🪙 Cryptocurrencies")
	assert.Contains(t, md, Money(1504.56, "EUR")+" on 2024-06-03 (2 points)")
	assert.Contains(t, md, "- XYZ: no price history available")
}

func chartPoints(n int) []model.ChartPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.ChartPoint, n)
	for i := range points {
		sma := math.NaN()
		if i >= 19 {
			sma = 100 + float64(i) - 9.5
		}
		points[i] = model.ChartPoint{Time: start.AddDate(0, 0, i), Close: 100 + float64(i), SMA20: sma, SMA50: math.NaN()}
	}
	return points
}

func TestRenderAssetChart(t *testing.T) {
	var buf bytes.Buffer
	err := RenderAssetChart(model.AssetChart{Name: "Airbus", Ticker: "AIR.PA", Points: chartPoints(30)}, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderAssetChart_TooShort(t *testing.T) {
	var buf bytes.Buffer
	err := RenderAssetChart(model.AssetChart{Name: "X", Ticker: "X", Points: chartPoints(1)}, &buf)
	assert.ErrorIs(t, err, ErrNotEnoughPoints)
}

func TestRenderCombinedChart(t *testing.T) {
	series := model.CombinedSeries{
		{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Value: 1000},
		{Time: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Value: 1100},
		{Time: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Value: 1050},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderCombinedChart(series, "EUR", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	assert.ErrorIs(t, RenderCombinedChart(nil, "EUR", &buf), ErrNotEnoughPoints)
}
