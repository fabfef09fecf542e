package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBuilder struct {
	err  error
	last model.Params
}

func (s *stubBuilder) DefaultParams() model.Params { return model.DefaultParams() }

func (s *stubBuilder) Build(_ context.Context, p model.Params) (*model.Dashboard, error) {
	s.last = p
	if s.err != nil {
		return nil, s.err
	}
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	nan := math.NaN()
	return &model.Dashboard{
		GeneratedAt: day,
		Currency:    "EUR",
		Params:      p,
		Stocks: model.Section{
			Kind: model.SectionStocks,
			Rows: []model.Row{
				{Name: "Acme", Ticker: "ACME.PA", Quantity: 2, Price: 10, Currency: "EUR", Value: 20, RSI: nan, MACD: nan},
				model.TotalRow(20),
			},
			Charts: []model.AssetChart{{Name: "Acme", Ticker: "ACME.PA", Points: []model.ChartPoint{
				{Time: day.AddDate(0, 0, -1), Close: 9, SMA20: nan, SMA50: nan},
				{Time: day, Close: 10, SMA20: nan, SMA50: nan},
			}}},
		},
		Cryptos: model.Section{Kind: model.SectionCryptos, Rows: []model.Row{model.TotalRow(0)}},
		Combined: model.CombinedSeries{
			{Time: day.AddDate(0, 0, -1), Value: 18},
			{Time: day, Value: 20},
		},
		Prompt: "Here is my portfolio.",
	}, nil
}

func serve(t *testing.T, b Builder, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(New(b, nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(t, &stubBuilder{}, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetDashboard(t *testing.T) {
	b := &stubBuilder{}
	w := serve(t, b, "/api/dashboard?rsi_length=21&rsi_oversold=25.5")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 21, b.last.RSILength)
	assert.Equal(t, 25.5, b.last.RSIOversold)
	assert.Equal(t, 26, b.last.MACDSlow)

	var resp struct {
		Currency string `json:"currency"`
		Stocks   struct {
			Rows []map[string]interface{} `json:"rows"`
		} `json:"stocks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EUR", resp.Currency)
	require.Len(t, resp.Stocks.Rows, 2)
	assert.Equal(t, "ACME.PA", resp.Stocks.Rows[0]["ticker"])
	assert.Nil(t, resp.Stocks.Rows[0]["rsi"])
	assert.Equal(t, true, resp.Stocks.Rows[1]["total"])
}

func TestGetDashboard_InvalidParams(t *testing.T) {
	tests := []struct {
		name, query, want string
	}{
		{"not an integer", "rsi_length=abc", "rsi_length must be an integer"},
		{"not a number", "rsi_overbought=high", "rsi_overbought must be a number"},
		{"out of range", "rsi_length=1", "rsi_length must be within [2,50]"},
		{"slow too large", "macd_slow=101", "macd_slow must be within [1,100]"},
		{"NaN threshold", "rsi_oversold=NaN", "rsi_oversold must be within [1,100]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, &stubBuilder{}, "/api/dashboard?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestGetDashboard_BuildError(t *testing.T) {
	w := serve(t, &stubBuilder{err: errors.New("boom")}, "/api/dashboard")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "boom")
}

func TestGetPrompt(t *testing.T) {
	w := serve(t, &stubBuilder{}, "/api/prompt")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Here is my portfolio.", w.Body.String())
}

func TestCharts(t *testing.T) {
	pngMagic := "\x89PNG"

	w := serve(t, &stubBuilder{}, "/api/charts/combined.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngMagic, w.Body.String()[:4])

	w = serve(t, &stubBuilder{}, "/api/charts/acme.pa.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngMagic, w.Body.String()[:4])

	w = serve(t, &stubBuilder{}, "/api/charts/NOPE.png")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no chart for ticker: NOPE")

	w = serve(t, &stubBuilder{}, "/api/charts/ACME.PA")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), nil)
	}()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
