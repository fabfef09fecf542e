package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PortfolioSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without explicit bars get a generated series around Price,
// unless Price is zero, in which case the history is empty.
type MockFetcher struct {
	Price      float64
	Bars       map[string][]model.OHLCV
	Currencies map[string]string
	Errors     map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) record(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
}

// Calls returns how many times symbol was requested.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func (m *MockFetcher) FetchHistory(ctx context.Context, symbol string, window model.Window) ([]model.OHLCV, error) {
	m.record(symbol)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	if m.Price == 0 {
		return nil, nil
	}
	return generateMockBars(m.Price, windowDays(window)), nil
}

func (m *MockFetcher) FetchCurrency(ctx context.Context, symbol string) (string, error) {
	m.record("currency:" + symbol)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if code, ok := m.Currencies[symbol]; ok {
		return code, nil
	}
	return "", fmt.Errorf("mock: no currency for %s", symbol)
}

func windowDays(w model.Window) int {
	switch w {
	case model.Window5d:
		return 5
	case model.Window1mo:
		return 21
	case model.Window6mo:
		return 126
	case model.Window1y:
		return 252
	case model.Window2y:
		return 504
	default:
		return 63
	}
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
