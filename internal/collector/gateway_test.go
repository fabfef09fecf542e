package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func bars(closes ...float64) []model.OHLCV {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func TestCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := NewCache[string, int](time.Hour, clock.Now)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(59 * time.Minute)
	_, ok = c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_DisabledAndPurge(t *testing.T) {
	c := NewCache[string, int](0, nil)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c = NewCache[string, int](time.Minute, nil)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache[int, int](time.Minute, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%5, i)
			c.Get(i % 5)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, c.Len())
}

func TestGateway_FetchHistoryCaches(t *testing.T) {
	clock := newFakeClock()
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"AAPL": bars(1, 2, 3)}}
	g := NewGateway(mock, common.NewSilentLogger(), WithClock(clock.Now))
	ctx := context.Background()

	s := g.FetchHistory(ctx, "AAPL", model.Window3mo)
	require.Len(t, s.Bars, 3)
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, clock.Now(), s.FetchedAt)

	g.FetchHistory(ctx, "AAPL", model.Window3mo)
	assert.Equal(t, 1, mock.Calls("AAPL"))

	// different window is a different key
	g.FetchHistory(ctx, "AAPL", model.Window1y)
	assert.Equal(t, 2, mock.Calls("AAPL"))

	clock.Advance(DefaultCacheTTL)
	g.FetchHistory(ctx, "AAPL", model.Window3mo)
	assert.Equal(t, 3, mock.Calls("AAPL"))
}

func TestGateway_FailedHistoryIsEmptyAndCached(t *testing.T) {
	clock := newFakeClock()
	mock := &MockFetcher{Errors: map[string]error{"BAD": errors.New("boom")}}
	g := NewGateway(mock, common.NewSilentLogger(), WithClock(clock.Now))
	ctx := context.Background()

	s := g.FetchHistory(ctx, "BAD", model.Window3mo)
	assert.True(t, s.Empty())
	g.FetchHistory(ctx, "BAD", model.Window3mo)
	assert.Equal(t, 1, mock.Calls("BAD"))

	clock.Advance(2 * time.Hour)
	g.FetchHistory(ctx, "BAD", model.Window3mo)
	assert.Equal(t, 2, mock.Calls("BAD"))
}

func TestGateway_CancelledFetchNotCached(t *testing.T) {
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"AAPL": bars(1, 2, 3)}}
	g := NewGateway(mock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, g.FetchHistory(ctx, "AAPL", model.Window3mo).Empty())

	s := g.FetchHistory(context.Background(), "AAPL", model.Window3mo)
	assert.Len(t, s.Bars, 3)
	assert.Equal(t, 2, mock.Calls("AAPL"))
}

func TestGateway_InvalidWindowUsesDefault(t *testing.T) {
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"AAPL": bars(1)}}
	g := NewGateway(mock, nil)
	s := g.FetchHistory(context.Background(), "AAPL", model.Window("weird"))
	assert.Equal(t, model.DefaultWindow, s.Window)
}

func TestGateway_FetchCurrency(t *testing.T) {
	mock := &MockFetcher{Currencies: map[string]string{"AAPL": "USD", "BLANK": " "}}
	g := NewGateway(mock, nil)
	ctx := context.Background()

	code, ok := g.FetchCurrency(ctx, "AAPL")
	assert.True(t, ok)
	assert.Equal(t, "USD", code)

	code, ok = g.FetchCurrency(ctx, "UNKNOWN")
	assert.False(t, ok)
	assert.Equal(t, ReportingCurrency, code)

	_, ok = g.FetchCurrency(ctx, "BLANK")
	assert.False(t, ok)

	g.FetchCurrency(ctx, "AAPL")
	assert.Equal(t, 1, mock.Calls("currency:AAPL"))
}

func TestGateway_FetchSpotRate(t *testing.T) {
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{
		"EURUSD=X": bars(1.07, 1.08, 1.085),
		"ZERO=X":   bars(1.0, 0),
	}}
	g := NewGateway(mock, nil)
	ctx := context.Background()

	rate, ok := g.FetchSpotRate(ctx, "EURUSD=X")
	require.True(t, ok)
	assert.Equal(t, 1.085, rate)

	_, ok = g.FetchSpotRate(ctx, "ZERO=X")
	assert.False(t, ok)

	_, ok = g.FetchSpotRate(ctx, "MISSING=X")
	assert.False(t, ok)
}

func TestMockFetcher_GeneratedBars(t *testing.T) {
	mock := &MockFetcher{Price: 100}
	got, err := mock.FetchHistory(context.Background(), "ANY", model.Window3mo)
	require.NoError(t, err)
	assert.Len(t, got, 63)
	assert.Equal(t, "mock", mock.Name())
}
