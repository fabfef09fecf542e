package collector

import (
	"context"
	"math"
	"strings"
	"time"

	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/model"
)

// DefaultCacheTTL is how long fetched history and currency codes are reused.
const DefaultCacheTTL = time.Hour

// ReportingCurrency is the currency every value is converted into.
const ReportingCurrency = "EUR"

type historyKey struct {
	Ticker string
	Window model.Window
}

type currencyResult struct {
	Code string
	OK   bool
}

// Gateway wraps a Fetcher with caching and never-fail semantics:
// provider errors are logged and reported as empty results.
type Gateway struct {
	fetcher  Fetcher
	logger   *common.Logger
	now      func() time.Time
	ttl      time.Duration
	history  *Cache[historyKey, model.PriceSeries]
	currency *Cache[string, currencyResult]
}

// GatewayOption configures the gateway
type GatewayOption func(*Gateway)

// WithCacheTTL sets the cache lifetime; zero disables caching.
func WithCacheTTL(ttl time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.ttl = ttl
	}
}

// WithClock replaces time.Now, used for cache expiry and FetchedAt.
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.now = now
	}
}

// NewGateway creates a gateway in front of fetcher.
func NewGateway(fetcher Fetcher, logger *common.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	g := &Gateway{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		ttl:     DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.history = NewCache[historyKey, model.PriceSeries](g.ttl, g.now)
	g.currency = NewCache[string, currencyResult](g.ttl, g.now)
	return g
}

// Provider returns the underlying fetcher name.
func (g *Gateway) Provider() string { return g.fetcher.Name() }

// FetchHistory returns the daily history of ticker. An unavailable history
// is an empty series, and is cached like any other result.
func (g *Gateway) FetchHistory(ctx context.Context, ticker string, window model.Window) model.PriceSeries {
	if !window.Valid() {
		window = model.DefaultWindow
	}
	key := historyKey{Ticker: ticker, Window: window}
	if series, ok := g.history.Get(key); ok {
		return series
	}

	bars, err := g.fetcher.FetchHistory(ctx, ticker, window)
	if err != nil {
		g.logger.Warn().Err(err).Str("ticker", ticker).Str("window", string(window)).Msg("history unavailable")
		bars = nil
	}
	series := model.PriceSeries{Symbol: ticker, Window: window, Bars: bars, FetchedAt: g.now()}

	// a cancelled request says nothing about the provider
	if ctx.Err() == nil {
		g.history.Set(key, series)
	}
	return series
}

// FetchCurrency returns the quote currency of ticker, or the reporting
// currency and false when the provider cannot tell.
func (g *Gateway) FetchCurrency(ctx context.Context, ticker string) (string, bool) {
	if res, ok := g.currency.Get(ticker); ok {
		return res.Code, res.OK
	}

	res := currencyResult{Code: ReportingCurrency}
	code, err := g.fetcher.FetchCurrency(ctx, ticker)
	code = strings.TrimSpace(code)
	switch {
	case err != nil:
		g.logger.Warn().Err(err).Str("ticker", ticker).Msg("currency unavailable")
	case code == "":
		g.logger.Warn().Str("ticker", ticker).Msg("provider returned no currency")
	default:
		res = currencyResult{Code: code, OK: true}
	}

	if ctx.Err() == nil {
		g.currency.Set(ticker, res)
	}
	return res.Code, res.OK
}

// FetchSpotRate returns the last close of an FX pair such as "EURUSD=X"
// over a five day window.
func (g *Gateway) FetchSpotRate(ctx context.Context, pair string) (float64, bool) {
	series := g.FetchHistory(ctx, pair, model.Window5d)
	if series.Empty() {
		return 0, false
	}
	rate := series.Bars[len(series.Bars)-1].Close
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		g.logger.Warn().Str("pair", pair).Float64("rate", rate).Msg("invalid spot rate")
		return 0, false
	}
	return rate, true
}
