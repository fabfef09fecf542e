package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/model"
)

const (
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	DefaultTimeout      = 30 * time.Second
	DefaultRateLimit    = 5 // requests per second
)

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
type YahooFetcher struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger

	SymbolMap map[string]string // maps configured ticker to Yahoo symbol

	mu         sync.Mutex
	currencies map[string]string // meta currency seen in history responses
}

// YahooOption configures the fetcher
type YahooOption func(*YahooFetcher)

// WithBaseURL sets the API base URL
func WithBaseURL(baseURL string) YahooOption {
	return func(f *YahooFetcher) {
		f.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithProxy routes requests through an HTTP(S) proxy. Invalid URLs are ignored.
func WithProxy(proxyURL string) YahooOption {
	return func(f *YahooFetcher) {
		if proxyURL == "" {
			return
		}
		if u, err := url.Parse(proxyURL); err == nil {
			f.httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) YahooOption {
	return func(f *YahooFetcher) {
		if timeout > 0 {
			f.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit sets the request rate limit
func WithRateLimit(requestsPerSecond int) YahooOption {
	return func(f *YahooFetcher) {
		if requestsPerSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) YahooOption {
	return func(f *YahooFetcher) {
		f.logger = logger
	}
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(opts ...YahooOption) *YahooFetcher {
	f := &YahooFetcher{
		baseURL:    DefaultYahooBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
		currencies: make(map[string]string),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Price arrays contain nulls for non-trading sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency  string `json:"currency"`
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartMeta struct {
	Currency  string
	GMTOffset int64
}

func value(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

// tradingDay maps a bar timestamp to its exchange-local calendar date at UTC midnight.
func tradingDay(ts, gmtOffset int64) time.Time {
	local := time.Unix(ts+gmtOffset, 0).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, rng model.Window) ([]model.OHLCV, chartMeta, error) {
	var meta chartMeta
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, meta, fmt.Errorf("rate limit wait: %w", err)
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.baseURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(string(rng)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, meta, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	f.logger.Debug().Str("symbol", symbol).Str("range", string(rng)).Msg("yahoo chart request")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, meta, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, meta, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		f.logger.Warn().Str("symbol", symbol).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("yahoo non-OK response")
		return nil, meta, fmt.Errorf("yahoo: status %d for %s", resp.StatusCode, symbol)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, meta, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, meta, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, meta, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	meta = chartMeta{Currency: result.Meta.Currency, GMTOffset: result.Meta.GMTOffset}
	if len(result.Indicators.Quote) == 0 {
		return nil, meta, nil
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   tradingDay(ts, meta.GMTOffset),
			Open:   value(quote.Open, i),
			High:   value(quote.High, i),
			Low:    value(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: value(quote.Volume, i),
		})
	}

	return dedupeBars(bars), meta, nil
}

// dedupeBars sorts bars by time and keeps the last bar of each day.
func dedupeBars(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, window model.Window) ([]model.OHLCV, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("yahoo: unsupported window %q", window)
	}
	bars, meta, err := f.fetchChart(ctx, symbol, window)
	if err == nil {
		f.rememberCurrency(symbol, meta.Currency)
	}
	return bars, err
}

func (f *YahooFetcher) rememberCurrency(symbol, code string) {
	if code == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currencies[symbol] = code
}

// FetchCurrency returns the quote currency of symbol. A currency already
// seen in a history response is reused; otherwise a short chart is requested.
func (f *YahooFetcher) FetchCurrency(ctx context.Context, symbol string) (string, error) {
	f.mu.Lock()
	code, ok := f.currencies[symbol]
	f.mu.Unlock()
	if ok {
		return code, nil
	}

	_, meta, err := f.fetchChart(ctx, symbol, model.Window5d)
	if err != nil {
		return "", err
	}
	if meta.Currency == "" {
		return "", fmt.Errorf("yahoo: no currency for %s", symbol)
	}
	f.rememberCurrency(symbol, meta.Currency)
	return meta.Currency, nil
}
