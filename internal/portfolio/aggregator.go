// Package portfolio runs the per-holding pipeline and assembles section
// tables, the combined value series and the dashboard.
package portfolio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"PortfolioSentinel/internal/calculator"
	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/currency"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/strategy"
)

// DefaultWorkers bounds concurrent per-ticker work.
const DefaultWorkers = 4

// MarketData is the subset of the gateway the aggregator needs.
type MarketData interface {
	FetchHistory(ctx context.Context, ticker string, window model.Window) model.PriceSeries
	FetchSpotRate(ctx context.Context, pair string) (float64, bool)
}

// Aggregator builds portfolio tables. FX rates are loaded once per session,
// on first use, and kept until ResetSession.
type Aggregator struct {
	market   MarketData
	resolver currency.Resolver
	logger   *common.Logger
	params   model.Params
	window   model.Window
	workers  int
	now      func() time.Time

	mu        sync.Mutex
	converter *currency.Converter
}

// Option configures the aggregator
type Option func(*Aggregator)

// WithParams sets the parameters used by BuildSection and BuildCombinedSeries.
func WithParams(p model.Params) Option {
	return func(a *Aggregator) { a.params = p }
}

// WithWindow sets the history lookback.
func WithWindow(w model.Window) Option {
	return func(a *Aggregator) {
		if w.Valid() {
			a.window = w
		}
	}
}

// WithWorkers bounds the number of holdings processed concurrently.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithClock replaces time.Now for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// New creates an aggregator over market data and a currency resolver.
func New(market MarketData, resolver currency.Resolver, opts ...Option) *Aggregator {
	a := &Aggregator{
		market:   market,
		resolver: resolver,
		logger:   common.NewSilentLogger(),
		params:   model.DefaultParams(),
		window:   model.DefaultWindow,
		workers:  DefaultWorkers,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Params returns the default parameters of the aggregator.
func (a *Aggregator) Params() model.Params { return a.params }

// ResetSession drops the loaded FX rates so the next build fetches them again.
func (a *Aggregator) ResetSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.converter = nil
}

func (a *Aggregator) session(ctx context.Context) *currency.Converter {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.converter != nil {
		return a.converter
	}
	rates := currency.LoadRates(ctx, a.market, a.logger)
	conv := currency.NewConverter(a.resolver, rates, a.logger)
	if ctx.Err() == nil {
		a.converter = conv
	}
	return conv
}

// asset is the outcome of the pipeline for one holding.
type asset struct {
	holding model.Holding
	series  model.PriceSeries
	factor  float64
	row     model.Row
	chart   *model.AssetChart
	warning []string
}

func (a *Aggregator) evaluate(ctx context.Context, conv *currency.Converter, h model.Holding, p model.Params) asset {
	if h.Name == "" {
		h.Name = h.Ticker
	}
	out := asset{holding: h}

	out.series = a.market.FetchHistory(ctx, h.Ticker, a.window)
	frame := calculator.Compute(out.series, p)
	snap := frame.Latest()
	res := strategy.Evaluate(snap, strategy.ThresholdsFrom(p))

	factor, code, warning := conv.Factor(ctx, h.Ticker)
	out.factor = factor
	if warning != "" {
		out.warning = append(out.warning, warning)
	}
	if out.series.Empty() {
		out.warning = append(out.warning, fmt.Sprintf("%s: no price history available", h.Ticker))
	}

	out.row = model.Row{
		Name:       h.Name,
		Ticker:     h.Ticker,
		Quantity:   h.Quantity,
		Price:      snap.Close,
		Currency:   code,
		Value:      snap.Close * h.Quantity * factor,
		RSI:        snap.RSI,
		RSISignal:  res.RSISignal,
		MACD:       snap.MACD,
		MACDSignal: res.MACDSignal,
		Strategy:   res.Strategy,
	}

	if !out.series.Empty() {
		points := make([]model.ChartPoint, frame.Len())
		for i, b := range frame.Bars {
			points[i] = model.ChartPoint{Time: b.Time, Close: b.Close, SMA20: frame.SMA20[i], SMA50: frame.SMA50[i]}
		}
		out.chart = &model.AssetChart{Name: h.Name, Ticker: h.Ticker, Points: points}
	}
	return out
}

// evaluateAll runs the pipeline over holdings with bounded concurrency.
// Results keep the order of holdings.
func (a *Aggregator) evaluateAll(ctx context.Context, holdings []model.Holding, p model.Params) []asset {
	conv := a.session(ctx)
	results := make([]asset, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, h := range holdings {
		i, h := i, h
		g.Go(func() error {
			results[i] = a.evaluate(gctx, conv, h, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// SumDefined adds the finite values, ignoring NaN. An empty input sums to 0.
func SumDefined(values []float64) float64 {
	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return 0
	}
	return floats.Sum(defined)
}

func section(kind model.SectionKind, results []asset) model.Section {
	s := model.Section{Kind: kind, Rows: make([]model.Row, 0, len(results)+1)}
	values := make([]float64, 0, len(results))
	for _, r := range results {
		s.Rows = append(s.Rows, r.row)
		values = append(values, r.row.Value)
		if r.chart != nil {
			s.Charts = append(s.Charts, *r.chart)
		}
		s.Warnings = append(s.Warnings, r.warning...)
	}
	s.Rows = append(s.Rows, model.TotalRow(SumDefined(values)))
	return s
}

// BuildSection evaluates holdings and returns their rows in input order
// followed by the Total row.
func (a *Aggregator) BuildSection(ctx context.Context, kind model.SectionKind, holdings []model.Holding) model.Section {
	return section(kind, a.evaluateAll(ctx, holdings, a.params))
}

// BuildCombinedSeries returns the portfolio value over time. It reports
// false when no holding has any history.
func (a *Aggregator) BuildCombinedSeries(ctx context.Context, holdings []model.Holding) (model.CombinedSeries, bool) {
	return combine(a.evaluateAll(ctx, holdings, a.params))
}
