package currency

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"

	"PortfolioSentinel/internal/common"
)

// Fallback is assumed when a ticker's currency cannot be resolved.
const Fallback = "EUR"

// Resolver determines the quote currency of a ticker. A non-empty warning
// means the code is a fallback.
type Resolver interface {
	Resolve(ctx context.Context, ticker string) (code string, warning string)
}

// CurrencySource asks the market data provider for a ticker's currency.
type CurrencySource interface {
	FetchCurrency(ctx context.Context, ticker string) (string, bool)
}

// HeuristicResolver applies rules first and only asks the provider for
// tickers no rule matches.
type HeuristicResolver struct {
	Rules  []Rule
	Source CurrencySource
}

// Resolve implements Resolver.
func (h *HeuristicResolver) Resolve(ctx context.Context, ticker string) (string, string) {
	if code, ok := MatchRules(h.Rules, ticker); ok {
		if valid(code) {
			return code, ""
		}
		return Fallback, fmt.Sprintf("%s: rule currency %q is not a known ISO code, assuming %s", ticker, code, Fallback)
	}
	if h.Source == nil {
		return Fallback, fmt.Sprintf("%s: currency unknown, assuming %s", ticker, Fallback)
	}
	code, ok := h.Source.FetchCurrency(ctx, ticker)
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ok || !valid(code) {
		return Fallback, fmt.Sprintf("%s: currency unavailable, assuming %s", ticker, Fallback)
	}
	return code, ""
}

func valid(code string) bool {
	return code != "" && money.GetCurrency(code) != nil
}

// Converter turns native prices into EUR using a resolver and session rates.
type Converter struct {
	resolver Resolver
	rates    Rates
	logger   *common.Logger
}

// NewConverter creates a converter.
func NewConverter(resolver Resolver, rates Rates, logger *common.Logger) *Converter {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Converter{resolver: resolver, rates: rates, logger: logger}
}

// Rates returns the session rates.
func (c *Converter) Rates() Rates { return c.rates }

// Resolve returns the ticker's quote currency and a warning when it fell back.
func (c *Converter) Resolve(ctx context.Context, ticker string) (string, string) {
	code, warning := c.resolver.Resolve(ctx, ticker)
	if warning != "" {
		c.logger.Warn().Str("ticker", ticker).Str("currency", code).Msg(warning)
	}
	return code, warning
}

// Factor returns the multiplier from the ticker's currency into EUR along
// with the resolved code and any resolution warning.
func (c *Converter) Factor(ctx context.Context, ticker string) (float64, string, string) {
	code, warning := c.Resolve(ctx, ticker)
	return c.rates.Factor(code), code, warning
}
