package portfolio

import (
	"context"
	"fmt"

	"PortfolioSentinel/internal/currency"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/report"
)

// BuildDashboard runs both sections with p, the combined series over all
// holdings and the analysis prompt.
func (a *Aggregator) BuildDashboard(ctx context.Context, holdings model.Holdings, p model.Params) (*model.Dashboard, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	stocks := a.evaluateAll(ctx, holdings.Stocks, p)
	cryptos := a.evaluateAll(ctx, holdings.Cryptos, p)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &model.Dashboard{
		GeneratedAt:    a.now(),
		Currency:       currency.Fallback,
		Params:         p,
		Stocks:         section(model.SectionStocks, stocks),
		Cryptos:        section(model.SectionCryptos, cryptos),
		RatesAvailable: a.session(ctx).Rates().Available,
	}

	all := make([]asset, 0, len(stocks)+len(cryptos))
	all = append(all, stocks...)
	all = append(all, cryptos...)
	if combined, ok := combine(all); ok {
		d.Combined = combined
	}

	d.Warnings = append(d.Warnings, d.Stocks.Warnings...)
	d.Warnings = append(d.Warnings, d.Cryptos.Warnings...)
	if !d.RatesAvailable {
		d.Warnings = append(d.Warnings, "FX rates unavailable: values are shown unconverted")
	}

	d.Prompt = report.ComposeSummary(d.Stocks.Rows, d.Cryptos.Rows)

	a.logger.Info().
		Int("stocks", len(holdings.Stocks)).
		Int("cryptos", len(holdings.Cryptos)).
		Int("warnings", len(d.Warnings)).
		Msg("dashboard built")
	return d, nil
}
