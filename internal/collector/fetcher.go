package collector

import (
	"context"

	"PortfolioSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data from a provider.
type Fetcher interface {
	// FetchHistory returns daily bars for symbol over window, oldest first.
	FetchHistory(ctx context.Context, symbol string, window model.Window) ([]model.OHLCV, error)
	// FetchCurrency returns the ISO code the symbol is quoted in.
	FetchCurrency(ctx context.Context, symbol string) (string, error)
	Name() string
}
