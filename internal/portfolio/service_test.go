package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func TestService_Build(t *testing.T) {
	market := &fakeMarket{bars: map[string][]model.OHLCV{"A.PA": daily(10, 12)}, rates: eurRates()}
	svc := NewService(newTestAggregator(market), func() (model.Holdings, error) {
		return model.Holdings{Stocks: []model.Holding{{Ticker: "A.PA", Quantity: 2}}}, nil
	})

	d, err := svc.Build(context.Background(), svc.DefaultParams())
	require.NoError(t, err)
	assert.InDelta(t, 24.0, d.Stocks.Total().Value, 1e-9)
	assert.Empty(t, d.Warnings)
}

func TestService_MalformedHoldings(t *testing.T) {
	market := &fakeMarket{rates: eurRates()}
	svc := NewService(newTestAggregator(market), func() (model.Holdings, error) {
		return model.Holdings{}, errors.New("parse holdings: bad json")
	})

	d, err := svc.Build(context.Background(), model.DefaultParams())
	require.NoError(t, err)
	require.Len(t, d.Stocks.Rows, 1)
	require.Len(t, d.Cryptos.Rows, 1)
	assert.Equal(t, 0.0, d.Stocks.Total().Value)
	require.NotEmpty(t, d.Warnings)
	assert.Equal(t, "holdings: parse holdings: bad json", d.Warnings[0])
}

func TestService_NewSession(t *testing.T) {
	market := &fakeMarket{rates: eurRates()}
	svc := NewService(newTestAggregator(market), func() (model.Holdings, error) { return model.Holdings{}, nil })
	ctx := context.Background()

	_, err := svc.Build(ctx, model.DefaultParams())
	require.NoError(t, err)
	svc.NewSession()
	_, err = svc.Build(ctx, model.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 4, market.rateCalls)
}
