package portfolio

import (
	"context"
	"fmt"

	"PortfolioSentinel/internal/model"
)

// HoldingsLoader returns the current holdings. It is called on every build
// so edits to the holdings file are picked up without a restart.
type HoldingsLoader func() (model.Holdings, error)

// Service is what the delivery surfaces (CLI, HTTP, Telegram, cron) call.
type Service struct {
	agg  *Aggregator
	load HoldingsLoader
}

// NewService creates a service over an aggregator.
func NewService(agg *Aggregator, load HoldingsLoader) *Service {
	return &Service{agg: agg, load: load}
}

// DefaultParams returns the configured indicator parameters.
func (s *Service) DefaultParams() model.Params { return s.agg.Params() }

// Build loads holdings and builds a dashboard with p. Holdings that fail to
// load produce an empty dashboard whose warnings carry the error.
func (s *Service) Build(ctx context.Context, p model.Params) (*model.Dashboard, error) {
	holdings, loadErr := s.load()
	if loadErr != nil {
		s.agg.logger.Error().Err(loadErr).Msg("holdings unavailable")
		holdings = model.Holdings{}
	}

	d, err := s.agg.BuildDashboard(ctx, holdings, p)
	if err != nil {
		return nil, err
	}
	if loadErr != nil {
		d.Warnings = append([]string{fmt.Sprintf("holdings: %v", loadErr)}, d.Warnings...)
	}
	return d, nil
}

// NewSession forgets the FX rates so the next build fetches fresh ones.
func (s *Service) NewSession() { s.agg.ResetSession() }
