package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/model"
)

// DefaultRefreshTimeout bounds one scheduled refresh.
const DefaultRefreshTimeout = 5 * time.Minute

// Builder rebuilds the dashboard. NewSession makes the next build fetch
// fresh FX rates.
type Builder interface {
	Build(ctx context.Context, p model.Params) (*model.Dashboard, error)
	DefaultParams() model.Params
	NewSession()
}

// Publisher delivers a dashboard, e.g. to a Telegram chat.
type Publisher interface {
	SendDashboard(ctx context.Context, d *model.Dashboard) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic portfolio refresh.
type Scheduler struct {
	Cron      *cron.Cron
	Builder   Builder
	Publisher Publisher
	Ctx       context.Context
	Timeout   time.Duration

	logger *common.Logger
	mu     sync.Mutex // one refresh at a time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, b Builder, p Publisher, logger *common.Logger) *Scheduler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Builder:   b,
		Publisher: p,
		Ctx:       ctx,
		Timeout:   DefaultRefreshTimeout,
		logger:    logger,
	}
}

// Register schedules the refresh job. refreshCron uses the six-field
// format with seconds.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.logger.Info().Str("cron", refreshCron).Msg("refresh task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refresh()
}

func (s *Scheduler) refresh() {
	if !s.mu.TryLock() {
		s.logger.Warn().Msg("refresh already running, skipping")
		return
	}
	defer s.mu.Unlock()

	s.logger.Info().Msg("running portfolio refresh")
	ctx, cancel := context.WithTimeout(s.Ctx, s.Timeout)
	defer cancel()

	s.Builder.NewSession()
	d, err := s.Builder.Build(ctx, s.Builder.DefaultParams())
	if err != nil {
		s.logger.Error().Err(err).Msg("refresh build failed")
		s.trySend(ctx, fmt.Sprintf("❌ Portfolio refresh failed: %v", err))
		return
	}
	if err := s.Publisher.SendDashboard(ctx, d); err != nil {
		s.logger.Error().Err(err).Msg("send dashboard")
		return
	}
	s.logger.Info().
		Int("stocks", len(d.Stocks.Holdings())).
		Int("cryptos", len(d.Cryptos.Holdings())).
		Int("warnings", len(d.Warnings)).
		Msg("portfolio refresh delivered")
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Publisher.SendWithRetry(ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
