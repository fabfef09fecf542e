package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/config"
	"PortfolioSentinel/internal/currency"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/portfolio"
)

// Commands lists every subcommand of the binary.
var Commands = []subcommands.Command{
	&reportCmd{},
	&promptCmd{},
	&chartsCmd{},
	&serveCmd{},
	&watchCmd{},
}

var (
	configPath string
	stdout     io.Writer = os.Stdout
)

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return config.DefaultPath
}

// app is the wired dependency graph shared by the subcommands.
type app struct {
	cfg     *config.Config
	logger  *common.Logger
	gateway *collector.Gateway
	service *portfolio.Service
}

func newApp(path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	logger := common.NewLogger(cfg.LogLevel)

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		opts := []collector.YahooOption{
			collector.WithProxy(cfg.DataSource.Proxy),
			collector.WithTimeout(cfg.DataSource.Timeout),
			collector.WithRateLimit(cfg.DataSource.RateLimit),
			collector.WithLogger(logger),
		}
		if cfg.DataSource.BaseURL != "" {
			opts = append(opts, collector.WithBaseURL(cfg.DataSource.BaseURL))
		}
		fetcher = collector.NewYahooFetcher(opts...)
	}
	logger.Info().Str("provider", fetcher.Name()).Msg("data source")

	gateway := collector.NewGateway(fetcher, logger, collector.WithCacheTTL(cfg.DataSource.CacheTTL))
	resolver := &currency.HeuristicResolver{Rules: cfg.CurrencyRules(), Source: gateway}
	agg := portfolio.New(gateway, resolver,
		portfolio.WithParams(cfg.Indicators),
		portfolio.WithWindow(cfg.DataSource.Window),
		portfolio.WithWorkers(cfg.DataSource.Workers),
		portfolio.WithLogger(logger),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		gateway: gateway,
		service: portfolio.NewService(agg, cfg.LoadHoldings),
	}, nil
}

// paramFlags overrides the configured indicator parameters. Zero means
// "keep the configured value".
type paramFlags struct {
	rsiLength     int
	rsiOversold   float64
	rsiOverbought float64
	macdFast      int
	macdSlow      int
	macdSignal    int
}

func (p *paramFlags) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.rsiLength, "rsi-length", 0, "RSI period [2,50].")
	f.Float64Var(&p.rsiOversold, "oversold", 0, "RSI oversold threshold [1,100].")
	f.Float64Var(&p.rsiOverbought, "overbought", 0, "RSI overbought threshold [1,100].")
	f.IntVar(&p.macdFast, "macd-fast", 0, "MACD fast EMA period [1,50].")
	f.IntVar(&p.macdSlow, "macd-slow", 0, "MACD slow EMA period [1,100].")
	f.IntVar(&p.macdSignal, "macd-signal", 0, "MACD signal EMA period [1,50].")
}

func (p *paramFlags) apply(base model.Params) model.Params {
	if p.rsiLength != 0 {
		base.RSILength = p.rsiLength
	}
	if p.rsiOversold != 0 {
		base.RSIOversold = p.rsiOversold
	}
	if p.rsiOverbought != 0 {
		base.RSIOverbought = p.rsiOverbought
	}
	if p.macdFast != 0 {
		base.MACDFast = p.macdFast
	}
	if p.macdSlow != 0 {
		base.MACDSlow = p.macdSlow
	}
	if p.macdSignal != 0 {
		base.MACDSignal = p.macdSignal
	}
	return base
}
