package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"

	"PortfolioSentinel/internal/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `sentinel serve [-addr :8080]

  Serves /health, /api/dashboard, /api/prompt, /api/charts/combined.png
  and /api/charts/{ticker}.png. Indicator parameters can be overridden
  per request with query parameters (rsi_length, rsi_oversold, ...).
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (default from config server.addr).")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	addr := c.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.New(a.service, a.logger))
	if err := server.Run(ctx, addr, router, a.logger); err != nil {
		a.logger.Error().Err(err).Msg("http server")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
