// Package server exposes the dashboard over a small JSON/PNG HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"PortfolioSentinel/internal/common"
	"PortfolioSentinel/internal/model"
)

// Builder builds a dashboard on demand.
type Builder interface {
	Build(ctx context.Context, p model.Params) (*model.Dashboard, error)
	DefaultParams() model.Params
}

// Handler serves the API routes.
type Handler struct {
	builder Builder
	logger  *common.Logger
}

// New creates a handler.
func New(builder Builder, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Handler{builder: builder, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/dashboard", h.GetDashboard)
	r.GET("/api/prompt", h.GetPrompt)
	r.GET("/api/charts/combined.png", h.GetCombinedChart)
	r.GET("/api/charts/:ticker", h.GetAssetChart)
}

// NewRouter returns a gin engine with recovery, request logging and the
// API routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))
	h.RegisterRoutes(r)
	return r
}

func requestLogger(logger *common.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *common.Logger) error {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("http server stopped")
	return nil
}
