package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/report"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDashboard returns the full dashboard. Indicator parameters may be
// overridden with query parameters named like their config keys.
func (h *Handler) GetDashboard(c *gin.Context) {
	d, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) GetPrompt(c *gin.Context) {
	d, ok := h.build(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, d.Prompt)
}

func (h *Handler) GetCombinedChart(c *gin.Context) {
	d, ok := h.build(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.RenderCombinedChart(d.Combined, d.Currency, &buf); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// GetAssetChart serves /api/charts/{ticker}.png.
func (h *Handler) GetAssetChart(c *gin.Context) {
	ticker, ok := strings.CutSuffix(c.Param("ticker"), ".png")
	if !ok || strings.TrimSpace(ticker) == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "charts are served as /api/charts/{ticker}.png"})
		return
	}

	d, ok := h.build(c)
	if !ok {
		return
	}
	for _, chart := range d.Charts() {
		if !strings.EqualFold(chart.Ticker, ticker) {
			continue
		}
		var buf bytes.Buffer
		if err := report.RenderAssetChart(chart, &buf); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no chart for ticker: " + strings.ToUpper(ticker)})
}

func (h *Handler) build(c *gin.Context) (*model.Dashboard, bool) {
	p, err := paramsFromQuery(c, h.builder.DefaultParams())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	d, err := h.builder.Build(c.Request.Context(), p)
	if err != nil {
		h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("dashboard build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return d, true
}

func paramsFromQuery(c *gin.Context, p model.Params) (model.Params, error) {
	ints := []struct {
		key string
		dst *int
	}{
		{"rsi_length", &p.RSILength},
		{"macd_fast", &p.MACDFast},
		{"macd_slow", &p.MACDSlow},
		{"macd_signal", &p.MACDSignal},
	}
	for _, f := range ints {
		raw := strings.TrimSpace(c.Query(f.key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%s must be an integer", f.key)
		}
		*f.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"rsi_oversold", &p.RSIOversold},
		{"rsi_overbought", &p.RSIOverbought},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(c.Query(f.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("%s must be a number", f.key)
		}
		*f.dst = v
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
