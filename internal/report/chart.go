package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"PortfolioSentinel/internal/model"
)

// ErrNotEnoughPoints is returned when a chart has fewer than two defined
// points to draw.
var ErrNotEnoughPoints = errors.New("need at least 2 data points")

const (
	chartWidth  = 900
	chartHeight = 400
)

// definedSeries builds a time series from the finite points only.
func definedSeries(name string, style chart.Style, times []time.Time, values []float64) (chart.TimeSeries, bool) {
	s := chart.TimeSeries{Name: name, Style: style}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		s.XValues = append(s.XValues, times[i])
		s.YValues = append(s.YValues, v)
	}
	return s, len(s.XValues) >= 2
}

func dateFormatter(v interface{}) string {
	if t, ok := v.(float64); ok {
		return chart.TimeFromFloat64(t).Format("02 Jan")
	}
	return ""
}

func render(graph chart.Chart, w io.Writer) error {
	graph.Width = chartWidth
	graph.Height = chartHeight
	graph.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10}}
	graph.XAxis = chart.XAxis{
		TickPosition:   chart.TickPositionBetweenTicks,
		ValueFormatter: dateFormatter,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// RenderAssetChart draws the close price against SMA20 and SMA50 as PNG.
func RenderAssetChart(c model.AssetChart, w io.Writer) error {
	times := make([]time.Time, len(c.Points))
	closes := make([]float64, len(c.Points))
	sma20 := make([]float64, len(c.Points))
	sma50 := make([]float64, len(c.Points))
	for i, p := range c.Points {
		times[i] = p.Time
		closes[i] = p.Close
		sma20[i] = p.SMA20
		sma50[i] = p.SMA50
	}

	closeSeries, ok := definedSeries("Close", chart.Style{
		StrokeColor: drawing.ColorFromHex("2563eb"),
		StrokeWidth: 2,
	}, times, closes)
	if !ok {
		return fmt.Errorf("%w for %s, got %d", ErrNotEnoughPoints, c.Ticker, len(closeSeries.XValues))
	}
	series := []chart.Series{closeSeries}

	if s, ok := definedSeries("SMA20", chart.Style{
		StrokeColor: drawing.ColorFromHex("f59e0b"),
		StrokeWidth: 1.5,
	}, times, sma20); ok {
		series = append(series, s)
	}
	if s, ok := definedSeries("SMA50", chart.Style{
		StrokeColor:     drawing.ColorFromHex("9ca3af"),
		StrokeWidth:     1.5,
		StrokeDashArray: []float64{5.0, 3.0},
	}, times, sma50); ok {
		series = append(series, s)
	}

	title := c.Name
	if c.Ticker != "" && c.Ticker != c.Name {
		title = fmt.Sprintf("%s (%s)", c.Name, c.Ticker)
	}
	return render(chart.Chart{Title: title, Series: series}, w)
}

// RenderCombinedChart draws the total portfolio value over time as PNG.
func RenderCombinedChart(points model.CombinedSeries, currency string, w io.Writer) error {
	times := make([]time.Time, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Time
		values[i] = p.Value
	}
	s, ok := definedSeries("Portfolio value", chart.Style{
		StrokeColor: drawing.ColorFromHex("16a34a"),
		StrokeWidth: 2.5,
	}, times, values)
	if !ok {
		return fmt.Errorf("%w, got %d", ErrNotEnoughPoints, len(s.XValues))
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio value (%s)", currency),
		Series: []chart.Series{s},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return Number(f, 0)
				}
				return ""
			},
		},
	}
	return render(graph, w)
}
