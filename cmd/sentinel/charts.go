package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/report"
)

type chartsCmd struct {
	params paramFlags
	dir    string
}

func (*chartsCmd) Name() string     { return "charts" }
func (*chartsCmd) Synopsis() string { return "write per-asset and portfolio value charts as PNG files" }
func (*chartsCmd) Usage() string {
	return `sentinel charts [-o <dir>] [indicator flags]

  Writes <TICKER>.png (close vs SMA20/SMA50) for every holding with
  history, and portfolio.png for the combined portfolio value.
`
}

func (c *chartsCmd) SetFlags(f *flag.FlagSet) {
	c.params.SetFlags(f)
	f.StringVar(&c.dir, "o", "charts", "Output directory.")
}

func (c *chartsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	d, err := a.service.Build(ctx, c.params.apply(a.service.DefaultParams()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building charts: %v\n", err)
		return subcommands.ExitUsageError
	}
	written, err := writeCharts(d, c.dir)
	for _, p := range written {
		fmt.Fprintln(stdout, p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing charts: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeCharts renders every chart of d into dir and returns the written
// paths. Charts with fewer than two points are skipped.
func writeCharts(d *model.Dashboard, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	write := func(name string, render func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render(f); err != nil {
			f.Close()
			os.Remove(path)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	for _, chart := range d.Charts() {
		if err := write(fileName(chart.Ticker)+".png", func(w io.Writer) error {
			return report.RenderAssetChart(chart, w)
		}); err != nil && !errors.Is(err, report.ErrNotEnoughPoints) {
			return written, fmt.Errorf("%s: %w", chart.Ticker, err)
		}
	}
	if err := write("portfolio.png", func(w io.Writer) error {
		return report.RenderCombinedChart(d.Combined, d.Currency, w)
	}); err != nil && !errors.Is(err, report.ErrNotEnoughPoints) {
		return written, fmt.Errorf("portfolio: %w", err)
	}
	return written, nil
}

// fileName makes a ticker safe to use as a file name ("^GSPC" -> "GSPC").
func fileName(ticker string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			return r
		}
		return -1
	}, ticker)
}
