package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"PortfolioSentinel/internal/report"
)

type reportCmd struct {
	params paramFlags
	raw    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the portfolio tables with RSI/MACD signals" }
func (*reportCmd) Usage() string {
	return `sentinel report [-raw] [-rsi-length N] [-oversold X] [-overbought X] [-macd-fast N] [-macd-slow N] [-macd-signal N]

  Fetches history for every holding and prints the stocks and
  cryptocurrencies tables, the portfolio value and any warnings.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.params.SetFlags(f)
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of rendering it for the terminal.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	d, err := a.service.Build(ctx, c.params.apply(a.service.DefaultParams()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitUsageError
	}

	md := report.DashboardMarkdown(d)
	if c.raw {
		fmt.Fprint(stdout, md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}
