package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type promptCmd struct {
	params paramFlags
}

func (*promptCmd) Name() string     { return "prompt" }
func (*promptCmd) Synopsis() string { return "print the analysis prompt for the current portfolio" }
func (*promptCmd) Usage() string {
	return `sentinel prompt [indicator flags]

  Prints a plain-text prompt listing every holding with its RSI and MACD
  signals, ready to paste into an assistant.
`
}

func (c *promptCmd) SetFlags(f *flag.FlagSet) { c.params.SetFlags(f) }

func (c *promptCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	d, err := a.service.Build(ctx, c.params.apply(a.service.DefaultParams()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building prompt: %v\n", err)
		return subcommands.ExitUsageError
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Fprintln(stdout, d.Prompt)
	return subcommands.ExitSuccess
}
