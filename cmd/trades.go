package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"papertrade/renderer"
)

type tradesCmd struct {
	last int
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "display the audit log of executed trades" }
func (*tradesCmd) Usage() string {
	return `pt trades [-n <count>]

  Displays executed trades, most recent first. Every finalized trading day
  has one record per symbol, including the days a symbol was held unchanged.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.last, "n", 0, "only the last n records (0 means all)")
}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	_, _, trades := openStores(cfg)
	records, err := trades.Recent()
	if err != nil {
		return fail(err)
	}
	if c.last > 0 && len(records) > c.last {
		records = records[:c.last]
	}

	printMarkdown(renderer.TradesMarkdown(records, cfg.Fund.Currency))
	return subcommands.ExitSuccess
}
