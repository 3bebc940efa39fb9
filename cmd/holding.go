package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"papertrade/renderer"
)

type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the current fund state" }
func (*holdingCmd) Usage() string {
	return `pt holding

  Displays the shares, cash, total value and benchmark comparison as of the
  last finalized trading day.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	ledger, _, _ := openStores(cfg)
	holdings, err := ledger.CurrentHoldings()
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.HoldingMarkdown(holdings, cfg.Fund.Currency))
	return subcommands.ExitSuccess
}
