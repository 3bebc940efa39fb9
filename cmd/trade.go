package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"papertrade"
)

type tradeCmd struct{}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "run one trading cycle: finalize, then decide" }
func (*tradeCmd) Usage() string {
	return `pt trade

  Runs one complete trading cycle. If a decision is pending and the market
  has produced a new trading day, the decision is finalized against that
  day's real prices: trades execute at the open, the ledger is valued at the
  close, and an audit record is written per symbol. Then a fresh prediction
  is obtained and recorded as the next pending decision.

  Safe to run several times a day; without a new trading day, only the
  pending prediction is refreshed.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	lock, err := papertrade.AcquireLock(cfg.Storage.DataDir)
	if err != nil {
		return fail(err)
	}
	defer lock.Release()

	engine, cleanup, err := newEngine(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	if err := engine.Run(ctx); err != nil {
		return fail(err)
	}

	holdings, err := engine.Ledger.CurrentHoldings()
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Ledger finalized through %s, total value %s.\n",
		holdings.Date, papertrade.M(holdings.TotalValue, cfg.Fund.Currency))
	return subcommands.ExitSuccess
}
