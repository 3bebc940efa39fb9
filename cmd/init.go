package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"papertrade"
)

type initCmd struct {
	on string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "bootstrap the fund's first ledger entry" }
func (*initCmd) Usage() string {
	return `pt init [-on <date>]

  Creates the fund: for every configured symbol, buys as many whole shares as
  the per-symbol allocation affords at that day's closing price, and leaves
  the remainder in cash. The inception day defaults to fund.inception in the
  config file. Prices must already be in the local database (run 'pt update'
  first). Fails if the ledger already exists.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "on", "", "inception date (YYYY-MM-DD), overrides fund.inception")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	on := cfg.Inception()
	if c.on != "" {
		if on, err = papertrade.ParseDate(c.on); err != nil {
			return fail(err)
		}
	}
	if on.IsZero() {
		return fail(fmt.Errorf("no inception date: set fund.inception or pass -on"))
	}

	prices, err := openPriceDB(cfg)
	if err != nil {
		return fail(err)
	}
	defer prices.Close()

	quotes := make(map[string]papertrade.Quote, len(cfg.Fund.Symbols))
	for _, symbol := range cfg.Fund.Symbols {
		q, err := prices.DailyQuote(ctx, symbol, on)
		if err != nil {
			return fail(fmt.Errorf("no price for %s on %s (did you run 'pt update'?): %w", symbol, on, err))
		}
		quotes[symbol] = q
	}

	ledger, _, _ := openStores(cfg)
	entry, err := ledger.Bootstrap(on, cfg.Total(), cfg.PerSymbol(), quotes)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Fund created on %s: %s total, %s in cash.\n",
		entry.Date,
		papertrade.M(entry.TotalValue, cfg.Fund.Currency),
		papertrade.M(entry.Cash, cfg.Fund.Currency))
	return subcommands.ExitSuccess
}
