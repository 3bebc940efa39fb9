package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"papertrade/renderer"
)

type historyCmd struct {
	last int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the ledger value history" }
func (*historyCmd) Usage() string {
	return `pt history [-n <days>]

  Displays cash, total value and benchmark value for each finalized trading
  day, oldest first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.last, "n", 0, "only the last n days (0 means all)")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	ledger, _, _ := openStores(cfg)
	entries, err := ledger.Entries()
	if err != nil {
		return fail(err)
	}
	if c.last > 0 && len(entries) > c.last {
		entries = entries[len(entries)-c.last:]
	}

	printMarkdown(renderer.HistoryMarkdown(entries, cfg.Fund.Currency))
	return subcommands.ExitSuccess
}
