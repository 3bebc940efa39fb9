package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify the ledger's invariants" }
func (*checkCmd) Usage() string {
	return `pt check

  Recomputes every persisted figure of the finalized ledger and reports the
  first violation: short positions, negative cash, a total value that differs
  from cash plus holdings at the close, or a benchmark value that differs
  from the buy-and-hold valuation.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	ledger, _, _ := openStores(cfg)
	if err := ledger.Verify(); err != nil {
		return fail(err)
	}

	fmt.Println("Ledger is consistent.")
	return subcommands.ExitSuccess
}
