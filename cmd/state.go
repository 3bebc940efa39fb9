package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type stateCmd struct{}

func (*stateCmd) Name() string     { return "state" }
func (*stateCmd) Synopsis() string { return "show where the trading cycle stands" }
func (*stateCmd) Usage() string {
	return `pt state

  Prints the cycle state: idle (nothing pending), awaiting-market-data (a
  decision is pending but the market has not produced a new trading day), or
  ready-to-finalize (the next 'pt trade' will confirm the pending decision).
`
}

func (c *stateCmd) SetFlags(f *flag.FlagSet) {}

func (c *stateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	engine, cleanup, err := newEngine(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	state, err := engine.State(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Println(state)
	return subcommands.ExitSuccess
}
