package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"papertrade/renderer"
)

type probsCmd struct{}

func (*probsCmd) Name() string     { return "probs" }
func (*probsCmd) Synopsis() string { return "display predicted probabilities" }
func (*probsCmd) Usage() string {
	return `pt probs

  Displays the probability journal: the prediction each finalized trading day
  traded on, and the pending prediction for the next one when there is one.
`
}

func (c *probsCmd) SetFlags(f *flag.FlagSet) {}

func (c *probsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}

	_, probs, _ := openStores(cfg)
	entries, err := probs.Entries()
	if err != nil {
		return fail(err)
	}
	if probs.HasPending() {
		pending, err := probs.Pending()
		if err != nil {
			return fail(err)
		}
		entries = append(entries, pending)
	}

	printMarkdown(renderer.ProbabilitiesMarkdown(entries))
	return subcommands.ExitSuccess
}
