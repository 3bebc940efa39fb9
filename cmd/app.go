// Package cmd implements the CLI verbs of the paper trading fund.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"papertrade"
	"papertrade/model"
	"papertrade/pricedb"
)

// Commands is the list of all verbs, in the order they are registered.
// A main package registers them on a commander and executes the selected one.
var Commands = []subcommands.Command{
	&initCmd{},
	&updateCmd{},
	&tradeCmd{},
	&stateCmd{},
	&holdingCmd{},
	&historyCmd{},
	&tradesCmd{},
	&probsCmd{},
	&checkCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "papertrade.toml", "Path to the fund configuration file")

// loadConfig reads the app config file.
func loadConfig() (*Config, error) {
	return LoadConfig(*configPath)
}

// openStores opens the three journals under the configured data directory.
func openStores(cfg *Config) (*papertrade.LedgerStore, *papertrade.ProbabilityJournal, *papertrade.TradeLog) {
	dir := cfg.Storage.DataDir
	return papertrade.OpenLedger(dir), papertrade.OpenProbabilities(dir), papertrade.OpenTradeLog(dir)
}

// openPriceDB opens the local bar database.
func openPriceDB(cfg *Config) (*pricedb.Store, error) {
	return pricedb.Open(cfg.Storage.PriceDB)
}

// newModel builds the configured decision model. The momentum model reads
// the price database; the gemini model needs API credentials in the
// environment.
func newModel(ctx context.Context, cfg *Config, prices *pricedb.Store) (papertrade.DecisionModel, error) {
	switch cfg.Model.Kind {
	case "gemini":
		return model.NewGemini(ctx, cfg.Model.Name)
	case "momentum":
		return model.NewMomentum(prices), nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", cfg.Model.Kind)
	}
}

// newEngine wires a full engine from the config. The returned cleanup closes
// the price database.
func newEngine(ctx context.Context, cfg *Config) (*papertrade.Engine, func(), error) {
	prices, err := openPriceDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	m, err := newModel(ctx, cfg, prices)
	if err != nil {
		prices.Close()
		return nil, nil, err
	}
	ledger, probs, trades := openStores(cfg)
	e, err := papertrade.NewEngine(ledger, probs, trades, prices, m, cfg.Fund.Symbols)
	if err != nil {
		prices.Close()
		return nil, nil, err
	}
	return e, func() { prices.Close() }, nil
}

// printMarkdown renders markdown for the terminal; on rendering trouble the
// raw markdown is still printed.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints an error the way every verb reports one.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
