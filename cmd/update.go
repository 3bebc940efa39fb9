package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"papertrade/alphavantage"
)

type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "sync daily prices into the local database" }
func (*updateCmd) Usage() string {
	return `pt update

  Fetches the recent daily bars of every configured symbol from Alpha Vantage
  and upserts them into the local price database. Needs alphavantage.api_key
  in the config file. Responses are cached on disk for a day, so re-running
  is cheap.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.AlphaVantage.APIKey == "" {
		return fail(fmt.Errorf("alphavantage.api_key is not configured"))
	}

	store, err := openPriceDB(cfg)
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	client := alphavantage.New(cfg.AlphaVantage.APIKey)
	for _, symbol := range cfg.Fund.Symbols {
		bars, err := client.Daily(ctx, symbol)
		if err != nil {
			return fail(err)
		}
		if err := store.Sync(ctx, symbol, bars); err != nil {
			return fail(err)
		}
		log.Info().Str("symbol", symbol).Int("bars", len(bars)).Msg("synced")
	}

	fmt.Printf("Synced %d symbols.\n", len(cfg.Fund.Symbols))
	return subcommands.ExitSuccess
}
