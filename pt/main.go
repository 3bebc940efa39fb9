// Command pt runs a simulated stock fund as a daily ledger: it finalizes
// yesterday's trading decision against real prices and records the next one.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"papertrade/cmd"
)

func setupLogger() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("PT_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// completion describes the CLI for shell completion. It runs (and exits)
// only when invoked by a completion request.
func completion() {
	configFlags := map[string]complete.Predictor{
		"config": predict.Files("*.toml"),
	}
	sub := map[string]*complete.Command{
		"init":    {Flags: map[string]complete.Predictor{"on": predict.Nothing}},
		"update":  {},
		"trade":   {},
		"state":   {},
		"holding": {},
		"history": {Flags: map[string]complete.Predictor{"n": predict.Nothing}},
		"trades":  {Flags: map[string]complete.Predictor{"n": predict.Nothing}},
		"probs":   {},
		"check":   {},
		"topic":   {Args: predict.Set{"readme", "cycle", "policy", "config", "storage"}},
	}
	root := &complete.Command{Sub: sub, Flags: configFlags}
	root.Complete("pt")
}

func main() {
	completion()
	setupLogger()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
