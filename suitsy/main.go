// Command suitsy follows the value of a portfolio of securities bought in
// several currencies. Run "suitsy help" for the list of commands.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/suitsy/portfolio/cmd"
	"github.com/suitsy/portfolio/docs"
	"github.com/suitsy/portfolio/market"
)

func main() {
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 suitsy.
func completion() *complete.Command {
	index := predict.Something
	benchmarks := predict.Set(market.BenchmarkNames())
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":     predict.Files("*.toml"),
			"owner":      predict.Something,
			"home":       predict.Something,
			"store":      predict.Set{"jsonl", "sqlite"},
			"store-path": predict.Files("*"),
			"fx":         predict.Set{"strict", "lenient"},
			"v":          predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"dashboard": {Flags: map[string]complete.Predictor{"b": benchmarks, "refresh": predict.Nothing}},
			"history":   {Flags: map[string]complete.Predictor{"n": predict.Something}},
			"journal":   {},
			"add": {Flags: map[string]complete.Predictor{
				"s":      predict.Something,
				"d":      predict.Something,
				"q":      predict.Something,
				"cost":   predict.Something,
				"c":      predict.Something,
				"amount": predict.Something,
				"pay":    predict.Something,
				"note":   predict.Something,
			}},
			"note":    {Flags: map[string]complete.Predictor{"i": index}},
			"remove":  {Flags: map[string]complete.Predictor{"i": index}},
			"publish": {Flags: map[string]complete.Predictor{"o": predict.Files("*.html")}},
			"serve":   {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"assist":  {},
			"topic":   {Args: predict.Set(append(topics, "*"))},
			"help":    {},
		},
	}
}
