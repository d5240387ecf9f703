package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type historyCmd struct {
	rows int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the daily value of the portfolio" }
func (*historyCmd) Usage() string {
	return `history [-n <rows>]

  Rebuilds the portfolio day by day and prints the equity, invested capital,
  ROI, drawdown and contribution of every symbol.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.rows, "n", 30, "Number of most recent days to print, 0 for all")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		md, err := a.History(ctx, c.rows)
		if err != nil {
			return err
		}
		printMarkdown(md)
		return nil
	})
}
