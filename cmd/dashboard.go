package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"github.com/suitsy/portfolio/renderer"
)

type dashboardCmd struct {
	benchmarks string
	refresh    bool
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the value, profit and allocation of the portfolio" }
func (*dashboardCmd) Usage() string {
	return `dashboard [-b <benchmarks>] [-refresh]

  Values every transaction at the latest market price and prints the headline
  figures, the positions, the allocation, the comparison with benchmarks and
  the data issues met on the way.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.benchmarks, "b", "", "Comma separated benchmarks to compare with, instead of the configured ones")
	f.BoolVar(&c.refresh, "refresh", false, "Ignore cached market data")
}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		if c.refresh {
			a.refresh()
		}
		d, err := a.dashboard(ctx, benchmarkNames(c.benchmarks))
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderDashboard(renderer.NewDashboard(d)))
		return nil
	})
}

// benchmarkNames splits a comma separated list, nil for an empty one.
func benchmarkNames(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return strings.Split(list, ",")
}
