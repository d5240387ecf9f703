package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/suitsy/portfolio/renderer"
)

type publishCmd struct {
	output string
}

func (*publishCmd) Name() string     { return "publish" }
func (*publishCmd) Synopsis() string { return "write the dashboard as an HTML page" }
func (*publishCmd) Usage() string {
	return `publish [-o <file>]

  Writes the dashboard, followed by the recent history, as a standalone HTML page.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "dashboard.html", "Path of the HTML file to write")
}

func (c *publishCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		d, err := a.dashboard(ctx, nil)
		if err != nil {
			return err
		}
		md := renderer.RenderDashboard(renderer.NewDashboard(d))
		if !d.Insufficient {
			md += "\n" + renderer.RenderHistory(renderer.NewHistory(d, 30))
		}
		page, err := renderer.Page("Portfolio of "+d.Owner, md)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.output, []byte(page), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.output, err)
		}
		fmt.Printf("Published %s\n", c.output)
		return nil
	})
}
