package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type noteCmd struct {
	index int
}

func (*noteCmd) Name() string     { return "note" }
func (*noteCmd) Synopsis() string { return "replace the note of a transaction" }
func (*noteCmd) Usage() string {
	return `note -i <index> <text>

  Replaces the note of the transaction at index, as printed by journal. An
  empty text clears the note.
`
}

func (c *noteCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "i", -1, "Index of the transaction")
}

func (c *noteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	note := strings.Join(f.Args(), " ")
	return run(func(a *app) error {
		p, _, err := a.portfolio(ctx)
		if err != nil {
			return err
		}
		if err := p.EditNote(c.index, note); err != nil {
			return err
		}
		if err := a.save(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Updated the note of transaction %d\n", c.index)
		return nil
	})
}
