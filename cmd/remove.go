package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type removeCmd struct {
	index int
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "delete a transaction" }
func (*removeCmd) Usage() string {
	return `remove -i <index>

  Deletes the transaction at index, as printed by journal. The following
  transactions move down by one.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "i", -1, "Index of the transaction")
}

func (c *removeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		p, _, err := a.portfolio(ctx)
		if err != nil {
			return err
		}
		tx := p.Transactions()
		if err := p.Remove(c.index); err != nil {
			return err
		}
		if err := a.save(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Removed transaction %d: %s on %s\n", c.index, tx[c.index].Symbol, tx[c.index].Date)
		return nil
	})
}
