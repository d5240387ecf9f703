package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type journalCmd struct{}

func (*journalCmd) Name() string     { return "journal" }
func (*journalCmd) Synopsis() string { return "list transactions, newest first" }
func (*journalCmd) Usage() string {
	return `journal

  Prints every transaction with its index, profit and note. The index is the
  one expected by the note and remove commands.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {}

func (c *journalCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		md, err := a.Journal(ctx)
		if err != nil {
			return err
		}
		printMarkdown(md)
		return nil
	})
}
