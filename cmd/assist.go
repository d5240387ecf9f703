package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/suitsy/portfolio/agent"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an AI assistant about the portfolio" }
func (*assistCmd) Usage() string {
	return `assist [<question>]

  Starts an interactive session with an assistant that can read the
  dashboard, the history and the journal. The question, if any, is asked first.
  The Gemini API key is read from GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var questions []string
	if q := strings.Join(f.Args(), " "); q != "" {
		questions = append(questions, q)
	}
	return run(func(a *app) error {
		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			return fmt.Errorf("cannot initialize Gemini's client: %w", err)
		}
		s := agent.Settings{Model: a.cfg.Agent.Model, Owner: a.cfg.Owner, Home: a.cfg.Home}
		if s.Model == "" {
			s.Model = agent.DefaultModel
		}
		analyst := agent.NewAnalyst(s.Model, a)
		analyst.Log = a.log
		trader := agent.NewTrader(s.Model)
		trader.Log = a.log

		ag := agent.New(os.Stdout, os.Stdin, s, analyst, trader)
		ag.Print = func(_ io.Writer, md string) { printMarkdown(md) }
		return ag.Run(ctx, client, questions...)
	})
}
