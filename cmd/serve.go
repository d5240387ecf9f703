package cmd

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/market"
	"github.com/suitsy/portfolio/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve dashboards over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-addr <host:port>]

  Serves the dashboard of every owner of the store:

    /                        list of owners
    /{owner}                 dashboard page
    /api/owners              owners, in JSON
    /api/{owner}/dashboard   dashboard, in JSON
    /healthz                 health check
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on, the configured one when empty")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		addr := c.addr
		if addr == "" {
			addr = a.cfg.Server.Addr
		}
		bench, err := market.SelectBenchmarks(a.cfg.Benchmarks)
		if err != nil {
			return err
		}
		srv := server.New(server.Config{
			Addr:    addr,
			Log:     a.log,
			Store:   a.store,
			Source:  a.market,
			Home:    a.cfg.Home,
			Load:    a.loadOptions(bench),
			Options: portfolio.Options{Policy: a.cfg.Policy()},
		})

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		errc := make(chan error, 1)
		go func() { errc <- srv.Start() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
}
