// Package cmd implements the CLI application to follow a portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/config"
	"github.com/suitsy/portfolio/logger"
	"github.com/suitsy/portfolio/market"
	"github.com/suitsy/portfolio/renderer"
	"github.com/suitsy/portfolio/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&dashboardCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&journalCmd{}, "reports")
	c.Register(&publishCmd{}, "reports")

	c.Register(&addCmd{}, "transactions")
	c.Register(&noteCmd{}, "transactions")
	c.Register(&removeCmd{}, "transactions")

	c.Register(&serveCmd{}, "")
	c.Register(&assistCmd{}, "")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

const defaultConfigFile = "suitsy.toml"

var (
	configFile    = flag.String("config", defaultConfigFile, "Path to the TOML configuration file")
	ownerFlag     = flag.String("owner", "", "Owner of the portfolio")
	homeFlag      = flag.String("home", "", "Home currency, e.g. PLN")
	storeFlag     = flag.String("store", "", "Transaction store kind: jsonl or sqlite")
	storePathFlag = flag.String("store-path", "", "Path to the transaction store")
	fxFlag        = flag.String("fx", "", "Policy for missing exchange rates: strict or lenient")
	verbose       = flag.Bool("v", false, "Log debug messages")
)

// loadConfig reads the configuration and applies the global flags.
// The default configuration file is optional.
func loadConfig() (*config.Config, error) {
	path := *configFile
	if path == defaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	o := config.Overrides{
		Owner:     *ownerFlag,
		Home:      *homeFlag,
		FX:        *fxFlag,
		Store:     *storeFlag,
		StorePath: *storePathFlag,
	}
	if *verbose {
		o.LogLevel = "debug"
	}
	if err := cfg.ApplyOverrides(o); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  store.Store
	yahoo  *market.Yahoo
	market *market.Cache
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	st, err := store.Open(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	ttl := cfg.Cache.Live.Duration
	if cfg.Cache.Dir == "off" {
		ttl = 0
	}
	y := market.NewYahoo(market.NewCachingClient(cfg.Cache.Dir, ttl, log), market.DefaultYahooURL, log)
	log.Debug().Str("owner", cfg.Owner).Str("home", cfg.Home).Str("store", cfg.Store.Path).Msg("configuration loaded")
	return &app{
		cfg:    cfg,
		log:    log,
		store:  st,
		yahoo:  y,
		market: market.NewCache(y, cfg.TTL()),
	}, nil
}

func (a *app) Close() error { return a.store.Close() }

// refresh drops cached market data, on disk and in memory.
func (a *app) refresh() {
	a.market.Clear()
	a.yahoo = market.NewYahoo(market.NewCachingClient(a.cfg.Cache.Dir, 0, a.log), market.DefaultYahooURL, a.log)
	a.market = market.NewCache(a.yahoo, a.cfg.TTL())
}

// portfolio loads the transactions of the configured owner.
func (a *app) portfolio(ctx context.Context) (*portfolio.Portfolio, portfolio.Issues, error) {
	p, issues, err := store.LoadPortfolio(ctx, a.store, a.cfg.Owner, a.cfg.Home)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load transactions: %w", err)
	}
	for _, i := range issues {
		a.log.Warn().Str("issue", i.Error()).Msg("stored transaction corrected")
	}
	return p, issues, nil
}

func (a *app) save(ctx context.Context, p *portfolio.Portfolio) error {
	if err := store.SavePortfolio(ctx, a.store, p); err != nil {
		return fmt.Errorf("cannot save transactions: %w", err)
	}
	return nil
}

// dashboard computes the dashboard of the configured owner, with the named
// benchmarks or the configured ones when names is nil.
func (a *app) dashboard(ctx context.Context, names []string) (*portfolio.Dashboard, error) {
	if names == nil {
		names = a.cfg.Benchmarks
	}
	bench, err := market.SelectBenchmarks(names)
	if err != nil {
		return nil, err
	}
	p, issues, err := a.portfolio(ctx)
	if err != nil {
		return nil, err
	}
	d := portfolio.Compute(ctx, a.market, p, a.loadOptions(bench), portfolio.Options{Policy: a.cfg.Policy()})
	d.Issues = append(issues, d.Issues...)
	return d, nil
}

func (a *app) loadOptions(bench map[string]string) portfolio.LoadOptions {
	return portfolio.LoadOptions{
		Retry:      portfolio.DefaultRetry,
		Logger:     a.log,
		Benchmarks: bench,
	}
}

// Dashboard, History and Journal let the assistant read the reports.

func (a *app) Dashboard(ctx context.Context) (string, error) {
	d, err := a.dashboard(ctx, nil)
	if err != nil {
		return "", err
	}
	return renderer.RenderDashboard(renderer.NewDashboard(d)), nil
}

func (a *app) History(ctx context.Context, rows int) (string, error) {
	d, err := a.dashboard(ctx, nil)
	if err != nil {
		return "", err
	}
	return renderer.RenderHistory(renderer.NewHistory(d, rows)), nil
}

func (a *app) Journal(ctx context.Context) (string, error) {
	d, err := a.dashboard(ctx, nil)
	if err != nil {
		return "", err
	}
	return renderer.RenderJournal(renderer.NewJournal(d)), nil
}

// printMarkdown renders md for the terminal, or prints it as is when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// run opens the app, runs f and closes the app, reporting errors on stderr.
func run(f func(a *app) error) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := f(a); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
