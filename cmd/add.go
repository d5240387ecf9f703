package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
	"github.com/suitsy/portfolio/market"
)

type addCmd struct {
	symbol   string
	day      string
	quantity float64
	cost     float64
	currency string
	amount   float64
	pay      string
	note     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a purchase" }
func (*addCmd) Usage() string {
	return `add -s <symbol> [-d <date>] (-q <quantity> -cost <cost> [-c <currency>] | -amount <amount> [-pay <currency>]) [-note <text>]

  Records a purchase, either from its quantity and its cost in the home
  currency, or from the amount paid: the quantity is then computed from the
  market price of the purchase date.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the security, as known by Yahoo Finance")
	f.StringVar(&c.day, "d", date.Today().String(), "Purchase date")
	f.Float64Var(&c.quantity, "q", 0, "Quantity bought")
	f.Float64Var(&c.cost, "cost", 0, "Cost in the home currency")
	f.StringVar(&c.currency, "c", "", "Currency the security trades in, looked up when empty")
	f.Float64Var(&c.amount, "amount", 0, "Amount paid, the quantity is computed from the market price")
	f.StringVar(&c.pay, "pay", "", "Currency of the amount, the home currency when empty")
	f.StringVar(&c.note, "note", "", "Free text note")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		p, _, err := a.portfolio(ctx)
		if err != nil {
			return err
		}
		tx, err := c.transaction(ctx, a.yahoo, a.cfg.Home)
		if err != nil {
			return err
		}
		p.Append(tx)
		if err := a.save(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Added %s %s on %s for %s, transaction %d\n",
			formatQuantity(tx.Quantity), tx.Symbol, tx.Date, portfolio.M(tx.Cost, a.cfg.Home), p.Len()-1)
		return nil
	})
}

// pricer looks up market prices when a purchase is given by amount.
type pricer interface {
	Currency(ctx context.Context, symbol string) (string, error)
	PriceOn(ctx context.Context, symbol string, day date.Date) (float64, error)
}

// transaction builds the transaction described by the flags.
func (c *addCmd) transaction(ctx context.Context, prices pricer, home string) (portfolio.Transaction, error) {
	symbol := strings.ToUpper(strings.TrimSpace(c.symbol))
	if symbol == "" {
		return portfolio.Transaction{}, fmt.Errorf("-s is required")
	}
	on, err := date.Parse(c.day)
	if err != nil {
		return portfolio.Transaction{}, fmt.Errorf("invalid date %q: %w", c.day, err)
	}
	currency := strings.ToUpper(strings.TrimSpace(c.currency))

	if c.amount == 0 {
		if c.quantity <= 0 || c.cost <= 0 {
			return portfolio.Transaction{}, fmt.Errorf("either -q and -cost or -amount must be positive")
		}
		if currency == "" {
			currency = home
		}
		return portfolio.Transaction{Symbol: symbol, Currency: currency, Date: on, Quantity: c.quantity, Cost: c.cost, Note: c.note}, nil
	}

	if currency == "" {
		if currency, err = prices.Currency(ctx, symbol); err != nil {
			return portfolio.Transaction{}, fmt.Errorf("cannot find the currency of %s, use -c: %w", symbol, err)
		}
	}
	pay := strings.ToUpper(strings.TrimSpace(c.pay))
	if pay == "" {
		pay = home
	}
	price, err := prices.PriceOn(ctx, symbol, on)
	if err != nil {
		return portfolio.Transaction{}, fmt.Errorf("cannot find the price of %s: %w", symbol, err)
	}
	payRate, err := rateOn(ctx, prices, pay, home, on)
	if err != nil {
		return portfolio.Transaction{}, err
	}
	assetRate, err := rateOn(ctx, prices, currency, home, on)
	if err != nil {
		return portfolio.Transaction{}, err
	}
	purchase := portfolio.Purchase{
		Symbol:        symbol,
		AssetCurrency: currency,
		PayCurrency:   pay,
		Amount:        c.amount,
		Date:          on,
		Note:          c.note,
	}
	return purchase.Transaction(price, payRate, assetRate)
}

// rateOn returns the rate converting currency to home on day.
func rateOn(ctx context.Context, prices pricer, currency, home string, day date.Date) (float64, error) {
	if currency == home {
		return 1, nil
	}
	r, err := prices.PriceOn(ctx, market.Pair(currency, home), day)
	if err != nil {
		return 0, fmt.Errorf("cannot find the %s rate: %w", market.Pair(currency, home), err)
	}
	return r, nil
}

func formatQuantity(q float64) string { return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", q), "0"), ".") }
