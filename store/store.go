// Package store persists the transactions of several owners.
//
// Records are read loosely: amounts and dates in any supported shape are
// normalized through portfolio.ParseTransaction, and the corrections are
// returned as issues rather than errors.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/suitsy/portfolio"
)

// Store loads and saves the transactions of an owner.
type Store interface {
	// Load returns owner's transactions in their saved order. An unknown
	// owner has no transactions.
	Load(ctx context.Context, owner, home string) ([]portfolio.Transaction, portfolio.Issues, error)
	// Save replaces all of owner's transactions, other owners are left untouched.
	Save(ctx context.Context, owner string, txs []portfolio.Transaction) error
	// Owners returns the sorted owners having at least one transaction.
	Owners(ctx context.Context) ([]string, error)
	Close() error
}

// Kinds of stores accepted by Open.
const (
	KindJSONL  = "jsonl"
	KindSQLite = "sqlite"
)

// Open opens the store of the given kind at path.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case "", KindJSONL:
		return NewJSONL(path), nil
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q want %q or %q", kind, KindJSONL, KindSQLite)
	}
}

// LoadPortfolio loads owner's transactions into a new portfolio.
func LoadPortfolio(ctx context.Context, s Store, owner, home string) (*portfolio.Portfolio, portfolio.Issues, error) {
	txs, issues, err := s.Load(ctx, owner, home)
	if err != nil {
		return nil, nil, err
	}
	return portfolio.NewPortfolio(owner, home, txs...), issues, nil
}

// SavePortfolio saves all the transactions of p.
func SavePortfolio(ctx context.Context, s Store, p *portfolio.Portfolio) error {
	return s.Save(ctx, p.Owner, p.Transactions())
}
