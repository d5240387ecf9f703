package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/suitsy/portfolio"
)

// SQLite stores transactions in a SQLite database.
//
// Amounts are stored as text to keep their exact decimal representation,
// and normalized on the way back like any other source.
type SQLite struct {
	conn *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	owner    TEXT NOT NULL,
	position INTEGER NOT NULL,
	symbol   TEXT NOT NULL,
	currency TEXT NOT NULL DEFAULT '',
	date     TEXT NOT NULL,
	quantity TEXT NOT NULL,
	cost     TEXT NOT NULL,
	note     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS transactions_owner ON transactions(owner, position);
`

// OpenSQLite opens, and creates if needed, the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection, so that ":memory:" is one database.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{conn: conn, path: path}, nil
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context, owner, home string) ([]portfolio.Transaction, portfolio.Issues, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT symbol, currency, date, quantity, cost, note FROM transactions WHERE owner = ? ORDER BY position`, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []portfolio.Transaction
	var issues portfolio.Issues
	for rows.Next() {
		var raw portfolio.RawTransaction
		var day, qty, cost string
		if err := rows.Scan(&raw.Symbol, &raw.Currency, &day, &qty, &cost, &raw.Note); err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		raw.Date, raw.Quantity, raw.Cost = day, qty, cost
		tx, is := portfolio.ParseTransaction(raw, home)
		txs = append(txs, tx)
		issues = append(issues, is...)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, issues, nil
}

// Save implements Store, in a single database transaction.
func (s *SQLite) Save(ctx context.Context, owner string, txs []portfolio.Transaction) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to clear %q transactions: %w", owner, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (owner, position, symbol, currency, date, quantity, cost, note) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, t := range txs {
		if _, err := stmt.ExecContext(ctx, owner, i, t.Symbol, t.Currency, t.Date.String(),
			decimal.NewFromFloat(t.Quantity).String(), decimal.NewFromFloat(t.Cost).String(), t.Note); err != nil {
			return fmt.Errorf("failed to insert transaction #%d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Owners implements Store.
func (s *SQLite) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT DISTINCT owner FROM transactions ORDER BY owner`)
	if err != nil {
		return nil, fmt.Errorf("failed to query owners: %w", err)
	}
	defer rows.Close()
	var owners []string
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

// Close implements Store.
func (s *SQLite) Close() error { return s.conn.Close() }
