package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/suitsy/portfolio"
)

// JSONL stores transactions in a file, one JSON object per line.
//
// Each line carries its owner so that several portfolios share one file.
// Lines are kept in file order.
type JSONL struct {
	path string
}

// NewJSONL returns a store on the file at path. The file is created on first Save.
func NewJSONL(path string) *JSONL { return &JSONL{path: path} }

// record is the loosely typed shape of a line.
type record struct {
	Owner    string `json:"owner"`
	Symbol   string `json:"symbol"`
	Currency string `json:"currency,omitempty"`
	Date     any    `json:"date"`
	Quantity any    `json:"quantity"`
	Cost     any    `json:"cost"`
	Note     string `json:"note,omitempty"`
}

// line is a decoded line with its original bytes.
type line struct {
	raw []byte
	rec record
}

// read returns every line of the file, none if it does not exist.
func (s *JSONL) read() ([]line, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", s.path, err)
	}
	defer f.Close()

	var lines []line
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec record
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%s:%d: invalid record: %w", s.path, n, err)
		}
		lines = append(lines, line{raw: slices.Clone(raw), rec: rec})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read %q: %w", s.path, err)
	}
	return lines, nil
}

// Load implements Store.
func (s *JSONL) Load(ctx context.Context, owner, home string) ([]portfolio.Transaction, portfolio.Issues, error) {
	lines, err := s.read()
	if err != nil {
		return nil, nil, err
	}
	var txs []portfolio.Transaction
	var issues portfolio.Issues
	for _, l := range lines {
		if l.rec.Owner != owner {
			continue
		}
		tx, is := portfolio.ParseTransaction(portfolio.RawTransaction{
			Symbol:   l.rec.Symbol,
			Currency: l.rec.Currency,
			Date:     l.rec.Date,
			Quantity: l.rec.Quantity,
			Cost:     l.rec.Cost,
			Note:     l.rec.Note,
		}, home)
		txs = append(txs, tx)
		issues = append(issues, is...)
	}
	return txs, issues, nil
}

// Save implements Store. The file is rewritten atomically.
func (s *JSONL) Save(ctx context.Context, owner string, txs []portfolio.Transaction) error {
	lines, err := s.read()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, l := range lines {
		if l.rec.Owner == owner {
			continue
		}
		buf.Write(l.raw)
		buf.WriteByte('\n')
	}
	if err := encode(&buf, owner, txs); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", s.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("could not save %q: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("could not save %q: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not save %q: %w", s.path, err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// encode writes owner's transactions, one per line, with exact decimal amounts.
func encode(w io.Writer, owner string, txs []portfolio.Transaction) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, tx := range txs {
		rec := record{
			Owner:    owner,
			Symbol:   tx.Symbol,
			Currency: tx.Currency,
			Date:     tx.Date.String(),
			Quantity: decimal.NewFromFloat(tx.Quantity),
			Cost:     decimal.NewFromFloat(tx.Cost),
			Note:     tx.Note,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// Owners implements Store.
func (s *JSONL) Owners(ctx context.Context) ([]string, error) {
	lines, err := s.read()
	if err != nil {
		return nil, err
	}
	var owners []string
	for _, l := range lines {
		owners = append(owners, l.rec.Owner)
	}
	slices.Sort(owners)
	return slices.Compact(owners), nil
}

// Close implements Store.
func (s *JSONL) Close() error { return nil }
