package portfolio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPrice is reported when neither a live quote nor a historical price is known.
	ErrNoPrice = errors.New("no price available")
	// ErrMissingFX is reported when a foreign currency has no exchange rate.
	ErrMissingFX = errors.New("no exchange rate available")
	// ErrInsufficientData is reported when there is not enough history to draw curves.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrIndexOutOfRange is returned when a transaction index does not exist.
	ErrIndexOutOfRange = errors.New("transaction index out of range")
	// ErrInvalidPurchase is returned when a purchase cannot be converted into a transaction.
	ErrInvalidPurchase = errors.New("invalid purchase")
)

// IssueKind classifies data-quality problems met during a computation.
type IssueKind int

const (
	// DataUnavailable means a price, quote or rate could not be resolved.
	DataUnavailable IssueKind = iota
	// ParseFailure means a raw value was malformed and replaced by a default.
	ParseFailure
	// InsufficientHistory means the history is too short to be charted.
	InsufficientHistory
	// ExternalFetchFailure means a market data request failed after all retries.
	ExternalFetchFailure
	// MissingFX means a foreign currency had no exchange rate series.
	MissingFX
)

func (k IssueKind) String() string {
	switch k {
	case DataUnavailable:
		return "data unavailable"
	case ParseFailure:
		return "parse failure"
	case InsufficientHistory:
		return "insufficient history"
	case ExternalFetchFailure:
		return "fetch failure"
	case MissingFX:
		return "missing fx"
	default:
		return fmt.Sprintf("issue(%d)", int(k))
	}
}

// Issue is a data-quality signal. Issues never abort a computation, they are
// collected and handed to the caller for display.
type Issue struct {
	Kind     IssueKind
	Symbol   string
	Currency string
	Err      error
}

func (i Issue) Error() string {
	var b strings.Builder
	b.WriteString(i.Kind.String())
	if i.Symbol != "" {
		b.WriteString(" " + i.Symbol)
	}
	if i.Currency != "" {
		b.WriteString(" (" + i.Currency + ")")
	}
	if i.Err != nil {
		b.WriteString(": " + i.Err.Error())
	}
	return b.String()
}

func (i Issue) Unwrap() error { return i.Err }

// Issues is a list of data-quality signals.
type Issues []Issue

// Has reports whether at least one issue is of kind k.
func (is Issues) Has(k IssueKind) bool {
	for _, i := range is {
		if i.Kind == k {
			return true
		}
	}
	return false
}

// Of returns the issues of kind k.
func (is Issues) Of(k IssueKind) Issues {
	var out Issues
	for _, i := range is {
		if i.Kind == k {
			out = append(out, i)
		}
	}
	return out
}
