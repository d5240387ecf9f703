package portfolio

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/suitsy/portfolio/date"
)

// NormalizeAmount coerces raw into a finite float64.
//
// Strings are stripped of every whitespace and use either ',' or '.' as the
// decimal separator. nil, empty, malformed, NaN and infinite inputs all yield 0.
func NormalizeAmount(raw any) float64 {
	v, _ := normalizeAmount(raw)
	return v
}

// normalizeAmount is NormalizeAmount that also reports whether raw was understood.
func normalizeAmount(raw any) (v float64, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = 0, false
		}
	}()
	switch x := raw.(type) {
	case nil:
		return 0, false
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int8:
		v = float64(x)
	case int16:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint:
		v = float64(x)
	case uint8:
		v = float64(x)
	case uint16:
		v = float64(x)
	case uint32:
		v = float64(x)
	case uint64:
		v = float64(x)
	case decimal.Decimal:
		return decimalAmount(x)
	case json.Number:
		return parseAmount(x.String())
	case string:
		return parseAmount(x)
	case fmt.Stringer:
		return parseAmount(x.String())
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseAmount(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return decimalAmount(d)
}

// maxExponent bounds the decimal exponent of inputs, far beyond the float64 range.
const maxExponent = 400

func decimalAmount(d decimal.Decimal) (float64, bool) {
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return 0, false
	}
	v := d.InexactFloat64()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeDate coerces raw into a date, falling back to today.
// See date.Normalize for the accepted inputs.
func NormalizeDate(raw any) date.Date { return date.Normalize(raw) }
