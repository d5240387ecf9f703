package renderer

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/suitsy/portfolio"
)

// formatQuantity prints a quantity with up to 4 decimals and no trailing zeros.
func formatQuantity(q float64) string {
	return strconv.FormatFloat(roundTo(q, 4), 'f', -1, 64)
}

// formatRate prints an exchange rate with 4 decimals.
func formatRate(r float64) string { return strconv.FormatFloat(r, 'f', 4, 64) }

func roundTo(v float64, digits int) float64 {
	s := strconv.FormatFloat(v, 'f', digits, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}

// escapeCell makes s safe to use in a markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func sortedKeys[V any](m map[string]V) []string { return slices.Sorted(maps.Keys(m)) }

// issueLines returns one line per issue.
func issueLines(issues portfolio.Issues) []string {
	var out []string
	for _, i := range issues {
		out = append(out, escapeCell(i.Error()))
	}
	return out
}
