package date

import (
	"iter"
	"math"
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T) // return zero value of T
	}
	return h.days[last], h.values[last]
}

// First returns the earliest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// Clear removes all items from the history.
func (h *History[T]) Clear() {
	h.days = h.days[:0]
	h.values = h.values[:0]
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Days returns a copy of the dates in the history.
func (h *History[T]) Days() []Date { return slices.Clone(h.days) }

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T float32 | float64 | string] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// sort sorts the history in chronological order.
func (h *History[T]) sort() { sort.Sort(chronological[T]{h}) }

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		// Found a point at that exact same instant.
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = q
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, q)
	// appending in chronological order is the common case.
	if n := len(h.days); n > 1 && h.days[n-1].Before(h.days[n-2]) {
		h.sort()
	}
	return h
}

// AppendAdd adds a point to the history.
//
// Existing value is added.
func (h *History[T]) AppendAdd(on Date, q T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] += q
		return h
	}
	return h.Append(on, q)
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (f *History[T]) Get(day Date) (T, bool) {
	var value T
	i := slices.Index(f.days, day)
	if i >= 0 {
		return f.values[i], true
	}
	return value, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	// The days slice is sorted, so we can use binary search.
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)

	if found {
		return h.values[i], true
	}

	// Not found. `i` is the index where `day` would be inserted.
	// The value we want is at `i-1`, which is the last entry before the target date.
	if i == 0 {
		var zero T
		return zero, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// Union returns the sorted set of all dates present in any of the histories.
func Union(histories ...*History[float64]) []Date {
	return slices.Collect(Iterate(histories...))
}

// Finite returns a copy of h without its NaN and infinite values.
func Finite(h *History[float64]) *History[float64] {
	out := new(History[float64])
	if h == nil {
		return out
	}
	for i, v := range h.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out.days = append(out.days, h.days[i])
		out.values = append(out.values, v)
	}
	return out
}

// Reindex returns the values of h at each date of index, NaN where h has no value on that exact date.
func Reindex(h *History[float64], index []Date) []float64 {
	out := make([]float64, len(index))
	for i, on := range index {
		out[i] = math.NaN()
		if h == nil {
			continue
		}
		if v, ok := h.Get(on); ok {
			out[i] = v
		}
	}
	return out
}

// Align samples h on index: each date takes the last finite value on or before it,
// then dates before the first value are seeded with it.
//
// It returns all NaN when h has no finite value.
func Align(h *History[float64], index []Date) []float64 {
	clean := Finite(h)
	out := make([]float64, len(index))
	for i, on := range index {
		v, ok := clean.ValueAsOf(on)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return BackFill(out)
}

// ForwardFill replaces each NaN in values with the last non-NaN value before it, in place.
// Leading NaNs are left untouched.
func ForwardFill(values []float64) []float64 {
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
			continue
		}
		last = v
	}
	return values
}

// BackFill replaces each NaN in values with the first non-NaN value after it, in place.
// Trailing NaNs are left untouched.
func BackFill(values []float64) []float64 {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
			continue
		}
		next = values[i]
	}
	return values
}

// Fill forward fills then back fills values, in place.
func Fill(values []float64) []float64 { return BackFill(ForwardFill(values)) }
