package date

import (
	"math"
	"testing"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 2), 10).Append(New(2024, 1, 5), 12)

	if _, ok := h.ValueAsOf(New(2024, 1, 1)); ok {
		t.Errorf("ValueAsOf(before first) ok = true want false")
	}
	if v, _ := h.ValueAsOf(New(2024, 1, 4)); v != 10 {
		t.Errorf("ValueAsOf(2024-01-04) = %v want 10", v)
	}
	if v, _ := h.ValueAsOf(New(2024, 1, 5)); v != 12 {
		t.Errorf("ValueAsOf(2024-01-05) = %v want 12", v)
	}
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFill(t *testing.T) {
	nan := math.NaN()
	testCases := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"gaps", []float64{nan, 1, nan, nan, 3, nan}, []float64{1, 1, 1, 1, 3, 3}},
		{"all missing", []float64{nan, nan}, []float64{nan, nan}},
		{"empty", []float64{}, []float64{}},
		{"full", []float64{1, 2}, []float64{1, 2}},
	}
	for _, tc := range testCases {
		if got := Fill(tc.in); !sameFloats(got, tc.want) {
			t.Errorf("%s: Fill() = %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestAlign(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2024, 1, 3), 4.0).Append(New(2024, 1, 6), 4.2)

	index := []Date{New(2024, 1, 1), New(2024, 1, 3), New(2024, 1, 4), New(2024, 1, 7)}
	got := Align(h, index)
	want := []float64{4.0, 4.0, 4.0, 4.2}
	if !sameFloats(got, want) {
		t.Errorf("Align() = %v want %v", got, want)
	}

	if got := Align(nil, index); !math.IsNaN(got[0]) {
		t.Errorf("Align(nil)[0] = %v want NaN", got[0])
	}
}

func TestUnion(t *testing.T) {
	a := new(History[float64])
	a.Append(New(2024, 1, 1), 1).Append(New(2024, 1, 3), 1)
	b := new(History[float64])
	b.Append(New(2024, 1, 2), 1).Append(New(2024, 1, 3), 1)

	got := Union(a, b)
	want := []Date{New(2024, 1, 1), New(2024, 1, 2), New(2024, 1, 3)}
	if len(got) != len(want) {
		t.Fatalf("Union() = %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Union()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}
