package decay

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name string
		d1   time.Time
		d2   time.Time
		want float64
	}{
		{"same day", date(2025, 3, 1), date(2025, 3, 1), 0},
		{"exactly six months", date(2025, 3, 1), date(2025, 9, 1), 6},
		{"one year", date(2024, 3, 1), date(2025, 3, 1), 12},
		{"partial month", date(2025, 3, 1), date(2025, 3, 16), 0.5},
		{"across year boundary", date(2024, 11, 15), date(2025, 2, 15), 3},
		{"negative when reversed", date(2025, 9, 1), date(2025, 3, 1), -6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthsBetween(tt.d1, tt.d2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MonthsBetween = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrengthNoElapsedTime(t *testing.T) {
	now := date(2025, 6, 1)
	for _, s := range []float64{1, 5, 8.3, 10} {
		if got := Strength(s, &now, now); got != s {
			t.Errorf("Strength(%v, now, now) = %v, want unchanged", s, got)
		}
	}
}

func TestStrengthFutureInteraction(t *testing.T) {
	last := date(2025, 9, 1)
	ref := date(2025, 6, 1)
	if got := Strength(8, &last, ref); got != 8 {
		t.Errorf("negative elapsed time should not decay: got %v", got)
	}
}

func TestStrengthSixMonths(t *testing.T) {
	last := date(2025, 3, 1)
	ref := date(2025, 9, 1)
	// 8 * 0.95^6 = 5.88..., rounded to one decimal
	if got := Strength(8, &last, ref); got != 5.9 {
		t.Errorf("Strength = %v, want 5.9", got)
	}
}

func TestStrengthNoInteraction(t *testing.T) {
	// 12 months of decay assumed: 8 * 0.95^12 ≈ 4.32
	got := Strength(8, nil, date(2025, 9, 1))
	want := 8 * math.Pow(0.95, 12)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Strength = %v, want %v", got, want)
	}
}

func TestStrengthFloorAndCeiling(t *testing.T) {
	// Heavy decay never drops below 1.
	last := date(2015, 1, 1)
	if got := Strength(2, &last, date(2025, 1, 1)); got != 1 {
		t.Errorf("floor: got %v, want 1", got)
	}
	// No-interaction floor applies too.
	if got := Strength(1, nil, date(2025, 1, 1)); got != 1 {
		t.Errorf("no-interaction floor: got %v, want 1", got)
	}
}

func TestStrengthDeterministic(t *testing.T) {
	last := date(2025, 1, 15)
	ref := date(2025, 8, 3)
	first := Strength(7, &last, ref)
	for i := 0; i < 5; i++ {
		if got := Strength(7, &last, ref); got != first {
			t.Fatalf("non-deterministic: %v != %v", got, first)
		}
	}
}
