package scoring

import (
	"math"
	"testing"

	"github.com/lazypower/prig/internal/store"
)

func TestValidateScore(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int in range", 7, 7},
		{"float rounds", 6.6, 7},
		{"negative clamps to zero", -3, 0},
		{"above ten clamps", 42, 10},
		{"numeric string", "8", 8},
		{"fractional string", "3.4", 3},
		{"garbage string", "lots", 0},
		{"nil", nil, 0},
		{"nan", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
		{"bool", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateScore(tt.in); got != tt.want {
				t.Errorf("ValidateScore(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateScoreIdempotent(t *testing.T) {
	inputs := []any{-5, 0, 3, 6.6, 10, 99, "7", "junk", nil}
	for _, in := range inputs {
		once := ValidateScore(in)
		twice := ValidateScore(once)
		if once != twice {
			t.Errorf("not idempotent for %v: %d then %d", in, once, twice)
		}
	}
}

func TestLeverageScoreBounds(t *testing.T) {
	zero := store.Scores{}
	if got := LeverageScore(zero); got != 0 {
		t.Errorf("all-zero scores = %d, want 0", got)
	}

	full := store.Scores{
		CapitalAccess: 10, SkillValue: 10, NetworkReach: 10,
		Reliability: 10, Speed: 10, Alignment: 10,
	}
	if got := LeverageScore(full); got != 100 {
		t.Errorf("all-ten scores = %d, want 100", got)
	}
}

func TestLeverageScoreRounding(t *testing.T) {
	// sum 20 -> 20*10/6 = 33.33 -> 33
	s := store.Scores{CapitalAccess: 10, SkillValue: 10}
	if got := LeverageScore(s); got != 33 {
		t.Errorf("LeverageScore = %d, want 33", got)
	}

	// sum 35 -> 58.33 -> 58
	s = store.Scores{CapitalAccess: 10, SkillValue: 10, NetworkReach: 10, Reliability: 5}
	if got := LeverageScore(s); got != 58 {
		t.Errorf("LeverageScore = %d, want 58", got)
	}
}

func TestLeverageScoreMonotonic(t *testing.T) {
	base := store.Scores{
		CapitalAccess: 3, SkillValue: 5, NetworkReach: 2,
		Reliability: 7, Speed: 4, Alignment: 6,
	}
	before := LeverageScore(base)

	bumps := []store.Scores{base, base, base, base, base, base}
	bumps[0].CapitalAccess++
	bumps[1].SkillValue++
	bumps[2].NetworkReach++
	bumps[3].Reliability++
	bumps[4].Speed++
	bumps[5].Alignment++

	for i, b := range bumps {
		if LeverageScore(b) < before {
			t.Errorf("bumping dimension %d decreased leverage", i)
		}
	}
}

func TestClamp(t *testing.T) {
	dirty := store.Scores{CapitalAccess: 99, SkillValue: -4, Speed: 7}
	clean := Clamp(dirty)
	if clean.CapitalAccess != 10 || clean.SkillValue != 0 || clean.Speed != 7 {
		t.Errorf("Clamp = %+v", clean)
	}
}

func TestBreakdownFor(t *testing.T) {
	s := store.Scores{CapitalAccess: 10, SkillValue: 10, NetworkReach: 10,
		Reliability: 10, Speed: 10, Alignment: 10}
	b := BreakdownFor(s)
	if b.LeverageScore != 100 || b.CapitalAccess != 10 {
		t.Errorf("BreakdownFor = %+v", b)
	}
}
