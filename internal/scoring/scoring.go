// Package scoring derives the 0-100 leverage score from the six component
// dimensions. All functions are total: bad input is coerced, never rejected.
package scoring

import (
	"math"
	"strconv"

	"github.com/lazypower/prig/internal/store"
)

// ValidateScore coerces an arbitrary value to a valid 0-10 integer score.
// Non-numeric values become 0; numbers are rounded and clamped. Idempotent.
func ValidateScore(v any) int {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case float64:
		f = x
	case float32:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if x {
			f = 1
		}
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

// Clamp coerces every dimension of a Scores value into range.
func Clamp(s store.Scores) store.Scores {
	return store.Scores{
		CapitalAccess: ValidateScore(s.CapitalAccess),
		SkillValue:    ValidateScore(s.SkillValue),
		NetworkReach:  ValidateScore(s.NetworkReach),
		Reliability:   ValidateScore(s.Reliability),
		Speed:         ValidateScore(s.Speed),
		Alignment:     ValidateScore(s.Alignment),
	}
}

// LeverageScore computes round(sum * 10 / 6) clamped to 0-100.
// Pure and deterministic; missing (zero) dimensions simply contribute nothing.
func LeverageScore(s store.Scores) int {
	sum := s.CapitalAccess + s.SkillValue + s.NetworkReach +
		s.Reliability + s.Speed + s.Alignment
	score := int(math.Round(float64(sum) * 10 / 6))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Breakdown is a per-dimension view of a node's scores with the composite.
type Breakdown struct {
	CapitalAccess int `json:"capitalAccess"`
	SkillValue    int `json:"skillValue"`
	NetworkReach  int `json:"networkReach"`
	Reliability   int `json:"reliability"`
	Speed         int `json:"speed"`
	Alignment     int `json:"alignment"`
	LeverageScore int `json:"leverageScore"`
}

// BreakdownFor returns the display breakdown for a set of scores.
func BreakdownFor(s store.Scores) Breakdown {
	return Breakdown{
		CapitalAccess: s.CapitalAccess,
		SkillValue:    s.SkillValue,
		NetworkReach:  s.NetworkReach,
		Reliability:   s.Reliability,
		Speed:         s.Speed,
		Alignment:     s.Alignment,
		LeverageScore: LeverageScore(s),
	}
}
