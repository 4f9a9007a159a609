package query

import (
	"fmt"
	"time"

	"github.com/lazypower/prig/internal/graph"
)

// Suggestion wraps a reconnect candidate with a human-readable reason.
type Suggestion struct {
	Person    *graph.Node `json:"person"`
	MonthsAgo *int        `json:"monthsAgo"`
	Reason    string      `json:"reason"`
}

// ReconnectSuggestions formats the reconnect query for presentation. It is
// read-only and idempotent, safe to re-run from a periodic scheduler.
func ReconnectSuggestions(ix *graph.Index, now time.Time) []Suggestion {
	people := PeopleToReconnectWith(ix, now)
	out := make([]Suggestion, 0, len(people))
	for _, p := range people {
		s := Suggestion{Person: p}
		if p.LastInteraction != nil {
			months := int(now.Sub(*p.LastInteraction).Hours() / (24 * 30))
			s.MonthsAgo = &months
		}
		if s.MonthsAgo != nil && *s.MonthsAgo > 0 {
			s.Reason = fmt.Sprintf("High leverage score (%d/100), %d months since last interaction",
				p.LeverageScore, *s.MonthsAgo)
		} else {
			s.Reason = fmt.Sprintf("High leverage score (%d/100), no recent interaction", p.LeverageScore)
		}
		out = append(out, s)
	}
	return out
}
