package query

import (
	"strings"

	"github.com/lazypower/prig/internal/graph"
)

// A node classifies as an investor on capital access alone, or when its
// occupation text mentions investment. The keyword list is ordered and
// evaluated first-match-wins so classification stays deterministic.
var investorKeywords = []string{"investor", "vc", "venture", "capital", "angel", "fund"}

const investorCapitalThreshold = 7

// IsInvestor reports whether a node should be treated as an investor.
func IsInvestor(n *graph.Node) bool {
	if n.Scores.CapitalAccess >= investorCapitalThreshold {
		return true
	}
	role := strings.ToLower(n.Occupation.Role)
	industry := strings.ToLower(n.Occupation.Industry)
	company := strings.ToLower(n.Occupation.Company)
	for _, kw := range investorKeywords {
		if strings.Contains(role, kw) || strings.Contains(industry, kw) || strings.Contains(company, kw) {
			return true
		}
	}
	return false
}
