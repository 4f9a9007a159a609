// Package query implements the analytic read queries. Every function is a
// pure read over the current graph index state: nothing here mutates, and
// time-sensitive queries take an explicit reference time so results are
// reproducible.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/lazypower/prig/internal/graph"
)

// recentWindow is the cutoff for "recent" interactions: anything older
// counts as neglect for the underutilized and reconnect queries.
const recentWindow = 90 * 24 * time.Hour

// TopUnderutilized returns up to limit high-leverage nodes that haven't been
// interacted with recently, ranked by leverage divided by recent incident
// interactions. Nodes with zero leverage are excluded.
func TopUnderutilized(ix *graph.Index, limit int, now time.Time) []*graph.Node {
	cutoff := now.Add(-recentWindow)

	type scored struct {
		node  *graph.Node
		score float64
	}
	var candidates []scored

	for _, n := range ix.Nodes() {
		if n.LastInteraction != nil && !n.LastInteraction.Before(cutoff) {
			continue
		}
		if n.LeverageScore <= 0 {
			continue
		}

		recent := 0
		for _, e := range ix.EdgesOf(n.ID) {
			if e.LastInteraction != nil && e.LastInteraction.After(cutoff) {
				recent++
			}
		}
		candidates = append(candidates, scored{
			node:  n,
			score: float64(n.LeverageScore) / float64(recent+1),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*graph.Node, len(candidates))
	for i, c := range candidates {
		out[i] = c.node
	}
	return out
}

// IndustryPath is the shortest route from a source node into an industry.
type IndustryPath struct {
	Target *graph.Node   `json:"target"`
	Path   []*graph.Node `json:"path"`
}

// PathToIndustry finds the industry-matching node reachable from sourceID in
// the fewest hops. Ties go to the earliest-discovered candidate. Returns nil
// if no matching node is reachable.
func PathToIndustry(ix *graph.Index, sourceID, industry string) *IndustryPath {
	var best *IndustryPath
	for _, target := range ix.NodesByIndustry(industry) {
		path := ix.ShortestPath(sourceID, target.ID)
		if path == nil {
			continue
		}
		if best == nil || len(path) < len(best.Path) {
			best = &IndustryPath{Target: target, Path: path}
		}
	}
	return best
}

// Connector is a non-investor node with at least one edge to an investor.
type Connector struct {
	Node      *graph.Node   `json:"node"`
	Count     int           `json:"investorConnections"`
	Investors []*graph.Node `json:"connections"`
}

// ConnectorsToInvestors finds nodes that know investors without being
// investors themselves, sorted by how many investors they can reach.
func ConnectorsToInvestors(ix *graph.Index) []Connector {
	nodes := ix.Nodes()

	investorIDs := make(map[string]bool)
	for _, n := range nodes {
		if IsInvestor(n) {
			investorIDs[n.ID] = true
		}
	}

	var connectors []Connector
	for _, n := range nodes {
		if investorIDs[n.ID] {
			continue
		}
		var linked []*graph.Node
		for _, e := range ix.EdgesOf(n.ID) {
			otherID := e.Other(n.ID)
			if investorIDs[otherID] {
				if other := ix.Node(otherID); other != nil {
					linked = append(linked, other)
				}
			}
		}
		if len(linked) > 0 {
			connectors = append(connectors, Connector{Node: n, Count: len(linked), Investors: linked})
		}
	}

	sort.SliceStable(connectors, func(i, j int) bool {
		return connectors[i].Count > connectors[j].Count
	})
	return connectors
}

// FastValidators returns nodes with speed and alignment both >= 7 that are
// reachable: no recorded interaction, or one inside the timeframe. Sorted by
// speed + alignment, descending.
func FastValidators(ix *graph.Index, timeframeDays int, now time.Time) []*graph.Node {
	cutoff := now.Add(-time.Duration(timeframeDays) * 24 * time.Hour)

	var out []*graph.Node
	for _, n := range ix.Nodes() {
		if n.Scores.Speed < 7 || n.Scores.Alignment < 7 {
			continue
		}
		if n.LastInteraction != nil && !n.LastInteraction.After(cutoff) {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Scores.Speed+out[i].Scores.Alignment >
			out[j].Scores.Speed+out[j].Scores.Alignment
	})
	return out
}

// WeakTie is a low-strength edge to a high-leverage contact.
type WeakTie struct {
	Node       *graph.Node `json:"node"`
	Connection *graph.Node `json:"connection"`
	Edge       *graph.Edge `json:"relationship"`
	Potential  float64     `json:"potential"`
}

// WeakTiesHighUpside scans every (node, incident edge) pair for edges of
// strength <= 4 whose other endpoint has leverage >= 50, and ranks them by
// potential = leverage - strength*10. Returns the global top 20.
func WeakTiesHighUpside(ix *graph.Index) []WeakTie {
	var ties []WeakTie
	for _, n := range ix.Nodes() {
		for _, e := range ix.EdgesOf(n.ID) {
			other := ix.Node(e.Other(n.ID))
			if other == nil {
				continue
			}
			if e.Strength > 4 || other.LeverageScore < 50 {
				continue
			}
			ties = append(ties, WeakTie{
				Node:       n,
				Connection: other,
				Edge:       e,
				Potential:  float64(other.LeverageScore) - e.Strength*10,
			})
		}
	}

	sort.SliceStable(ties, func(i, j int) bool {
		return ties[i].Potential > ties[j].Potential
	})
	if len(ties) > 20 {
		ties = ties[:20]
	}
	return ties
}

// PeopleToReconnectWith returns up to 10 nodes with leverage >= 40 whose
// last interaction is more than 90 days old, highest leverage first. Nodes
// that were never interacted with don't qualify; there is nothing to
// reconnect to.
func PeopleToReconnectWith(ix *graph.Index, now time.Time) []*graph.Node {
	cutoff := now.Add(-recentWindow)

	var out []*graph.Node
	for _, n := range ix.Nodes() {
		if n.LastInteraction == nil || !n.LastInteraction.Before(cutoff) {
			continue
		}
		if n.LeverageScore < 40 {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LeverageScore > out[j].LeverageScore
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// PeopleByIndustry returns nodes whose industry or company contains the
// given term, case-insensitively.
func PeopleByIndustry(ix *graph.Index, industry string) []*graph.Node {
	q := strings.ToLower(industry)
	var out []*graph.Node
	for _, n := range ix.Nodes() {
		if strings.Contains(strings.ToLower(n.Occupation.Industry), q) ||
			strings.Contains(strings.ToLower(n.Occupation.Company), q) {
			out = append(out, n)
		}
	}
	return out
}

// PeopleBySkill returns nodes with a skill tag containing the given term,
// case-insensitively.
func PeopleBySkill(ix *graph.Index, skill string) []*graph.Node {
	q := strings.ToLower(skill)
	var out []*graph.Node
	for _, n := range ix.Nodes() {
		for _, s := range n.Skills {
			if strings.Contains(strings.ToLower(s.Tag), q) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
