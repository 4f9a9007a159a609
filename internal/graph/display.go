package graph

import (
	"strings"

	"github.com/lazypower/prig/internal/store"
)

// Display attributes are derived on every add/update so the renderer never
// has to compute them. Colors come from ordered (pattern, color) tables
// evaluated first-match-wins with a neutral fallback.

const (
	defaultNodeColor = "#94a3b8" // slate
	defaultEdgeColor = "#6b7280" // gray
	minNodeSize      = 5
)

type colorRule struct {
	pattern string
	color   string
}

// industryColors maps industry substrings to node colors.
var industryColors = []colorRule{
	{"tech", "#60a5fa"},        // blue
	{"finance", "#10b981"},     // emerald
	{"ecommerce", "#f59e0b"},   // amber
	{"logistics", "#8b5cf6"},   // violet
	{"consulting", "#f472b6"},  // pink
	{"media", "#fb7185"},       // rose
	{"real estate", "#fb923c"}, // orange
}

// edgeColors maps relationship types to edge colors.
var edgeColors = map[string]string{
	store.EdgeFriend:     "#10b981",
	store.EdgeBusiness:   "#3b82f6",
	store.EdgeFamily:     "#f59e0b",
	store.EdgeIntro:      "#8b5cf6",
	store.EdgeOnlineOnly: "#6b7280",
}

func nodeLabel(n *store.Node) string {
	if n.Name == "" {
		return "Unnamed"
	}
	return n.Name
}

func nodeSize(n *store.Node) float64 {
	size := float64(n.LeverageScore) / 10
	if size < minNodeSize {
		return minNodeSize
	}
	return size
}

func nodeColor(n *store.Node) string {
	industry := strings.ToLower(n.Occupation.Industry)
	for _, rule := range industryColors {
		if strings.Contains(industry, rule.pattern) {
			return rule.color
		}
	}
	return defaultNodeColor
}

func edgeSize(e *store.Edge) float64 {
	return e.Strength / 2
}

func edgeColor(edgeType string) string {
	if c, ok := edgeColors[edgeType]; ok {
		return c
	}
	return defaultEdgeColor
}
