package engine

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/lazypower/prig/internal/scoring"
	"github.com/lazypower/prig/internal/store"
)

// ImportResult counts the outcome of a bulk ingestion.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import ingests a batch of flat rows already mapped onto the node record
// shape (column mapping is the caller's concern). Missing optional fields
// take their defaults, score values are coerced rather than rejected, and a
// bad row is skipped instead of failing the batch.
func (e *Engine) Import(rows []map[string]any) ImportResult {
	var res ImportResult
	for i, row := range rows {
		node, err := rowToNode(row)
		if err != nil {
			log.Printf("import: skipping row %d: %v", i, err)
			res.Skipped++
			continue
		}
		if node.Name == "" && node.ID == "" {
			log.Printf("import: skipping row %d: no name or id", i)
			res.Skipped++
			continue
		}
		if _, err := e.AddNode(node); err != nil {
			log.Printf("import: skipping row %d: %v", i, err)
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res
}

// rowToNode converts a loosely typed row into a node record. Score values
// go through the scoring coercion so strings and out-of-range numbers
// become valid scores instead of decode failures.
func rowToNode(row map[string]any) (*store.Node, error) {
	clean := make(map[string]any, len(row))
	for k, v := range row {
		clean[k] = v
	}

	var scores store.Scores
	if raw, ok := clean["scores"].(map[string]any); ok {
		scores = store.Scores{
			CapitalAccess: scoring.ValidateScore(raw["capitalAccess"]),
			SkillValue:    scoring.ValidateScore(raw["skillValue"]),
			NetworkReach:  scoring.ValidateScore(raw["networkReach"]),
			Reliability:   scoring.ValidateScore(raw["reliability"]),
			Speed:         scoring.ValidateScore(raw["speed"]),
			Alignment:     scoring.ValidateScore(raw["alignment"]),
		}
	}
	delete(clean, "scores")
	delete(clean, "leverageScore") // always re-derived, never imported

	b, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var node store.Node
	if err := json.Unmarshal(b, &node); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	node.Scores = scores
	return &node, nil
}
