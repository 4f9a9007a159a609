// Package engine is the single write path for the relationship graph. Every
// create, update and delete goes store-first, then patches the in-memory
// index with the identical change, so the mirror never runs ahead of durable
// state. Reads go straight to the index.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lazypower/prig/internal/decay"
	"github.com/lazypower/prig/internal/graph"
	"github.com/lazypower/prig/internal/query"
	"github.com/lazypower/prig/internal/scoring"
	"github.com/lazypower/prig/internal/store"
)

// ErrNotFound is returned by mutations targeting a missing node or edge.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when an edge references a nonexistent node.
// Referential violations are rejected here, never persisted.
var ErrValidation = errors.New("validation failed")

// decayDebounce: the decay pass only writes back when drift exceeds this,
// to avoid no-op churn on every load.
const decayDebounce = 0.1

// Engine coordinates the store and the graph index.
type Engine struct {
	DB    *store.DB
	Index *graph.Index

	stopCh chan struct{}

	sugMu       sync.RWMutex
	suggestions []query.Suggestion
}

// New creates an Engine over the given store with a fresh index.
func New(db *store.DB) *Engine {
	return &Engine{
		DB:     db,
		Index:  graph.New(db),
		stopCh: make(chan struct{}),
	}
}

// Load ensures the root node exists, rebuilds the index from the store, and
// runs the decay pass. Concurrent callers share a single rebuild (the index
// guards that); the decay pass is idempotent within its debounce.
func (e *Engine) Load(ctx context.Context) error {
	if _, err := e.EnsureRoot(); err != nil {
		return fmt.Errorf("ensure root: %w", err)
	}
	if err := e.Index.Load(ctx); err != nil {
		return err
	}
	if updated, err := e.ApplyDecay(time.Now()); err != nil {
		return fmt.Errorf("decay pass: %w", err)
	} else if updated > 0 {
		log.Printf("decay: updated %d relationships", updated)
	}
	return nil
}

// AddNode creates a node, filling defaults and deriving the leverage score.
// A duplicate id turns into an update of the existing node (upsert); the
// caller never sees the collision.
func (e *Engine) AddNode(n *store.Node) (*store.Node, error) {
	if n.ID == "" {
		n.ID = "node_" + uuid.NewString()
	}
	if n.Type == "" {
		n.Type = store.NodePerson
	}
	n.Scores = scoring.Clamp(n.Scores)
	n.LeverageScore = scoring.LeverageScore(n.Scores)

	err := e.DB.CreateNode(n)
	if errors.Is(err, store.ErrDuplicate) {
		if _, uerr := e.DB.UpdateNode(n); uerr != nil {
			return nil, uerr
		}
	} else if err != nil {
		return nil, err
	}

	e.Index.AddNode(n)
	return n, nil
}

// UpdateNode applies a partial update to an existing node. The mutate
// callback edits the current record in place; scores are re-clamped and the
// leverage score re-derived afterwards, so it can never drift from the
// component scores.
func (e *Engine) UpdateNode(id string, mutate func(*store.Node) error) (*store.Node, error) {
	n, err := e.DB.GetNode(id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("update node %s: %w", id, ErrNotFound)
	}

	if err := mutate(n); err != nil {
		return nil, err
	}
	n.ID = id // the mutate callback cannot re-key a record
	n.Scores = scoring.Clamp(n.Scores)
	n.LeverageScore = scoring.LeverageScore(n.Scores)

	if _, err := e.DB.UpdateNode(n); err != nil {
		return nil, err
	}
	e.Index.UpdateNode(n)
	return n, nil
}

// RemoveNode deletes a node and all incident edges from both the store
// (foreign-key cascade) and the index.
func (e *Engine) RemoveNode(id string) error {
	deleted, err := e.DB.DeleteNode(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("remove node %s: %w", id, ErrNotFound)
	}
	e.Index.RemoveNode(id)
	return nil
}

// AddEdge creates a relationship between two existing nodes. Both endpoints
// must exist (ErrValidation otherwise). Edges are deduplicated on the
// unordered node pair: re-adding a relationship between the same two people
// updates the existing edge, preserving its id, creation time and stored
// orientation.
func (e *Engine) AddEdge(edge *store.Edge) (*store.Edge, error) {
	if edge.Source == "" || edge.Target == "" {
		return nil, fmt.Errorf("edge needs source and target: %w", ErrValidation)
	}
	for _, endpoint := range []string{edge.Source, edge.Target} {
		n, err := e.DB.GetNode(endpoint)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, fmt.Errorf("edge references missing node %s: %w", endpoint, ErrValidation)
		}
	}

	if edge.Type == "" {
		edge.Type = store.EdgeBusiness
	}
	if edge.Strength == 0 {
		edge.Strength = 5
	}
	edge.Strength = clampStrength(edge.Strength)
	if edge.Direction == "" {
		edge.Direction = store.DirBidirectional
	}

	existing, err := e.DB.EdgeBetween(edge.Source, edge.Target)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Type = edge.Type
		existing.Strength = edge.Strength
		existing.Direction = edge.Direction
		existing.ContextTags = edge.ContextTags
		existing.LastInteraction = edge.LastInteraction
		if _, err := e.DB.UpdateEdge(existing); err != nil {
			return nil, err
		}
		if err := e.Index.UpdateEdge(existing); err != nil {
			log.Printf("index update edge: %v", err)
			return nil, err
		}
		return existing, nil
	}

	if edge.ID == "" {
		edge.ID = "rel_" + uuid.NewString()
	}
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = time.Now().UTC()
	}

	err = e.DB.CreateEdge(edge)
	if errors.Is(err, store.ErrDuplicate) {
		if _, uerr := e.DB.UpdateEdge(edge); uerr != nil {
			return nil, uerr
		}
	} else if err != nil {
		return nil, err
	}

	if err := e.Index.AddEdge(edge); err != nil {
		log.Printf("index add edge: %v", err)
		return nil, err
	}
	return edge, nil
}

// UpdateEdge applies a partial update to an existing edge.
func (e *Engine) UpdateEdge(id string, mutate func(*store.Edge) error) (*store.Edge, error) {
	edge, err := e.DB.GetEdge(id)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, fmt.Errorf("update edge %s: %w", id, ErrNotFound)
	}

	if err := mutate(edge); err != nil {
		return nil, err
	}
	edge.ID = id
	edge.Strength = clampStrength(edge.Strength)

	if _, err := e.DB.UpdateEdge(edge); err != nil {
		return nil, err
	}
	if err := e.Index.UpdateEdge(edge); err != nil {
		log.Printf("index update edge: %v", err)
		return nil, err
	}
	return edge, nil
}

// RemoveEdge deletes an edge from both stores.
func (e *Engine) RemoveEdge(id string) error {
	deleted, err := e.DB.DeleteEdge(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("remove edge %s: %w", id, ErrNotFound)
	}
	e.Index.RemoveEdge(id)
	return nil
}

// EnsureRoot creates the reserved owner node if it doesn't exist yet.
// Returns true when it was created.
func (e *Engine) EnsureRoot() (bool, error) {
	existing, err := e.DB.GetNode(store.RootNodeID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	log.Printf("creating root node for the first time")
	now := time.Now().UTC()
	_, err = e.AddNode(&store.Node{
		ID:   store.RootNodeID,
		Type: store.NodePerson,
		Name: "Me",
		Occupation: store.Occupation{
			Role:     "System Owner",
			Company:  "PRIG",
			Industry: "Intelligence",
		},
		Scores: store.Scores{
			CapitalAccess: 10, SkillValue: 10, NetworkReach: 10,
			Reliability: 10, Speed: 10, Alignment: 10,
		},
		LastInteraction: &now,
		Metadata:        map[string]any{"isRoot": true},
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ApplyDecay recomputes decayed strength for every edge with a recorded
// interaction and writes it back as the authoritative strength when the
// drift exceeds the debounce. Returns the number of edges updated.
func (e *Engine) ApplyDecay(now time.Time) (int, error) {
	updated := 0
	for _, view := range e.Index.Edges() {
		if view.LastInteraction == nil {
			continue
		}
		decayed := decay.Strength(view.Strength, view.LastInteraction, now)
		if abs(decayed-view.Strength) <= decayDebounce {
			continue
		}

		edge := view.Edge
		edge.Strength = decayed
		if _, err := e.DB.UpdateEdge(&edge); err != nil {
			return updated, err
		}
		if err := e.Index.UpdateEdge(&edge); err != nil {
			log.Printf("index decay update: %v", err)
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// clampStrength keeps authored strength inside the 1-10 range the decay
// curve and the weak-tie math assume.
func clampStrength(s float64) float64 {
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
