// Package graph maintains the in-memory mirror of the relationship graph:
// every node and edge from the store, plus derived display attributes and
// insertion-ordered adjacency for deterministic traversal.
//
// The index owns no data the store doesn't also hold. It is rebuilt from the
// store on Load and incrementally patched by the engine on every mutation.
package graph

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lazypower/prig/internal/store"
)

// Node is a stored node plus its derived display attributes.
type Node struct {
	store.Node
	Label string  `json:"label"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// Edge is a stored edge plus its derived display attributes.
type Edge struct {
	store.Edge
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// Loader is the slice of the store the index rebuilds from.
type Loader interface {
	ListNodes() ([]*store.Node, error)
	ListEdges() ([]*store.Edge, error)
}

// Index is the traversable in-memory graph mirror.
type Index struct {
	loader Loader
	flight singleflight.Group

	mu        sync.RWMutex
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string            // insertion order, for stable listings
	edgeOrder []string            // insertion order, for stable listings
	incident  map[string][]string // node id -> incident edge ids, insertion order
}

// New creates an empty index backed by the given loader.
func New(loader Loader) *Index {
	ix := &Index{loader: loader}
	ix.reset()
	return ix
}

func (ix *Index) reset() {
	ix.nodes = make(map[string]*Node)
	ix.edges = make(map[string]*Edge)
	ix.nodeOrder = nil
	ix.edgeOrder = nil
	ix.incident = make(map[string][]string)
}

// Load clears the mirror and repopulates it from the store. Concurrent
// callers share a single in-flight rebuild rather than racing two of them.
func (ix *Index) Load(ctx context.Context) error {
	_, err, _ := ix.flight.Do("load", func() (any, error) {
		return nil, ix.rebuild(ctx)
	})
	return err
}

func (ix *Index) rebuild(ctx context.Context) error {
	nodes, err := ix.loader.ListNodes()
	if err != nil {
		return fmt.Errorf("load nodes: %w", err)
	}
	edges, err := ix.loader.ListEdges()
	if err != nil {
		return fmt.Errorf("load edges: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.reset()
	for _, n := range nodes {
		ix.putNode(n)
	}
	for _, e := range edges {
		// Edges referencing missing nodes are skipped, not fatal: the store
		// is authoritative and the cascade keeps it clean.
		if _, ok := ix.nodes[e.Source]; !ok {
			continue
		}
		if _, ok := ix.nodes[e.Target]; !ok {
			continue
		}
		ix.putEdge(e)
	}
	return nil
}

// AddNode inserts or refreshes a node in the mirror. Re-adding an existing
// node updates it in place; "already exists" is never an error.
func (ix *Index) AddNode(n *store.Node) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.putNode(n)
}

// UpdateNode refreshes a node's attributes. A missing node is inserted;
// the mirror tolerates re-sync races instead of failing them.
func (ix *Index) UpdateNode(n *store.Node) {
	ix.AddNode(n)
}

// RemoveNode drops a node and every incident edge from the mirror.
// Removing an absent node is a no-op.
func (ix *Index) RemoveNode(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.nodes[id]; !ok {
		return
	}
	for _, edgeID := range append([]string(nil), ix.incident[id]...) {
		ix.dropEdge(edgeID)
	}
	delete(ix.nodes, id)
	delete(ix.incident, id)
	ix.nodeOrder = removeID(ix.nodeOrder, id)
}

// AddEdge inserts or refreshes an edge. Both endpoints must already be in
// the mirror; a missing endpoint is a sync bug worth surfacing.
func (ix *Index) AddEdge(e *store.Edge) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.nodes[e.Source]; !ok {
		return fmt.Errorf("add edge %s: source %s not in index", e.ID, e.Source)
	}
	if _, ok := ix.nodes[e.Target]; !ok {
		return fmt.Errorf("add edge %s: target %s not in index", e.ID, e.Target)
	}
	ix.putEdge(e)
	return nil
}

// UpdateEdge refreshes an edge's attributes; inserts if absent.
func (ix *Index) UpdateEdge(e *store.Edge) error {
	return ix.AddEdge(e)
}

// RemoveEdge drops an edge from the mirror. Absent edges are a no-op.
func (ix *Index) RemoveEdge(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dropEdge(id)
}

// putNode assumes the write lock is held.
func (ix *Index) putNode(n *store.Node) {
	view := &Node{
		Node:  *n,
		Label: nodeLabel(n),
		Size:  nodeSize(n),
		Color: nodeColor(n),
	}
	if _, exists := ix.nodes[n.ID]; !exists {
		ix.nodeOrder = append(ix.nodeOrder, n.ID)
	}
	ix.nodes[n.ID] = view
}

// putEdge assumes the write lock is held and endpoints present.
func (ix *Index) putEdge(e *store.Edge) {
	view := &Edge{
		Edge:  *e,
		Size:  edgeSize(e),
		Color: edgeColor(e.Type),
	}
	if _, exists := ix.edges[e.ID]; !exists {
		ix.edgeOrder = append(ix.edgeOrder, e.ID)
		ix.incident[e.Source] = append(ix.incident[e.Source], e.ID)
		if e.Target != e.Source {
			ix.incident[e.Target] = append(ix.incident[e.Target], e.ID)
		}
	}
	ix.edges[e.ID] = view
}

// dropEdge assumes the write lock is held.
func (ix *Index) dropEdge(id string) {
	e, ok := ix.edges[id]
	if !ok {
		return
	}
	delete(ix.edges, id)
	ix.edgeOrder = removeID(ix.edgeOrder, id)
	ix.incident[e.Source] = removeID(ix.incident[e.Source], id)
	ix.incident[e.Target] = removeID(ix.incident[e.Target], id)
}

// Node returns the mirrored node, or nil if absent.
func (ix *Index) Node(id string) *Node {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.nodes[id]
}

// Edge returns the mirrored edge, or nil if absent.
func (ix *Index) Edge(id string) *Edge {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.edges[id]
}

// Nodes returns every node in insertion order.
func (ix *Index) Nodes() []*Node {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]*Node, 0, len(ix.nodeOrder))
	for _, id := range ix.nodeOrder {
		out = append(out, ix.nodes[id])
	}
	return out
}

// Edges returns every edge in insertion order.
func (ix *Index) Edges() []*Edge {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]*Edge, 0, len(ix.edgeOrder))
	for _, id := range ix.edgeOrder {
		out = append(out, ix.edges[id])
	}
	return out
}

// EdgesOf returns the edges incident to a node, in insertion order.
func (ix *Index) EdgesOf(nodeID string) []*Edge {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	ids := ix.incident[nodeID]
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, ix.edges[id])
	}
	return out
}

// Neighbors returns the nodes adjacent to nodeID, in edge insertion order.
func (ix *Index) Neighbors(nodeID string) []*Node {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	ids := ix.incident[nodeID]
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		e := ix.edges[id]
		if other, ok := ix.nodes[e.Other(nodeID)]; ok {
			out = append(out, other)
		}
	}
	return out
}

// NodeCount returns the number of mirrored nodes.
func (ix *Index) NodeCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.nodes)
}

// EdgeCount returns the number of mirrored edges.
func (ix *Index) EdgeCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.edges)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
