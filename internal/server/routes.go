package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/prig/internal/engine"
	"github.com/lazypower/prig/internal/scoring"
	"github.com/lazypower/prig/internal/store"
)

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": s.eng.Index.Nodes(),
		"edges": s.eng.Index.Edges(),
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.eng.Load(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "loaded",
		"nodes":  s.eng.Index.NodeCount(),
		"edges":  s.eng.Index.EdgeCount(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q required")
		return
	}
	nodes, err := s.eng.DB.SearchNodes(q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Import(req.Rows))
}

// --- nodes ---

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Index.Nodes())
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var node store.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := s.eng.AddNode(&node)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.eng.Index.Node(created.ID))
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	node := s.eng.Index.Node(chi.URLParam(r, "nodeID"))
	if node == nil {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")

	updated, err := s.eng.UpdateNode(id, func(n *store.Node) error {
		// Partial update: only fields present in the body change.
		return json.NewDecoder(r.Body).Decode(n)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Index.Node(updated.ID))
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	if err := s.eng.RemoveNode(chi.URLParam(r, "nodeID")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleNodeEdges(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if s.eng.Index.Node(id) == nil {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Index.EdgesOf(id))
}

func (s *Server) handleNodeBreakdown(w http.ResponseWriter, r *http.Request) {
	node := s.eng.Index.Node(chi.URLParam(r, "nodeID"))
	if node == nil {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, scoring.BreakdownFor(node.Scores))
}

// --- edges ---

func (s *Server) handleListEdges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Index.Edges())
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var edge store.Edge
	if err := json.NewDecoder(r.Body).Decode(&edge); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := s.eng.AddEdge(&edge)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.eng.Index.Edge(created.ID))
}

func (s *Server) handleGetEdge(w http.ResponseWriter, r *http.Request) {
	edge := s.eng.Index.Edge(chi.URLParam(r, "edgeID"))
	if edge == nil {
		writeError(w, http.StatusNotFound, "edge not found")
		return
	}
	writeJSON(w, http.StatusOK, edge)
}

func (s *Server) handleUpdateEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "edgeID")

	updated, err := s.eng.UpdateEdge(id, func(e *store.Edge) error {
		return json.NewDecoder(r.Body).Decode(e)
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Index.Edge(updated.ID))
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	if err := s.eng.RemoveEdge(chi.URLParam(r, "edgeID")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
