package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lazypower/prig/internal/engine"
)

// Server is the prig HTTP API server. It is the surface the graph UI talks
// to; all writes go through the engine, all reads through the index.
type Server struct {
	eng     *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over the given engine.
func New(eng *engine.Engine, version string) *Server {
	s := &Server{
		eng:     eng,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/graph", s.handleGraph)
		r.Post("/graph/load", s.handleLoad)
		r.Get("/search", s.handleSearch)
		r.Post("/import", s.handleImport)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", s.handleListNodes)
			r.Post("/", s.handleAddNode)
			r.Get("/{nodeID}", s.handleGetNode)
			r.Patch("/{nodeID}", s.handleUpdateNode)
			r.Delete("/{nodeID}", s.handleDeleteNode)
			r.Get("/{nodeID}/edges", s.handleNodeEdges)
			r.Get("/{nodeID}/breakdown", s.handleNodeBreakdown)
		})

		r.Route("/edges", func(r chi.Router) {
			r.Get("/", s.handleListEdges)
			r.Post("/", s.handleAddEdge)
			r.Get("/{edgeID}", s.handleGetEdge)
			r.Patch("/{edgeID}", s.handleUpdateEdge)
			r.Delete("/{edgeID}", s.handleDeleteEdge)
		})

		r.Route("/queries", func(r chi.Router) {
			r.Get("/underutilized", s.handleUnderutilized)
			r.Get("/path-to-industry", s.handlePathToIndustry)
			r.Get("/connectors", s.handleConnectors)
			r.Get("/validators", s.handleValidators)
			r.Get("/weak-ties", s.handleWeakTies)
			r.Get("/reconnect", s.handleReconnect)
			r.Get("/suggestions", s.handleSuggestions)
			r.Get("/people", s.handlePeople)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.eng.DB.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"nodes":   s.eng.Index.NodeCount(),
		"edges":   s.eng.Index.EdgeCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
