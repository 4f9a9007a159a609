package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lazypower/prig/internal/query"
)

func (s *Server) handleUnderutilized(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 5)
	writeJSON(w, http.StatusOK, query.TopUnderutilized(s.eng.Index, limit, time.Now()))
}

func (s *Server) handlePathToIndustry(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	industry := r.URL.Query().Get("industry")
	if source == "" || industry == "" {
		writeError(w, http.StatusBadRequest, "source and industry required")
		return
	}

	path := query.PathToIndustry(s.eng.Index, source, industry)
	if path == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

func (s *Server) handleConnectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.ConnectorsToInvestors(s.eng.Index))
}

func (s *Server) handleValidators(w http.ResponseWriter, r *http.Request) {
	days := intParam(r, "days", 48)
	writeJSON(w, http.StatusOK, query.FastValidators(s.eng.Index, days, time.Now()))
}

func (s *Server) handleWeakTies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.WeakTiesHighUpside(s.eng.Index))
}

func (s *Server) handleReconnect(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.PeopleToReconnectWith(s.eng.Index, time.Now()))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Suggestions())
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	if industry := r.URL.Query().Get("industry"); industry != "" {
		writeJSON(w, http.StatusOK, query.PeopleByIndustry(s.eng.Index, industry))
		return
	}
	if skill := r.URL.Query().Get("skill"); skill != "" {
		writeJSON(w, http.StatusOK, query.PeopleBySkill(s.eng.Index, skill))
		return
	}
	writeError(w, http.StatusBadRequest, "industry or skill required")
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
