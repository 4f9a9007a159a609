package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lazypower/prig/internal/engine"
	"github.com/lazypower/prig/internal/store"
)

func testServer(t *testing.T) (*Server, *engine.Engine) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	eng := engine.New(db)
	if err := eng.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return New(eng, "test"), eng
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("health = %v", body)
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
	// The root node exists after load.
	if body["nodes"].(float64) != 1 {
		t.Errorf("nodes = %v, want 1", body["nodes"])
	}
}

func TestNodeLifecycle(t *testing.T) {
	s, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/nodes/", map[string]any{
		"name": "Ada Chen",
		"occupation": map[string]any{
			"role": "CTO", "company": "Lumen Freight", "industry": "Logistics",
		},
		"scores": map[string]any{
			"capitalAccess": 4, "skillValue": 9, "networkReach": 7,
			"reliability": 8, "speed": 6, "alignment": 7,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]any](t, rec)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("no id in create response")
	}
	if created["leverageScore"].(float64) != 68 {
		t.Errorf("leverage = %v, want 68", created["leverageScore"])
	}
	if created["label"] != "Ada Chen" {
		t.Errorf("label = %v", created["label"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/nodes/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPatch, "/api/nodes/"+id, map[string]any{"location": "Lisbon"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	patched := decode[map[string]any](t, rec)
	if patched["location"] != "Lisbon" {
		t.Errorf("location = %v", patched["location"])
	}
	// Untouched fields survive a partial update.
	if patched["name"] != "Ada Chen" {
		t.Errorf("name after patch = %v", patched["name"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/nodes/"+id+"/breakdown", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("breakdown status = %d", rec.Code)
	}
	breakdown := decode[map[string]any](t, rec)
	if breakdown["leverageScore"].(float64) != 68 {
		t.Errorf("breakdown = %v", breakdown)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/nodes/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/nodes/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestNodeNotFound(t *testing.T) {
	s, _ := testServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/nodes/ghost"},
		{http.MethodPatch, "/api/nodes/ghost"},
		{http.MethodDelete, "/api/nodes/ghost"},
		{http.MethodGet, "/api/nodes/ghost/edges"},
		{http.MethodGet, "/api/nodes/ghost/breakdown"},
	} {
		rec := doJSON(t, s, tc.method, tc.path, map[string]any{})
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}

func TestAddNodeBadJSON(t *testing.T) {
	s, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/nodes/", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEdgeLifecycle(t *testing.T) {
	s, eng := testServer(t)

	for _, id := range []string{"a", "b"} {
		if _, err := eng.AddNode(&store.Node{ID: id, Name: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	rec := doJSON(t, s, http.MethodPost, "/api/edges/", map[string]any{
		"source": "a", "target": "b", "type": "friend", "strength": 7,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]any](t, rec)
	edgeID, _ := created["id"].(string)
	if edgeID == "" {
		t.Fatal("no id in create response")
	}

	rec = doJSON(t, s, http.MethodPatch, "/api/edges/"+edgeID, map[string]any{"strength": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	patched := decode[map[string]any](t, rec)
	if patched["strength"].(float64) != 3 {
		t.Errorf("strength = %v", patched["strength"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/nodes/a/edges", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("node edges status = %d", rec.Code)
	}
	edges := decode[[]map[string]any](t, rec)
	if len(edges) != 1 {
		t.Errorf("node edges = %d, want 1", len(edges))
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/edges/"+edgeID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodDelete, "/api/edges/"+edgeID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestAddEdgeValidation(t *testing.T) {
	s, eng := testServer(t)
	if _, err := eng.AddNode(&store.Node{ID: "a", Name: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/edges/", map[string]any{
		"source": "a", "target": "ghost",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestGraphSnapshot(t *testing.T) {
	s, eng := testServer(t)
	if _, err := eng.AddNode(&store.Node{ID: "a", Name: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/graph", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	snap := decode[map[string]json.RawMessage](t, rec)
	var nodes []map[string]any
	if err := json.Unmarshal(snap["nodes"], &nodes); err != nil {
		t.Fatalf("nodes: %v", err)
	}
	// root + a
	if len(nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(nodes))
	}

	rec = doJSON(t, s, http.MethodPost, "/api/graph/load", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load status = %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "loaded" || body["nodes"].(float64) != 2 {
		t.Errorf("load = %v", body)
	}
}

func TestSearchEndpoint(t *testing.T) {
	s, eng := testServer(t)
	if _, err := eng.AddNode(&store.Node{ID: "a", Name: "Ada Chen"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/search?q=ada", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	found := decode[[]map[string]any](t, rec)
	if len(found) != 1 {
		t.Errorf("results = %d, want 1", len(found))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", rec.Code)
	}
}

func TestImportEndpoint(t *testing.T) {
	s, _ := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/import", map[string]any{
		"rows": []map[string]any{
			{"name": "Ada"},
			{"location": "nowhere"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	res := decode[map[string]any](t, rec)
	if res["imported"].(float64) != 1 || res["skipped"].(float64) != 1 {
		t.Errorf("result = %v", res)
	}
}

func TestQueryEndpoints(t *testing.T) {
	s, eng := testServer(t)

	past := time.Now().AddDate(0, -5, 0)
	high := store.Scores{
		CapitalAccess: 8, SkillValue: 8, NetworkReach: 8,
		Reliability: 8, Speed: 8, Alignment: 8,
	}
	if _, err := eng.AddNode(&store.Node{
		ID: "overdue", Name: "Overdue", Scores: high, LastInteraction: &past,
		Occupation: store.Occupation{Industry: "Media"},
	}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := eng.AddEdge(&store.Edge{Source: "root", Target: "overdue", Strength: 2}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/queries/underutilized?limit=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("underutilized = %d", rec.Code)
	}
	under := decode[[]map[string]any](t, rec)
	if len(under) != 1 || under[0]["id"] != "overdue" {
		t.Errorf("underutilized = %v", under)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/path-to-industry?source=root&industry=media", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("path-to-industry = %d", rec.Code)
	}
	path := decode[map[string]any](t, rec)
	if path["target"].(map[string]any)["id"] != "overdue" {
		t.Errorf("path = %v", path)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/path-to-industry", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing params = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/weak-ties", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("weak-ties = %d", rec.Code)
	}
	ties := decode[[]map[string]any](t, rec)
	if len(ties) == 0 {
		t.Error("expected weak ties")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/reconnect", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconnect = %d", rec.Code)
	}
	reconnect := decode[[]map[string]any](t, rec)
	if len(reconnect) != 1 || reconnect[0]["id"] != "overdue" {
		t.Errorf("reconnect = %v", reconnect)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/connectors", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("connectors = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/validators?days=48", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validators = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/people?industry=media", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("people = %d", rec.Code)
	}
	people := decode[[]map[string]any](t, rec)
	if len(people) != 1 {
		t.Errorf("people = %v", people)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/people", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("people without filter = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/queries/suggestions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suggestions = %d", rec.Code)
	}
}
