package store

import (
	"errors"
	"testing"
	"time"
)

func sampleNode(id string) *Node {
	last := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Node{
		ID:       id,
		Type:     NodePerson,
		Name:     "Ada Chen",
		Email:    "ada@example.com",
		Phone:    "+1 555 0100",
		Location: "Lisbon",
		Social:   map[string]string{"linkedin": "in/adachen", "x": "@adachen"},
		Occupation: Occupation{
			Role:     "CTO",
			Company:  "Lumen Freight",
			Industry: "Logistics",
		},
		Skills: []Skill{{Tag: "golang", Weight: 9}, {Tag: "fundraising", Weight: 6}},
		Scores: Scores{
			CapitalAccess: 4, SkillValue: 9, NetworkReach: 7,
			Reliability: 8, Speed: 6, Alignment: 7,
		},
		LeverageScore:   68,
		Notes:           []Note{{Text: "met at GopherCon", Date: "2025-05-20"}},
		LastInteraction: &last,
		Metadata:        map[string]any{"starred": true},
	}
}

func TestCreateAndGetNode(t *testing.T) {
	db := testDB(t)

	want := sampleNode("n1")
	if err := db.CreateNode(want); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if want.CreatedAt == 0 || want.UpdatedAt == 0 {
		t.Error("expected timestamps to be set")
	}

	got, err := db.GetNode("n1")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if got == nil {
		t.Fatal("expected node, got nil")
	}
	if got.Name != "Ada Chen" || got.Email != "ada@example.com" {
		t.Errorf("identity fields = %q/%q", got.Name, got.Email)
	}
	if got.Social["linkedin"] != "in/adachen" {
		t.Errorf("social = %v", got.Social)
	}
	if got.Occupation.Industry != "Logistics" {
		t.Errorf("industry = %q", got.Occupation.Industry)
	}
	if len(got.Skills) != 2 || got.Skills[0].Tag != "golang" || got.Skills[0].Weight != 9 {
		t.Errorf("skills = %v", got.Skills)
	}
	if got.Scores.SkillValue != 9 || got.Scores.Alignment != 7 {
		t.Errorf("scores = %+v", got.Scores)
	}
	if got.LeverageScore != 68 {
		t.Errorf("leverage = %d, want 68", got.LeverageScore)
	}
	if len(got.Notes) != 1 || got.Notes[0].Date != "2025-05-20" {
		t.Errorf("notes = %v", got.Notes)
	}
	if got.LastInteraction == nil || !got.LastInteraction.Equal(*want.LastInteraction) {
		t.Errorf("lastInteraction = %v, want %v", got.LastInteraction, want.LastInteraction)
	}
	if got.Metadata["starred"] != true {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestGetNodeMissing(t *testing.T) {
	db := testDB(t)

	n, err := db.GetNode("ghost")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if n != nil {
		t.Error("expected nil for missing node")
	}
}

func TestCreateNodeDuplicate(t *testing.T) {
	db := testDB(t)

	if err := db.CreateNode(sampleNode("n1")); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	err := db.CreateNode(sampleNode("n1"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUpdateNode(t *testing.T) {
	db := testDB(t)

	n := sampleNode("n1")
	if err := db.CreateNode(n); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	n.Name = "Ada Chen-Okafor"
	n.LastInteraction = nil
	updated, err := db.UpdateNode(n)
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if !updated {
		t.Fatal("expected row to be updated")
	}

	got, _ := db.GetNode("n1")
	if got.Name != "Ada Chen-Okafor" {
		t.Errorf("name = %q", got.Name)
	}
	if got.LastInteraction != nil {
		t.Errorf("lastInteraction = %v, want nil", got.LastInteraction)
	}
}

func TestUpdateNodeMissing(t *testing.T) {
	db := testDB(t)

	updated, err := db.UpdateNode(sampleNode("ghost"))
	if err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	if updated {
		t.Error("expected no rows updated for missing node")
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	db := testDB(t)

	for _, id := range []string{"a", "b", "c"} {
		n := sampleNode(id)
		if err := db.CreateNode(n); err != nil {
			t.Fatalf("CreateNode %s: %v", id, err)
		}
	}
	for _, e := range []*Edge{
		{ID: "e1", Source: "a", Target: "b", Type: EdgeFriend, Strength: 5, Direction: DirBidirectional},
		{ID: "e2", Source: "b", Target: "c", Type: EdgeBusiness, Strength: 5, Direction: DirBidirectional},
	} {
		if err := db.CreateEdge(e); err != nil {
			t.Fatalf("CreateEdge %s: %v", e.ID, err)
		}
	}

	deleted, err := db.DeleteNode("b")
	if err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if !deleted {
		t.Fatal("expected node deleted")
	}

	edges, err := db.ListEdges()
	if err != nil {
		t.Fatalf("ListEdges: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("expected cascade to remove all incident edges, got %d", len(edges))
	}
}

func TestListNodesByField(t *testing.T) {
	db := testDB(t)

	a := sampleNode("a")
	b := sampleNode("b")
	b.Type = NodeCompany
	b.Occupation.Industry = "Finance"
	b.Occupation.Company = "Northwind Capital"
	for _, n := range []*Node{a, b} {
		if err := db.CreateNode(n); err != nil {
			t.Fatalf("CreateNode: %v", err)
		}
	}

	people, err := db.ListNodesByType(NodePerson)
	if err != nil {
		t.Fatalf("ListNodesByType: %v", err)
	}
	if len(people) != 1 || people[0].ID != "a" {
		t.Errorf("by type = %v", people)
	}

	finance, err := db.ListNodesByIndustry("Finance")
	if err != nil {
		t.Fatalf("ListNodesByIndustry: %v", err)
	}
	if len(finance) != 1 || finance[0].ID != "b" {
		t.Errorf("by industry = %v", finance)
	}

	company, err := db.ListNodesByCompany("Northwind Capital")
	if err != nil {
		t.Fatalf("ListNodesByCompany: %v", err)
	}
	if len(company) != 1 || company[0].ID != "b" {
		t.Errorf("by company = %v", company)
	}
}

func TestSearchNodes(t *testing.T) {
	db := testDB(t)

	if err := db.CreateNode(sampleNode("n1")); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	for _, q := range []string{"ada", "LUMEN", "logistic", "cto", "@example"} {
		found, err := db.SearchNodes(q)
		if err != nil {
			t.Fatalf("SearchNodes(%q): %v", q, err)
		}
		if len(found) != 1 {
			t.Errorf("SearchNodes(%q) = %d results, want 1", q, len(found))
		}
	}

	found, err := db.SearchNodes("nobody")
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("SearchNodes(nobody) = %d results, want 0", len(found))
	}
}
