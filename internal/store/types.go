// Package store is the persistence layer: a SQLite database holding the
// graph's nodes and edges. Structured sub-records (scores, skills, notes,
// social handles, metadata) are stored as JSON blobs; fields used in lookups
// get their own indexed columns.
package store

import (
	"errors"
	"time"
)

// ErrDuplicate is returned when an insert collides with an existing id.
var ErrDuplicate = errors.New("already exists")

// RootNodeID is the reserved id of the graph owner's own node.
const RootNodeID = "root"

// Node types.
const (
	NodePerson  = "person"
	NodeCompany = "company"
)

// Edge types.
const (
	EdgeFriend     = "friend"
	EdgeBusiness   = "business"
	EdgeFamily     = "family"
	EdgeIntro      = "intro"
	EdgeOnlineOnly = "online-only"
)

// Edge directions. Direction is a semantic annotation on the relationship;
// traversal and de-duplication treat every edge as undirected.
const (
	DirBidirectional  = "bidirectional"
	DirSourceToTarget = "source-to-target"
	DirTargetToSource = "target-to-source"
)

// Node is a person or company in the relationship graph.
type Node struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Email    string            `json:"email,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Location string            `json:"location,omitempty"`
	Social   map[string]string `json:"social,omitempty"`

	Occupation Occupation `json:"occupation"`
	Skills     []Skill    `json:"skills"`

	Scores        Scores `json:"scores"`
	LeverageScore int    `json:"leverageScore"`

	Notes           []Note         `json:"notes"`
	LastInteraction *time.Time     `json:"lastInteraction"`
	Metadata        map[string]any `json:"metadata,omitempty"`

	CreatedAt int64 `json:"-"`
	UpdatedAt int64 `json:"-"`
}

// Occupation describes what a node does and where.
type Occupation struct {
	Role     string `json:"role,omitempty"`
	Company  string `json:"company,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// Skill is a weighted capability tag.
type Skill struct {
	Tag    string `json:"tag"`
	Weight int    `json:"weight"`
}

// Scores are the six 0-10 leverage dimensions.
type Scores struct {
	CapitalAccess int `json:"capitalAccess"`
	SkillValue    int `json:"skillValue"`
	NetworkReach  int `json:"networkReach"`
	Reliability   int `json:"reliability"`
	Speed         int `json:"speed"`
	Alignment     int `json:"alignment"`
}

// Note is a dated free-text annotation on a node.
type Note struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// Edge is a relationship between two nodes.
type Edge struct {
	ID        string  `json:"id"`
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Type      string  `json:"type"`
	Strength  float64 `json:"strength"`
	Direction string  `json:"direction"`

	ContextTags     []string   `json:"contextTags"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastInteraction *time.Time `json:"lastInteraction"`
}

// Other returns the endpoint of the edge that isn't the given node.
func (e *Edge) Other(nodeID string) string {
	if e.Source == nodeID {
		return e.Target
	}
	return e.Source
}

// Touches reports whether the edge is incident to the given node.
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}
