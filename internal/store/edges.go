package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const edgeColumns = `id, source, target, type, strength, direction, context_tags, created_at, last_interaction`

// CreateEdge inserts a new edge. Returns ErrDuplicate if the id is taken.
// Both endpoints must exist or the foreign-key check rejects the insert.
func (db *DB) CreateEdge(e *Edge) error {
	tags, err := marshalTags(e)
	if err != nil {
		return fmt.Errorf("create edge %s: %w", e.ID, err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err = db.Exec(`
		INSERT INTO edges (`+edgeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Source, e.Target, e.Type, e.Strength, e.Direction, tags,
		e.CreatedAt.UnixMilli(), msOrNil(e.LastInteraction))
	if isUniqueViolation(err) {
		return fmt.Errorf("create edge %s: %w", e.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("create edge %s: %w", e.ID, err)
	}
	return nil
}

// GetEdge returns an edge by id, or nil if not found.
func (db *DB) GetEdge(id string) (*Edge, error) {
	row := db.QueryRow(`SELECT `+edgeColumns+` FROM edges WHERE id = ?`, id)
	e, err := scanEdge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get edge %s: %w", id, err)
	}
	return e, nil
}

// ListEdges returns all edges ordered by creation time. The order is the
// graph index's insertion order, which keeps traversal deterministic.
func (db *DB) ListEdges() ([]*Edge, error) {
	return db.queryEdges(`SELECT ` + edgeColumns + ` FROM edges ORDER BY created_at, id`)
}

// EdgesTouching returns all edges incident to the node, in either direction.
func (db *DB) EdgesTouching(nodeID string) ([]*Edge, error) {
	return db.queryEdges(
		`SELECT `+edgeColumns+` FROM edges WHERE source = ? OR target = ? ORDER BY created_at, id`,
		nodeID, nodeID)
}

// EdgeBetween returns the edge connecting the two nodes in either
// orientation, or nil if none exists. Edges are logically undirected for
// de-duplication purposes.
func (db *DB) EdgeBetween(a, b string) (*Edge, error) {
	row := db.QueryRow(`
		SELECT `+edgeColumns+` FROM edges
		WHERE (source = ? AND target = ?) OR (source = ? AND target = ?)
		ORDER BY created_at, id LIMIT 1
	`, a, b, b, a)
	e, err := scanEdge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("edge between %s and %s: %w", a, b, err)
	}
	return e, nil
}

// UpdateEdge writes the full edge row. Returns whether a row was updated.
func (db *DB) UpdateEdge(e *Edge) (bool, error) {
	tags, err := marshalTags(e)
	if err != nil {
		return false, fmt.Errorf("update edge %s: %w", e.ID, err)
	}

	res, err := db.Exec(`
		UPDATE edges SET source = ?, target = ?, type = ?, strength = ?, direction = ?,
			context_tags = ?, last_interaction = ?
		WHERE id = ?
	`, e.Source, e.Target, e.Type, e.Strength, e.Direction, tags,
		msOrNil(e.LastInteraction), e.ID)
	if err != nil {
		return false, fmt.Errorf("update edge %s: %w", e.ID, err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// DeleteEdge removes an edge by id. Returns whether a row was deleted.
func (db *DB) DeleteEdge(id string) (bool, error) {
	res, err := db.Exec("DELETE FROM edges WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete edge %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (db *DB) queryEdges(query string, args ...any) ([]*Edge, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var edges []*Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func scanEdge(row rowScanner) (*Edge, error) {
	var e Edge
	var tags string
	var createdAt int64
	var lastInteraction sql.NullInt64

	err := row.Scan(&e.ID, &e.Source, &e.Target, &e.Type, &e.Strength, &e.Direction,
		&tags, &createdAt, &lastInteraction)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &e.ContextTags); err != nil {
		return nil, fmt.Errorf("context_tags blob for %s: %w", e.ID, err)
	}
	e.CreatedAt = time.UnixMilli(createdAt).UTC()
	e.LastInteraction = timeOrNil(lastInteraction)
	return &e, nil
}

func marshalTags(e *Edge) (string, error) {
	if e.ContextTags == nil {
		e.ContextTags = []string{}
	}
	b, err := json.Marshal(e.ContextTags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
