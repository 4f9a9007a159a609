package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const nodeColumns = `id, type, name, email, phone, location, social,
	role, company, industry, skills, scores, leverage_score, notes,
	last_interaction, metadata, created_at, updated_at`

// CreateNode inserts a new node. Returns ErrDuplicate if the id is taken.
func (db *DB) CreateNode(n *Node) error {
	now := time.Now().UnixMilli()
	social, skills, scores, notes, metadata, err := marshalNodeBlobs(n)
	if err != nil {
		return fmt.Errorf("create node %s: %w", n.ID, err)
	}

	_, err = db.Exec(`
		INSERT INTO nodes (`+nodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Type, n.Name, n.Email, n.Phone, n.Location, social,
		n.Occupation.Role, n.Occupation.Company, n.Occupation.Industry,
		skills, scores, n.LeverageScore, notes,
		msOrNil(n.LastInteraction), metadata, now, now)
	if isUniqueViolation(err) {
		return fmt.Errorf("create node %s: %w", n.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("create node %s: %w", n.ID, err)
	}

	n.CreatedAt = now
	n.UpdatedAt = now
	return nil
}

// GetNode returns a node by id, or nil if not found.
func (db *DB) GetNode(id string) (*Node, error) {
	row := db.QueryRow(`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get node %s: %w", id, err)
	}
	return n, nil
}

// ListNodes returns all nodes ordered by creation time.
func (db *DB) ListNodes() ([]*Node, error) {
	return db.queryNodes(`SELECT ` + nodeColumns + ` FROM nodes ORDER BY created_at, id`)
}

// ListNodesByType returns nodes of the given type (person or company).
func (db *DB) ListNodesByType(nodeType string) ([]*Node, error) {
	return db.queryNodes(`SELECT `+nodeColumns+` FROM nodes WHERE type = ? ORDER BY created_at, id`, nodeType)
}

// ListNodesByIndustry returns nodes whose industry matches exactly.
// Substring matching lives in the graph index; this is the indexed lookup.
func (db *DB) ListNodesByIndustry(industry string) ([]*Node, error) {
	return db.queryNodes(`SELECT `+nodeColumns+` FROM nodes WHERE industry = ? ORDER BY created_at, id`, industry)
}

// ListNodesByCompany returns nodes whose company matches exactly.
func (db *DB) ListNodesByCompany(company string) ([]*Node, error) {
	return db.queryNodes(`SELECT `+nodeColumns+` FROM nodes WHERE company = ? ORDER BY created_at, id`, company)
}

// SearchNodes returns nodes whose name, email, role, company or industry
// contains the query, case-insensitively.
func (db *DB) SearchNodes(query string) ([]*Node, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return db.queryNodes(`
		SELECT `+nodeColumns+` FROM nodes
		WHERE lower(name) LIKE ? OR lower(email) LIKE ? OR lower(role) LIKE ?
			OR lower(company) LIKE ? OR lower(industry) LIKE ?
		ORDER BY created_at, id
	`, pattern, pattern, pattern, pattern, pattern)
}

// UpdateNode writes the full node row. Returns sql.ErrNoRows-free semantics:
// a missing id updates zero rows and is reported via the bool.
func (db *DB) UpdateNode(n *Node) (bool, error) {
	now := time.Now().UnixMilli()
	social, skills, scores, notes, metadata, err := marshalNodeBlobs(n)
	if err != nil {
		return false, fmt.Errorf("update node %s: %w", n.ID, err)
	}

	res, err := db.Exec(`
		UPDATE nodes SET type = ?, name = ?, email = ?, phone = ?, location = ?, social = ?,
			role = ?, company = ?, industry = ?, skills = ?, scores = ?, leverage_score = ?,
			notes = ?, last_interaction = ?, metadata = ?, updated_at = ?
		WHERE id = ?
	`, n.Type, n.Name, n.Email, n.Phone, n.Location, social,
		n.Occupation.Role, n.Occupation.Company, n.Occupation.Industry,
		skills, scores, n.LeverageScore, notes,
		msOrNil(n.LastInteraction), metadata, now, n.ID)
	if err != nil {
		return false, fmt.Errorf("update node %s: %w", n.ID, err)
	}
	affected, _ := res.RowsAffected()
	if affected > 0 {
		n.UpdatedAt = now
	}
	return affected > 0, nil
}

// DeleteNode removes a node. Incident edges are removed by the foreign-key
// cascade. Returns whether a row was deleted.
func (db *DB) DeleteNode(id string) (bool, error) {
	res, err := db.Exec("DELETE FROM nodes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete node %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (db *DB) queryNodes(query string, args ...any) ([]*Node, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*Node, error) {
	var n Node
	var social, skills, scores, notes, metadata string
	var lastInteraction sql.NullInt64

	err := row.Scan(&n.ID, &n.Type, &n.Name, &n.Email, &n.Phone, &n.Location, &social,
		&n.Occupation.Role, &n.Occupation.Company, &n.Occupation.Industry,
		&skills, &scores, &n.LeverageScore, &notes,
		&lastInteraction, &metadata, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(social), &n.Social); err != nil {
		return nil, fmt.Errorf("social blob for %s: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(skills), &n.Skills); err != nil {
		return nil, fmt.Errorf("skills blob for %s: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(scores), &n.Scores); err != nil {
		return nil, fmt.Errorf("scores blob for %s: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(notes), &n.Notes); err != nil {
		return nil, fmt.Errorf("notes blob for %s: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(metadata), &n.Metadata); err != nil {
		return nil, fmt.Errorf("metadata blob for %s: %w", n.ID, err)
	}
	n.LastInteraction = timeOrNil(lastInteraction)
	return &n, nil
}

func marshalNodeBlobs(n *Node) (social, skills, scores, notes, metadata string, err error) {
	if n.Social == nil {
		n.Social = map[string]string{}
	}
	if n.Skills == nil {
		n.Skills = []Skill{}
	}
	if n.Notes == nil {
		n.Notes = []Note{}
	}
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}

	parts := make([]string, 5)
	for i, v := range []any{n.Social, n.Skills, n.Scores, n.Notes, n.Metadata} {
		b, merr := json.Marshal(v)
		if merr != nil {
			return "", "", "", "", "", merr
		}
		parts[i] = string(b)
	}
	return parts[0], parts[1], parts[2], parts[3], parts[4], nil
}

func msOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}
