package store

import (
	"database/sql"
	"fmt"

	"github.com/codexray/codexray/internal/graph"
)

const edgeColumns = "id, source_id, target_id, kind, metadata"

// UpsertEdge inserts or replaces an edge (idempotent on id).
func (s *Store) UpsertEdge(e *graph.Edge) error {
	_, err := s.q.Exec(`
		INSERT INTO edges (`+edgeColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET metadata=excluded.metadata`,
		e.ID, e.SourceID, e.TargetID, string(e.Kind), marshalMeta(e.Metadata))
	if err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// UpsertEdges upserts a batch of edges.
func (s *Store) UpsertEdges(edges []*graph.Edge) error {
	for _, e := range edges {
		if err := s.UpsertEdge(e); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEdgesByFile removes every edge whose source or target node lives
// in the file.
func (s *Store) DeleteEdgesByFile(path string) error {
	_, err := s.q.Exec(`
		DELETE FROM edges WHERE id IN (
			SELECT e.id FROM edges e
			JOIN nodes n ON n.id = e.source_id OR n.id = e.target_id
			WHERE n.file_path = ?
		)`, path)
	return err
}

// CountEdges returns the total edge count.
func (s *Store) CountEdges() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM edges").Scan(&count)
	return count, err
}

// Callers returns nodes with a calls edge into id, ordered by id.
func (s *Store) Callers(id string, limit int) ([]*graph.Node, error) {
	return s.neighborNodes(`
		SELECT `+prefixed("n", nodeColumns)+` FROM edges e
		JOIN nodes n ON n.id = e.source_id
		WHERE e.target_id = ? AND e.kind = 'calls'
		ORDER BY n.id LIMIT ?`, id, limit)
}

// Callees returns nodes id has a calls edge into, ordered by id.
func (s *Store) Callees(id string, limit int) ([]*graph.Node, error) {
	return s.neighborNodes(`
		SELECT `+prefixed("n", nodeColumns)+` FROM edges e
		JOIN nodes n ON n.id = e.target_id
		WHERE e.source_id = ? AND e.kind = 'calls'
		ORDER BY n.id LIMIT ?`, id, limit)
}

// Neighbor is a node paired with the edge kind that reached it.
type Neighbor struct {
	Node *graph.Node
	Kind graph.EdgeKind
}

// Dependencies returns the nodes id points at, across all edge kinds,
// grouped by kind.
func (s *Store) Dependencies(id string) (map[graph.EdgeKind][]*graph.Node, error) {
	return s.groupedNeighbors(`
		SELECT e.kind, `+prefixed("n", nodeColumns)+` FROM edges e
		JOIN nodes n ON n.id = e.target_id
		WHERE e.source_id = ?
		ORDER BY e.kind, n.id`, id)
}

// Dependents returns the nodes pointing at id, across all edge kinds,
// grouped by kind.
func (s *Store) Dependents(id string) (map[graph.EdgeKind][]*graph.Node, error) {
	return s.groupedNeighbors(`
		SELECT e.kind, `+prefixed("n", nodeColumns)+` FROM edges e
		JOIN nodes n ON n.id = e.source_id
		WHERE e.target_id = ?
		ORDER BY e.kind, n.id`, id)
}

// Children returns structural children (has_method, has_property,
// contains) ordered by start line.
func (s *Store) Children(id string) ([]*graph.Node, error) {
	return s.neighborNodes(`
		SELECT `+prefixed("n", nodeColumns)+` FROM edges e
		JOIN nodes n ON n.id = e.target_id
		WHERE e.source_id = ? AND e.kind IN ('has_method', 'has_property', 'contains')
		ORDER BY n.start_line LIMIT ?`, id, -1)
}

func (s *Store) neighborNodes(query string, id string, limit int) ([]*graph.Node, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.q.Query(query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}
	return scanNodes(rows)
}

func (s *Store) groupedNeighbors(query string, id string) (map[graph.EdgeKind][]*graph.Node, error) {
	rows, err := s.q.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("grouped neighbors: %w", err)
	}
	defer rows.Close()

	result := make(map[graph.EdgeKind][]*graph.Node)
	for rows.Next() {
		var kind string
		var n graph.Node
		var nodeKind, meta string
		var exported int
		if err := rows.Scan(&kind, &n.ID, &nodeKind, &n.Name, &n.QualifiedName, &n.FilePath,
			&n.StartLine, &n.EndLine, &n.Language, &n.Signature, &n.Docstring,
			&exported, &n.Complexity, &meta); err != nil {
			return nil, err
		}
		n.Kind = graph.NodeKind(nodeKind)
		n.Exported = exported != 0
		n.Metadata = unmarshalMeta(meta)
		result[graph.EdgeKind(kind)] = append(result[graph.EdgeKind(kind)], &n)
	}
	return result, rows.Err()
}

// edgesByKinds returns all edges of the given kinds for the traversal
// algorithms, ordered by (source, target) for stable iteration.
func (s *Store) edgesByKinds(kinds []graph.EdgeKind) ([]*graph.Edge, error) {
	if len(kinds) == 0 {
		return nil, nil
	}
	query := "SELECT " + edgeColumns + " FROM edges WHERE kind IN (" + placeholders(len(kinds)) + ") ORDER BY source_id, target_id"
	args := make([]any, len(kinds))
	for i, k := range kinds {
		args[i] = string(k)
	}
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("edges by kinds: %w", err)
	}
	return scanEdges(rows)
}

// AllEdges returns every edge ordered by id.
func (s *Store) AllEdges() ([]*graph.Edge, error) {
	rows, err := s.q.Query("SELECT " + edgeColumns + " FROM edges ORDER BY id")
	if err != nil {
		return nil, err
	}
	return scanEdges(rows)
}

func scanEdges(rows *sql.Rows) ([]*graph.Edge, error) {
	defer rows.Close()
	var result []*graph.Edge
	for rows.Next() {
		var e graph.Edge
		var kind, meta string
		if err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &kind, &meta); err != nil {
			return nil, err
		}
		e.Kind = graph.EdgeKind(kind)
		e.Metadata = unmarshalMeta(meta)
		result = append(result, &e)
	}
	return result, rows.Err()
}

func placeholders(n int) string {
	s := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			s = append(s, ',')
		}
		s = append(s, '?')
	}
	return string(s)
}

// prefixed rewrites "a, b, c" to "n.a, n.b, n.c" for joined selects.
func prefixed(alias, cols string) string {
	out := alias + "."
	for i := 0; i < len(cols); i++ {
		out += string(cols[i])
		if cols[i] == ' ' {
			out += alias + "."
		}
	}
	return out
}
