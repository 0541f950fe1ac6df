package store

import (
	"database/sql"
	"fmt"

	"github.com/codexray/codexray/internal/graph"
)

const nodeColumns = "id, kind, name, qualified_name, file_path, start_line, end_line, language, signature, docstring, exported, complexity, metadata"

// UpsertNode inserts or replaces a node (idempotent on id).
func (s *Store) UpsertNode(n *graph.Node) error {
	_, err := s.q.Exec(`
		INSERT INTO nodes (`+nodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind, name=excluded.name, qualified_name=excluded.qualified_name,
			file_path=excluded.file_path, start_line=excluded.start_line, end_line=excluded.end_line,
			language=excluded.language, signature=excluded.signature, docstring=excluded.docstring,
			exported=excluded.exported, complexity=excluded.complexity, metadata=excluded.metadata`,
		n.ID, string(n.Kind), n.Name, n.QualifiedName, n.FilePath, n.StartLine, n.EndLine,
		n.Language, n.Signature, n.Docstring, boolInt(n.Exported), n.Complexity, marshalMeta(n.Metadata))
	if err != nil {
		return fmt.Errorf("upsert node: %w", err)
	}
	return nil
}

// UpsertNodes upserts a batch of nodes with one UpsertNode call each; no
// statement is prepared ahead of the loop.
func (s *Store) UpsertNodes(nodes []*graph.Node) error {
	for _, n := range nodes {
		if err := s.UpsertNode(n); err != nil {
			return err
		}
	}
	return nil
}

// GetNode fetches a node by id, or nil when absent.
func (s *Store) GetNode(id string) (*graph.Node, error) {
	row := s.q.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE id=?", id)
	return scanNode(row)
}

// NodesByName resolves a name with tiered matching: exact name, then exact
// qualified name, then qualified_name LIKE '%name%' (capped at 20).
// Results are ordered (exported DESC, file_path ASC) for deterministic
// disambiguation.
func (s *Store) NodesByName(name string, kind string) ([]*graph.Node, error) {
	const order = " ORDER BY exported DESC, file_path ASC"

	queries := []struct {
		where string
		arg   string
		limit int
	}{
		{"name = ?", name, 0},
		{"qualified_name = ?", name, 0},
		{"qualified_name LIKE ?", "%" + name + "%", 20},
	}
	for _, q := range queries {
		query := "SELECT " + nodeColumns + " FROM nodes WHERE " + q.where
		args := []any{q.arg}
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, kind)
		}
		query += order
		if q.limit > 0 {
			query += fmt.Sprintf(" LIMIT %d", q.limit)
		}
		rows, err := s.q.Query(query, args...)
		if err != nil {
			return nil, fmt.Errorf("nodes by name: %w", err)
		}
		nodes, err := scanNodes(rows)
		if err != nil {
			return nil, err
		}
		if len(nodes) > 0 {
			return nodes, nil
		}
	}
	return nil, nil
}

// NodesByFile returns all nodes in a file ordered by start line.
func (s *Store) NodesByFile(path string) ([]*graph.Node, error) {
	rows, err := s.q.Query("SELECT "+nodeColumns+" FROM nodes WHERE file_path=? ORDER BY start_line", path)
	if err != nil {
		return nil, fmt.Errorf("nodes by file: %w", err)
	}
	return scanNodes(rows)
}

// DeleteNodesByFile removes all nodes in a file. Edges referencing them
// cascade via foreign keys.
func (s *Store) DeleteNodesByFile(path string) error {
	_, err := s.q.Exec("DELETE FROM nodes WHERE file_path=?", path)
	return err
}

// CountNodes returns the total node count.
func (s *Store) CountNodes() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count)
	return count, err
}

// AllNodes returns every node, ordered by id for determinism.
func (s *Store) AllNodes() ([]*graph.Node, error) {
	rows, err := s.q.Query("SELECT " + nodeColumns + " FROM nodes ORDER BY id")
	if err != nil {
		return nil, err
	}
	return scanNodes(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*graph.Node, error) {
	var n graph.Node
	var kind, meta string
	var exported int
	err := row.Scan(&n.ID, &kind, &n.Name, &n.QualifiedName, &n.FilePath, &n.StartLine, &n.EndLine,
		&n.Language, &n.Signature, &n.Docstring, &exported, &n.Complexity, &meta)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	n.Kind = graph.NodeKind(kind)
	n.Exported = exported != 0
	n.Metadata = unmarshalMeta(meta)
	return &n, nil
}

func scanNodes(rows *sql.Rows) ([]*graph.Node, error) {
	defer rows.Close()
	var result []*graph.Node
	for rows.Next() {
		var n graph.Node
		var kind, meta string
		var exported int
		if err := rows.Scan(&n.ID, &kind, &n.Name, &n.QualifiedName, &n.FilePath, &n.StartLine, &n.EndLine,
			&n.Language, &n.Signature, &n.Docstring, &exported, &n.Complexity, &meta); err != nil {
			return nil, err
		}
		n.Kind = graph.NodeKind(kind)
		n.Exported = exported != 0
		n.Metadata = unmarshalMeta(meta)
		result = append(result, &n)
	}
	return result, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
