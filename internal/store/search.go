package store

import (
	"fmt"
	"strings"

	"github.com/codexray/codexray/internal/graph"
)

// SearchNodes runs a keyword search over name, qualified name, signature,
// and docstring. The primary path is an FTS5 prefix query ranked by bm25;
// queries the FTS engine rejects fall back to LIKE matching and the
// rejection is never surfaced.
func (s *Store) SearchNodes(query string, kind string, limit int) ([]*graph.Node, error) {
	if limit <= 0 {
		limit = 20
	}
	sanitized := sanitizeQuery(query)
	if sanitized == "" {
		return nil, nil
	}

	nodes, err := s.searchFTS(sanitized, kind, limit)
	if err == nil {
		return nodes, nil
	}
	return s.searchLike(sanitized, kind, limit)
}

// sanitizeQuery keeps word characters and spaces; everything else would be
// FTS5 syntax.
func sanitizeQuery(q string) string {
	var sb strings.Builder
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ' ':
			sb.WriteRune(r)
		default:
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String())
}

func (s *Store) searchFTS(sanitized, kind string, limit int) ([]*graph.Node, error) {
	terms := strings.Fields(sanitized)
	for i, t := range terms {
		terms[i] = t + "*"
	}
	match := strings.Join(terms, " ")

	query := `
		SELECT ` + prefixed("n", nodeColumns) + `
		FROM node_fts f
		JOIN nodes n ON n.rowid = f.rowid
		WHERE node_fts MATCH ?`
	args := []any{match}
	if kind != "" {
		query += " AND n.kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY f.rank LIMIT ?"
	args = append(args, limit)

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	return scanNodes(rows)
}

func (s *Store) searchLike(sanitized, kind string, limit int) ([]*graph.Node, error) {
	pattern := "%" + sanitized + "%"
	query := "SELECT " + nodeColumns + " FROM nodes WHERE (name LIKE ? OR qualified_name LIKE ?)"
	args := []any{pattern, pattern}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY exported DESC, file_path ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("like search: %w", err)
	}
	return scanNodes(rows)
}
