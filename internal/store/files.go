package store

import (
	"database/sql"
	"fmt"

	"github.com/codexray/codexray/internal/graph"
)

// UpsertFile inserts or replaces a file record (idempotent on path).
func (s *Store) UpsertFile(f *graph.FileRecord) error {
	_, err := s.q.Exec(`
		INSERT INTO files (path, hash, language, indexed_at, symbol_count, line_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash=excluded.hash, language=excluded.language, indexed_at=excluded.indexed_at,
			symbol_count=excluded.symbol_count, line_count=excluded.line_count`,
		f.Path, f.Hash, f.Language, f.IndexedAt, f.SymbolCount, f.LineCount)
	if err != nil {
		return fmt.Errorf("upsert file: %w", err)
	}
	return nil
}

// GetFile fetches a file record by relative path, or nil when absent.
func (s *Store) GetFile(path string) (*graph.FileRecord, error) {
	row := s.q.QueryRow("SELECT path, hash, language, indexed_at, symbol_count, line_count FROM files WHERE path=?", path)
	var f graph.FileRecord
	err := row.Scan(&f.Path, &f.Hash, &f.Language, &f.IndexedAt, &f.SymbolCount, &f.LineCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// AllFiles returns every file record ordered by path.
func (s *Store) AllFiles() ([]*graph.FileRecord, error) {
	rows, err := s.q.Query("SELECT path, hash, language, indexed_at, symbol_count, line_count FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("all files: %w", err)
	}
	defer rows.Close()
	var result []*graph.FileRecord
	for rows.Next() {
		var f graph.FileRecord
		if err := rows.Scan(&f.Path, &f.Hash, &f.Language, &f.IndexedAt, &f.SymbolCount, &f.LineCount); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	return result, rows.Err()
}

// FileHashes returns path -> hash for every indexed file.
func (s *Store) FileHashes() (map[string]string, error) {
	rows, err := s.q.Query("SELECT path, hash FROM files")
	if err != nil {
		return nil, fmt.Errorf("file hashes: %w", err)
	}
	defer rows.Close()
	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

// DeleteFile removes a file record. Its nodes and edges are removed
// separately by the indexer (DeleteEdgesByFile + DeleteNodesByFile).
func (s *Store) DeleteFile(path string) error {
	_, err := s.q.Exec("DELETE FROM files WHERE path=?", path)
	return err
}

// CountFiles returns the number of indexed files.
func (s *Store) CountFiles() (int, error) {
	var count int
	err := s.q.QueryRow("SELECT COUNT(*) FROM files").Scan(&count)
	return count, err
}
