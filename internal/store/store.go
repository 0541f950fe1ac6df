// Package store persists the code graph in SQLite: nodes, edges, file
// records, the FTS5 keyword index, and the TF-IDF tables.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection for graph storage.
type Store struct {
	db     *sql.DB
	q      Querier // active querier: db or tx
	dbPath string
}

// openPragmas tunes the connection: WAL journaling, 64 MiB page cache,
// 256 MiB mmap, enforced foreign keys, synchronous=NORMAL.
const openPragmas = "?_pragma=journal_mode(WAL)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=foreign_keys(ON)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=cache_size(-65536)" +
	"&_pragma=mmap_size(268435456)"

// Open opens or creates the graph database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+openPragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// Each pooled connection would otherwise see its own empty :memory: db.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction. The
// callback receives a transaction-scoped Store; the receiver's q field is
// never mutated, so concurrent readers are unaffected.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying sql.DB (for advanced queries).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Reset removes all indexed data while keeping the schema.
func (s *Store) Reset() error {
	for _, stmt := range []string{
		"DELETE FROM edges",
		"DELETE FROM nodes",
		"DELETE FROM files",
		"DELETE FROM node_tokens",
		"DELETE FROM token_idf",
	} {
		if _, err := s.q.Exec(stmt); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return nil
}

// Vacuum reclaims free pages. Must run outside any transaction.
func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		indexed_at TEXT NOT NULL,
		symbol_count INTEGER NOT NULL DEFAULT 0,
		line_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		qualified_name TEXT NOT NULL,
		file_path TEXT NOT NULL,
		start_line INTEGER NOT NULL,
		end_line INTEGER NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		signature TEXT NOT NULL DEFAULT '',
		docstring TEXT NOT NULL DEFAULT '',
		exported INTEGER NOT NULL DEFAULT 0,
		complexity INTEGER NOT NULL DEFAULT 1,
		metadata TEXT NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);
	CREATE INDEX IF NOT EXISTS idx_nodes_qualified ON nodes(qualified_name);
	CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file_path);
	CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);

	CREATE TABLE IF NOT EXISTS edges (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		target_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id, kind);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id, kind);
	CREATE INDEX IF NOT EXISTS idx_edges_kind ON edges(kind);

	CREATE VIRTUAL TABLE IF NOT EXISTS node_fts USING fts5(
		name, qualified_name, signature, docstring,
		content='nodes', content_rowid='rowid',
		tokenize='unicode61 remove_diacritics 2'
	);

	CREATE TRIGGER IF NOT EXISTS nodes_fts_insert AFTER INSERT ON nodes BEGIN
		INSERT INTO node_fts(rowid, name, qualified_name, signature, docstring)
		VALUES (new.rowid, new.name, new.qualified_name, new.signature, new.docstring);
	END;

	CREATE TRIGGER IF NOT EXISTS nodes_fts_delete AFTER DELETE ON nodes BEGIN
		INSERT INTO node_fts(node_fts, rowid, name, qualified_name, signature, docstring)
		VALUES ('delete', old.rowid, old.name, old.qualified_name, old.signature, old.docstring);
	END;

	CREATE TRIGGER IF NOT EXISTS nodes_fts_update AFTER UPDATE ON nodes BEGIN
		INSERT INTO node_fts(node_fts, rowid, name, qualified_name, signature, docstring)
		VALUES ('delete', old.rowid, old.name, old.qualified_name, old.signature, old.docstring);
		INSERT INTO node_fts(rowid, name, qualified_name, signature, docstring)
		VALUES (new.rowid, new.name, new.qualified_name, new.signature, new.docstring);
	END;

	CREATE TABLE IF NOT EXISTS node_tokens (
		node_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		token TEXT NOT NULL,
		tf REAL NOT NULL,
		source TEXT NOT NULL,
		PRIMARY KEY (node_id, token, source)
	);

	CREATE INDEX IF NOT EXISTS idx_node_tokens_token ON node_tokens(token);

	CREATE TABLE IF NOT EXISTS token_idf (
		token TEXT PRIMARY KEY,
		idf REAL NOT NULL,
		df INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// marshalMeta serializes metadata to JSON.
func marshalMeta(meta map[string]any) string {
	if meta == nil {
		return "{}"
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// unmarshalMeta deserializes JSON metadata.
func unmarshalMeta(data string) map[string]any {
	if data == "" || data == "{}" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil
	}
	return m
}

// Now returns the current time in ISO 8601 format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
