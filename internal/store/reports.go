package store

import (
	"fmt"

	"github.com/codexray/codexray/internal/graph"
)

// DeadCodeOptions selects which symbols the dead-code report considers.
type DeadCodeOptions struct {
	Kinds []graph.NodeKind
	// ExportedOnly restricts the report to exported symbols; the default
	// (false) restricts it to non-exported ones, since exported symbols
	// may be consumed outside the indexed tree.
	ExportedOnly bool
}

// FindDeadCode returns nodes of the requested kinds with zero incoming
// dependency edges (calls, imports, extends, implements, uses_type).
func (s *Store) FindDeadCode(opts DeadCodeOptions) ([]*graph.Node, error) {
	if len(opts.Kinds) == 0 {
		opts.Kinds = []graph.NodeKind{graph.KindFunction, graph.KindMethod, graph.KindClass}
	}
	kindArgs := make([]any, len(opts.Kinds))
	for i, k := range opts.Kinds {
		kindArgs[i] = string(k)
	}

	query := `
		SELECT ` + nodeColumns + ` FROM nodes
		WHERE kind IN (` + placeholders(len(opts.Kinds)) + `)
		AND id NOT IN (
			SELECT target_id FROM edges
			WHERE kind IN ('calls', 'imports', 'extends', 'implements', 'uses_type')
		)`
	if opts.ExportedOnly {
		query += " AND exported = 1"
	} else {
		query += " AND exported = 0"
	}
	query += " ORDER BY file_path, start_line"

	rows, err := s.q.Query(query, kindArgs...)
	if err != nil {
		return nil, fmt.Errorf("dead code: %w", err)
	}
	return scanNodes(rows)
}

// Hotspot is a node with its edge degrees across all edge kinds.
type Hotspot struct {
	Node      *graph.Node
	InDegree  int
	OutDegree int
}

// hotspotKinds are the node kinds degree ranking considers.
var hotspotKinds = []graph.NodeKind{
	graph.KindFunction, graph.KindMethod, graph.KindClass,
	graph.KindInterface, graph.KindComponent, graph.KindHook,
}

// FindHotspots ranks nodes by total degree (in + out) across all edges and
// returns the top limit.
func (s *Store) FindHotspots(limit int) ([]*Hotspot, error) {
	if limit <= 0 {
		limit = 10
	}
	kindArgs := make([]any, len(hotspotKinds))
	for i, k := range hotspotKinds {
		kindArgs[i] = string(k)
	}
	query := `
		SELECT ` + nodeColumns + `,
			(SELECT COUNT(*) FROM edges WHERE target_id = nodes.id) AS in_degree,
			(SELECT COUNT(*) FROM edges WHERE source_id = nodes.id) AS out_degree
		FROM nodes
		WHERE kind IN (` + placeholders(len(hotspotKinds)) + `)
		ORDER BY in_degree + out_degree DESC, id ASC
		LIMIT ?`
	args := append(kindArgs, limit)

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("hotspots: %w", err)
	}
	defer rows.Close()

	var result []*Hotspot
	for rows.Next() {
		var n graph.Node
		var kind, meta string
		var exported int
		var h Hotspot
		if err := rows.Scan(&n.ID, &kind, &n.Name, &n.QualifiedName, &n.FilePath, &n.StartLine, &n.EndLine,
			&n.Language, &n.Signature, &n.Docstring, &exported, &n.Complexity, &meta,
			&h.InDegree, &h.OutDegree); err != nil {
			return nil, err
		}
		n.Kind = graph.NodeKind(kind)
		n.Exported = exported != 0
		n.Metadata = unmarshalMeta(meta)
		h.Node = &n
		result = append(result, &h)
	}
	return result, rows.Err()
}

// ComplexityReport returns all nodes at or above the complexity threshold,
// most complex first.
func (s *Store) ComplexityReport(threshold int) ([]*graph.Node, error) {
	if threshold <= 0 {
		threshold = 10
	}
	rows, err := s.q.Query(
		"SELECT "+nodeColumns+" FROM nodes WHERE complexity >= ? ORDER BY complexity DESC, id ASC",
		threshold)
	if err != nil {
		return nil, fmt.Errorf("complexity report: %w", err)
	}
	return scanNodes(rows)
}

// Stats summarizes the index.
type Stats struct {
	Files       int            `json:"files"`
	Nodes       int            `json:"nodes"`
	Edges       int            `json:"edges"`
	NodesByKind map[string]int `json:"nodes_by_kind"`
	EdgesByKind map[string]int `json:"edges_by_kind"`
	Languages   map[string]int `json:"languages"` // files per language
	LastIndexed string         `json:"last_indexed,omitempty"`
}

// GetStats aggregates counts across files, nodes, and edges.
func (s *Store) GetStats() (*Stats, error) {
	st := &Stats{
		NodesByKind: make(map[string]int),
		EdgesByKind: make(map[string]int),
		Languages:   make(map[string]int),
	}
	var err error
	if st.Files, err = s.CountFiles(); err != nil {
		return nil, err
	}
	if st.Nodes, err = s.CountNodes(); err != nil {
		return nil, err
	}
	if st.Edges, err = s.CountEdges(); err != nil {
		return nil, err
	}
	if err := s.countsInto("SELECT kind, COUNT(*) FROM nodes GROUP BY kind", st.NodesByKind); err != nil {
		return nil, err
	}
	if err := s.countsInto("SELECT kind, COUNT(*) FROM edges GROUP BY kind", st.EdgesByKind); err != nil {
		return nil, err
	}
	if err := s.countsInto("SELECT language, COUNT(*) FROM files GROUP BY language", st.Languages); err != nil {
		return nil, err
	}
	_ = s.q.QueryRow("SELECT COALESCE(MAX(indexed_at), '') FROM files").Scan(&st.LastIndexed)
	return st, nil
}

func (s *Store) countsInto(query string, dest map[string]int) error {
	rows, err := s.q.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dest[key] = count
	}
	return rows.Err()
}

// FileTreeEntry is one file with its symbol census.
type FileTreeEntry struct {
	Path        string `json:"path"`
	Language    string `json:"language"`
	SymbolCount int    `json:"symbol_count"`
	LineCount   int    `json:"line_count"`
}

// GetFileTree lists all indexed files ordered by path.
func (s *Store) GetFileTree() ([]*FileTreeEntry, error) {
	files, err := s.AllFiles()
	if err != nil {
		return nil, err
	}
	entries := make([]*FileTreeEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, &FileTreeEntry{
			Path:        f.Path,
			Language:    f.Language,
			SymbolCount: f.SymbolCount,
			LineCount:   f.LineCount,
		})
	}
	return entries, nil
}
