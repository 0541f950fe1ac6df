// Package query answers structured questions about the indexed graph:
// symbol lookup with disambiguation, ranked context assembly, and report
// formatting. It reads from the store only.
package query

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/store"
)

// ErrNotFound signals a name lookup with no candidates. Callers surface it
// as an informational message, not a failure.
var ErrNotFound = errors.New("symbol not found")

// AmbiguousError reports a name that matches symbols in distinct files;
// the caller must supply a file-path disambiguator.
type AmbiguousError struct {
	Name       string
	Candidates []*graph.Node
}

func (e *AmbiguousError) Error() string {
	files := make(map[string]bool, len(e.Candidates))
	for _, c := range e.Candidates {
		files[c.FilePath] = true
	}
	return fmt.Sprintf("symbol %q is ambiguous across %d files", e.Name, len(files))
}

// CandidateLines renders the ambiguity candidates as
// (kind, qualified_name, file:line) tuples.
func (e *AmbiguousError) CandidateLines() []string {
	lines := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		lines = append(lines, fmt.Sprintf("(%s, %s, %s:%d)", c.Kind, c.QualifiedName, c.FilePath, c.StartLine))
	}
	return lines
}

// Engine wraps the store with the project root for source enrichment.
type Engine struct {
	Store *store.Store
	Root  string
}

// New creates a query engine.
func New(s *store.Store, root string) *Engine {
	return &Engine{Store: s, Root: root}
}

// LookupSymbol resolves a name to one node. An optional file-path
// substring narrows candidates. Names matching nodes in multiple distinct
// files return AmbiguousError with the candidate list.
func (e *Engine) LookupSymbol(name, fileFilter string) (*graph.Node, error) {
	nodes, err := e.Store.NodesByName(name, "")
	if err != nil {
		return nil, err
	}
	if fileFilter != "" {
		var filtered []*graph.Node
		for _, n := range nodes {
			if strings.Contains(n.FilePath, fileFilter) {
				filtered = append(filtered, n)
			}
		}
		nodes = filtered
	}
	if len(nodes) == 0 {
		return nil, ErrNotFound
	}
	files := make(map[string]bool)
	for _, n := range nodes {
		files[n.FilePath] = true
	}
	if len(files) > 1 {
		return nil, &AmbiguousError{Name: name, Candidates: nodes}
	}
	return nodes[0], nil
}

// SourceSlice reads the node's lines from disk: [StartLine-1, EndLine),
// truncated to maxLen characters with an ellipsis marker.
func (e *Engine) SourceSlice(n *graph.Node, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 500
	}
	content, err := os.ReadFile(filepath.Join(e.Root, filepath.FromSlash(n.FilePath)))
	if err != nil {
		return ""
	}
	lines := strings.Split(string(content), "\n")
	if n.StartLine < 1 || n.StartLine > len(lines) {
		return ""
	}
	end := n.EndLine
	if end > len(lines) {
		end = len(lines)
	}
	code := strings.Join(lines[n.StartLine-1:end], "\n")
	if len(code) > maxLen {
		code = code[:maxLen] + "..."
	}
	return code
}

// Overview summarizes the indexed project.
type Overview struct {
	Stats      *store.Stats           `json:"stats"`
	Files      []*store.FileTreeEntry `json:"files"`
	Hotspots   []*store.Hotspot       `json:"hotspots"`
	Namespaces map[string]int         `json:"namespaces"` // top-level qualified-name segment -> symbols
}

// BuildOverview aggregates stats, the file tree, top hotspots, and the
// top-level namespace census.
func (e *Engine) BuildOverview() (*Overview, error) {
	stats, err := e.Store.GetStats()
	if err != nil {
		return nil, err
	}
	files, err := e.Store.GetFileTree()
	if err != nil {
		return nil, err
	}
	hotspots, err := e.Store.FindHotspots(10)
	if err != nil {
		return nil, err
	}
	nodes, err := e.Store.AllNodes()
	if err != nil {
		return nil, err
	}
	namespaces := make(map[string]int)
	for _, n := range nodes {
		if i := strings.IndexByte(n.QualifiedName, '.'); i > 0 {
			namespaces[n.QualifiedName[:i]]++
		}
	}
	return &Overview{Stats: stats, Files: files, Hotspots: hotspots, Namespaces: namespaces}, nil
}
