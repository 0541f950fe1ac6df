package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/token"
)

const (
	defaultMaxNodes      = 25
	defaultMaxCodeLength = 500
	keywordSearchLimit   = 50
	expansionSeeds       = 10
)

// entryPointPrefixes boost symbols that usually anchor a task.
var entryPointPrefixes = []string{
	"main", "index", "app", "server", "handler", "controller", "route", "api",
}

// structuralKinds get a small boost: classes and components organize code.
func structuralBoost(k graph.NodeKind) float64 {
	switch k {
	case graph.KindClass, graph.KindInterface, graph.KindComponent:
		return 1
	}
	return 0
}

// ContextOptions caps and filters a context build.
type ContextOptions struct {
	MaxNodes      int
	MaxCodeLength int
	IncludeCode   bool
	Kind          string
	FileFilter    string
}

// ContextEntry is one ranked symbol with its enrichment.
type ContextEntry struct {
	Node    *graph.Node `json:"node"`
	Score   float64     `json:"score"`
	Code    string      `json:"code,omitempty"`
	Callers []string    `json:"callers,omitempty"` // qualified names, up to 5
	Callees []string    `json:"callees,omitempty"`
}

// ContextResult is the assembled answer for a task query.
type ContextResult struct {
	Query    string          `json:"query"`
	Keywords []string        `json:"keywords"`
	Entries  []*ContextEntry `json:"entries"`
}

// BuildContext assembles a ranked multi-symbol answer for a
// natural-language task query: keyword search per token, additive scoring,
// one hop of graph expansion, then source enrichment.
func (e *Engine) BuildContext(query string, opts ContextOptions) (*ContextResult, error) {
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = defaultMaxNodes
	}
	if opts.MaxCodeLength <= 0 {
		opts.MaxCodeLength = defaultMaxCodeLength
	}

	keywords := token.TokenizeQuery(query)
	result := &ContextResult{Query: query, Keywords: keywords}
	if len(keywords) == 0 {
		return result, nil
	}

	scores := make(map[string]float64)
	byID := make(map[string]*graph.Node)

	for _, kw := range keywords {
		nodes, err := e.Store.SearchNodes(kw, opts.Kind, keywordSearchLimit)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			if opts.FileFilter != "" && !strings.Contains(n.FilePath, opts.FileFilter) {
				continue
			}
			score := scoreKeyword(n, kw)
			if score > scores[n.ID] {
				scores[n.ID] = score
			}
			byID[n.ID] = n
		}
	}

	if err := e.expand(scores, byID); err != nil {
		return nil, err
	}

	ids := rankIDs(scores)
	if len(ids) > opts.MaxNodes {
		ids = ids[:opts.MaxNodes]
	}

	for _, id := range ids {
		n := byID[id]
		entry := &ContextEntry{Node: n, Score: scores[id]}
		if opts.IncludeCode {
			entry.Code = e.SourceSlice(n, opts.MaxCodeLength)
		}
		if callers, err := e.Store.Callers(id, 5); err == nil {
			for _, c := range callers {
				entry.Callers = append(entry.Callers, c.QualifiedName)
			}
		}
		if callees, err := e.Store.Callees(id, 5); err == nil {
			for _, c := range callees {
				entry.Callees = append(entry.Callees, c.QualifiedName)
			}
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

// scoreKeyword is the additive per-keyword relevance of one node.
func scoreKeyword(n *graph.Node, kw string) float64 {
	var score float64
	lowerName := strings.ToLower(n.Name)
	if lowerName == kw {
		score += 10
	} else if strings.Contains(lowerName, kw) {
		score += 5
	}
	if strings.Contains(strings.ToLower(n.QualifiedName), kw) {
		score += 3
	}
	if strings.Contains(strings.ToLower(n.Signature), kw) {
		score += 2
	}
	if strings.Contains(strings.ToLower(n.Docstring), kw) {
		score += 2
	}
	if n.Exported {
		score += 2
	}
	score += structuralBoost(n.Kind)
	for _, prefix := range entryPointPrefixes {
		if strings.HasPrefix(lowerName, prefix) {
			score++
			break
		}
	}
	return score
}

// expand pulls one hop of graph neighbors for the top seeds: dependencies
// enter at 0.5, dependents at 0.4. Existing scores are never lowered.
func (e *Engine) expand(scores map[string]float64, byID map[string]*graph.Node) error {
	seeds := rankIDs(scores)
	if len(seeds) > expansionSeeds {
		seeds = seeds[:expansionSeeds]
	}
	for _, id := range seeds {
		deps, err := e.Store.Dependencies(id)
		if err != nil {
			return err
		}
		for _, nodes := range deps {
			for _, n := range nodes {
				if _, ok := scores[n.ID]; !ok {
					scores[n.ID] = 0.5
					byID[n.ID] = n
				}
			}
		}
		dependents, err := e.Store.Dependents(id)
		if err != nil {
			return err
		}
		for _, nodes := range dependents {
			for _, n := range nodes {
				if _, ok := scores[n.ID]; !ok {
					scores[n.ID] = 0.4
					byID[n.ID] = n
				}
			}
		}
	}
	return nil
}

// rankIDs sorts node ids by score descending, then id for determinism.
func rankIDs(scores map[string]float64) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// FormatMarkdown renders the context as a structured document grouped by
// file path. Line numbers are 1-based inclusive and match the stored
// ranges.
func (r *ContextResult) FormatMarkdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Context for: %s\n\n", r.Query)

	byFile := make(map[string][]*ContextEntry)
	var fileOrder []string
	for _, entry := range r.Entries {
		fp := entry.Node.FilePath
		if _, ok := byFile[fp]; !ok {
			fileOrder = append(fileOrder, fp)
		}
		byFile[fp] = append(byFile[fp], entry)
	}

	for _, fp := range fileOrder {
		fmt.Fprintf(&sb, "## %s\n\n", fp)
		for _, entry := range byFile[fp] {
			n := entry.Node
			fmt.Fprintf(&sb, "### %s `%s` (lines %d-%d)\n", n.Kind, n.QualifiedName, n.StartLine, n.EndLine)
			if n.Signature != "" {
				fmt.Fprintf(&sb, "`%s`\n", n.Signature)
			}
			if n.Docstring != "" {
				fmt.Fprintf(&sb, "%s\n", n.Docstring)
			}
			if len(entry.Callers) > 0 {
				fmt.Fprintf(&sb, "Called by: %s\n", strings.Join(entry.Callers, ", "))
			}
			if len(entry.Callees) > 0 {
				fmt.Fprintf(&sb, "Calls: %s\n", strings.Join(entry.Callees, ", "))
			}
			if entry.Code != "" {
				fmt.Fprintf(&sb, "```\n%s\n```\n", entry.Code)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FormatCompact renders one line per symbol:
//
//	kind qualified_name file:start-end
func (r *ContextResult) FormatCompact() string {
	var sb strings.Builder
	for _, entry := range r.Entries {
		n := entry.Node
		fmt.Fprintf(&sb, "%s %s %s:%d-%d\n", n.Kind, n.QualifiedName, n.FilePath, n.StartLine, n.EndLine)
	}
	return sb.String()
}

var compactLineRe = regexp.MustCompile(`^(\S+) (\S+) (.+):(\d+)-(\d+)$`)

// CompactSymbol is one parsed line of the compact format.
type CompactSymbol struct {
	Kind          string
	QualifiedName string
	FilePath      string
	StartLine     int
	EndLine       int
}

// ParseCompact parses FormatCompact output back into symbol tuples.
func ParseCompact(text string) []CompactSymbol {
	var symbols []CompactSymbol
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		m := compactLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var start, end int
		fmt.Sscanf(m[4], "%d", &start)
		fmt.Sscanf(m[5], "%d", &end)
		symbols = append(symbols, CompactSymbol{
			Kind:          m[1],
			QualifiedName: m[2],
			FilePath:      m[3],
			StartLine:     start,
			EndLine:       end,
		})
	}
	return symbols
}
