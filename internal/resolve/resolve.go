// Package resolve materializes cross-file edges from the textual
// references the extractor deferred. Resolution is best-effort scoring,
// not name binding: references with no candidates are dropped.
package resolve

import (
	"path"
	"strings"

	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/store"
)

const maxCandidates = 10

// Resolve scores candidates for each reference and returns the deduplicated
// edges for the winners.
func Resolve(s *store.Store, refs []*graph.Reference) ([]*graph.Edge, error) {
	edges := make([]*graph.Edge, 0, len(refs))
	seen := make(map[string]bool)

	for _, ref := range refs {
		candidates, err := s.NodesByName(ref.Name, "")
		if err != nil {
			return nil, err
		}
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		best := pick(ref, candidates)
		if best == nil || best.ID == ref.SourceID {
			continue
		}
		id := graph.EdgeID(ref.SourceID, best.ID, ref.Kind)
		if seen[id] {
			continue
		}
		seen[id] = true
		edges = append(edges, &graph.Edge{
			ID:       id,
			SourceID: ref.SourceID,
			TargetID: best.ID,
			Kind:     ref.Kind,
		})
	}
	return edges, nil
}

// pick returns the highest-scoring candidate; ties break on the shorter
// file path (closer to the repository root).
func pick(ref *graph.Reference, candidates []*graph.Node) *graph.Node {
	var best *graph.Node
	bestScore := -1
	for _, c := range candidates {
		score := scoreCandidate(ref, c)
		if score > bestScore ||
			(score == bestScore && best != nil && len(c.FilePath) < len(best.FilePath)) {
			best = c
			bestScore = score
		}
	}
	return best
}

func scoreCandidate(ref *graph.Reference, c *graph.Node) int {
	score := 0
	if c.Name == ref.Name {
		score += 10
	}
	switch {
	case c.FilePath == ref.FilePath:
		score += 8
	case path.Dir(c.FilePath) == path.Dir(ref.FilePath):
		score += 5
	default:
		score += sharedPrefixSegments(c.FilePath, ref.FilePath)
	}
	if c.Exported {
		score += 3
	}
	if ref.Kind == graph.EdgeImports {
		switch c.Kind {
		case graph.KindClass, graph.KindInterface, graph.KindNamespace:
			score += 2
		}
	}
	return score
}

// sharedPrefixSegments counts common leading path segments, capped at 3.
func sharedPrefixSegments(a, b string) int {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	n := 0
	for i := 0; i < len(as) && i < len(bs) && n < 3; i++ {
		if as[i] != bs[i] {
			break
		}
		n++
	}
	return n
}
