package store

import (
	"sort"

	"github.com/codexray/codexray/internal/graph"
)

// ImpactEntry records how a dependent was reached from the start node.
type ImpactEntry struct {
	Node  *graph.Node
	Depth int
	Path  []string // node ids from start to this node, inclusive
}

// ImpactRadius walks dependency edges in the dependent direction (an
// edge's source depends on its target) breadth-first from id, up to
// maxDepth. The start node itself is excluded from the result.
func (s *Store) ImpactRadius(id string, maxDepth int) (map[string]*ImpactEntry, error) {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	reverse, err := s.adjacency(graph.DependencyEdgeKinds(), true)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*ImpactEntry)
	visited := map[string]bool{id: true}
	type queueItem struct {
		id    string
		depth int
		path  []string
	}
	queue := []queueItem{{id, 0, []string{id}}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.depth >= maxDepth {
			continue
		}
		for _, next := range reverse[item.id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			node, err := s.GetNode(next)
			if err != nil {
				return nil, err
			}
			if node == nil {
				continue
			}
			path := append(append([]string{}, item.path...), next)
			result[next] = &ImpactEntry{Node: node, Depth: item.depth + 1, Path: path}
			queue = append(queue, queueItem{next, item.depth + 1, path})
		}
	}
	return result, nil
}

// FindPath returns the shortest node sequence between two symbols over the
// undirected union of all edges, or nil when unreachable within maxDepth.
// from == to yields a single-element path.
func (s *Store) FindPath(fromID, toID string, maxDepth int) ([]*graph.Node, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if fromID == toID {
		n, err := s.GetNode(fromID)
		if err != nil || n == nil {
			return nil, err
		}
		return []*graph.Node{n}, nil
	}

	undirected, err := s.undirectedAdjacency()
	if err != nil {
		return nil, err
	}

	parent := map[string]string{fromID: ""}
	type queueItem struct {
		id    string
		depth int
	}
	queue := []queueItem{{fromID, 0}}
	found := false

	for len(queue) > 0 && !found {
		item := queue[0]
		queue = queue[1:]
		if item.id == toID {
			found = true
			break
		}
		if item.depth >= maxDepth {
			continue
		}
		for _, next := range undirected[item.id] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = item.id
			queue = append(queue, queueItem{next, item.depth + 1})
		}
	}
	if _, ok := parent[toID]; !ok {
		return nil, nil
	}

	var ids []string
	for cur := toID; cur != ""; cur = parent[cur] {
		ids = append(ids, cur)
	}
	// Reverse: reconstruction walked target back to source.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	path := make([]*graph.Node, 0, len(ids))
	for _, id := range ids {
		n, err := s.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, nil
		}
		path = append(path, n)
	}
	return path, nil
}

// adjacency builds source->targets lists for the given edge kinds;
// reversed builds target->sources instead. Neighbor lists are sorted by
// node id so traversal output is stable across runs.
func (s *Store) adjacency(kinds []graph.EdgeKind, reversed bool) (map[string][]string, error) {
	edges, err := s.edgesByKinds(kinds)
	if err != nil {
		return nil, err
	}
	adj := make(map[string][]string)
	for _, e := range edges {
		if reversed {
			adj[e.TargetID] = append(adj[e.TargetID], e.SourceID)
		} else {
			adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		}
	}
	for _, neighbors := range adj {
		sort.Strings(neighbors)
	}
	return adj, nil
}

// undirectedAdjacency unions all edges in both directions.
func (s *Store) undirectedAdjacency() (map[string][]string, error) {
	edges, err := s.AllEdges()
	if err != nil {
		return nil, err
	}
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		adj[e.TargetID] = append(adj[e.TargetID], e.SourceID)
	}
	for id, neighbors := range adj {
		sort.Strings(neighbors)
		adj[id] = dedupSorted(neighbors)
	}
	return adj, nil
}

func dedupSorted(ss []string) []string {
	out := ss[:0]
	for i, s := range ss {
		if i == 0 || s != ss[i-1] {
			out = append(out, s)
		}
	}
	return out
}
