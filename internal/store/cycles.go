package store

import (
	"sort"

	"github.com/codexray/codexray/internal/graph"
)

// maxCycles bounds the number of reported cycles per run.
const maxCycles = 20

// Cycle is one circular dependency: a node sequence starting and ending
// at the same symbol.
type Cycle struct {
	Nodes []*graph.Node
}

// FindCircularDeps detects cycles over imports/calls/extends/implements
// edges with a three-color DFS. Reconstruction walks the parent chain, so
// on branching discovery paths the reported cycle is approximate; it
// always starts and ends at the same node and visits at least two
// distinct nodes.
func (s *Store) FindCircularDeps() ([]*Cycle, error) {
	adj, err := s.adjacency(graph.CycleEdgeKinds(), false)
	if err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(adj))
	for id := range adj {
		roots = append(roots, id)
	}
	sort.Strings(roots)

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	parent := make(map[string]string)
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		for _, next := range adj[id] {
			if len(cycles) >= maxCycles {
				return
			}
			switch color[next] {
			case white:
				parent[next] = id
				visit(next)
			case gray:
				// Back edge: close the cycle by walking parents from id
				// until next is reached.
				cycle := []string{next}
				for cur := id; cur != "" && cur != next; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				// Reverse into discovery order and close the loop.
				for i, j := 1, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				cycle = append(cycle, next)
				if len(cycle) > 2 {
					cycles = append(cycles, cycle)
				}
			}
		}
		color[id] = black
	}

	for _, root := range roots {
		if len(cycles) >= maxCycles {
			break
		}
		if color[root] == white {
			visit(root)
		}
	}

	result := make([]*Cycle, 0, len(cycles))
	for _, ids := range cycles {
		c := &Cycle{Nodes: make([]*graph.Node, 0, len(ids))}
		for _, id := range ids {
			n, err := s.GetNode(id)
			if err != nil {
				return nil, err
			}
			if n != nil {
				c.Nodes = append(c.Nodes, n)
			}
		}
		if len(c.Nodes) > 2 {
			result = append(result, c)
		}
	}
	return result, nil
}
