package store

import (
	"testing"

	"github.com/codexray/codexray/internal/graph"
)

// chain creates top -> middle -> base with calls edges.
func chain(t *testing.T, s *Store) (top, middle, base *graph.Node) {
	t.Helper()
	top = mkNode("top", "a.ts", graph.KindFunction, 1)
	middle = mkNode("middle", "a.ts", graph.KindFunction, 10)
	base = mkNode("base", "a.ts", graph.KindFunction, 20)
	for _, n := range []*graph.Node{top, middle, base} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpsertEdge(mkEdge(top, middle, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEdge(mkEdge(middle, base, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}
	return top, middle, base
}

func TestImpactRadius(t *testing.T) {
	s := openTest(t)
	top, middle, base := chain(t, s)

	impact, err := s.ImpactRadius(base.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(impact) != 2 {
		t.Fatalf("expected 2 affected, got %d", len(impact))
	}
	if impact[middle.ID] == nil || impact[middle.ID].Depth != 1 {
		t.Errorf("middle depth: %+v", impact[middle.ID])
	}
	if impact[top.ID] == nil || impact[top.ID].Depth != 2 {
		t.Errorf("top depth: %+v", impact[top.ID])
	}
	if _, ok := impact[base.ID]; ok {
		t.Error("start node included in its own impact")
	}
}

func TestImpactDepthBound(t *testing.T) {
	s := openTest(t)
	top, middle, base := chain(t, s)
	_ = top

	impact, err := s.ImpactRadius(base.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(impact) != 1 || impact[middle.ID] == nil {
		t.Fatalf("expected only middle at depth 1, got %v", impact)
	}
}

func TestImpactLeafEmpty(t *testing.T) {
	s := openTest(t)
	top, _, _ := chain(t, s)

	// Nothing depends on top.
	impact, err := s.ImpactRadius(top.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(impact) != 0 {
		t.Errorf("expected empty impact, got %v", impact)
	}
}

func TestFindPath(t *testing.T) {
	s := openTest(t)
	top, middle, base := chain(t, s)

	path, err := s.FindPath(top.ID, base.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 3 {
		t.Fatalf("expected 3-node path, got %d", len(path))
	}
	if path[0].ID != top.ID || path[1].ID != middle.ID || path[2].ID != base.ID {
		t.Errorf("path out of order: %v", path)
	}
}

func TestFindPathSelf(t *testing.T) {
	s := openTest(t)
	top, _, _ := chain(t, s)

	path, err := s.FindPath(top.ID, top.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 1 || path[0].ID != top.ID {
		t.Fatalf("expected single-element path, got %v", path)
	}
}

func TestFindPathUnreachable(t *testing.T) {
	s := openTest(t)

	iso1 := mkNode("iso1", "x.ts", graph.KindFunction, 1)
	iso2 := mkNode("iso2", "y.ts", graph.KindFunction, 1)
	for _, n := range []*graph.Node{iso1, iso2} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	path, err := s.FindPath(iso1.ID, iso2.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if path != nil {
		t.Errorf("expected nil path, got %v", path)
	}
}

func TestFindPathUndirected(t *testing.T) {
	s := openTest(t)
	top, _, base := chain(t, s)

	// Edges point top -> base; the path search walks both directions.
	path, err := s.FindPath(base.ID, top.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 3 {
		t.Fatalf("expected 3-node reverse path, got %v", path)
	}
}

func TestCyclesOnDAG(t *testing.T) {
	s := openTest(t)
	chain(t, s)

	cycles, err := s.FindCircularDeps()
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 0 {
		t.Errorf("expected no cycles on a DAG, got %d", len(cycles))
	}
}

func TestCycleDetected(t *testing.T) {
	s := openTest(t)

	a := mkNode("a", "a.ts", graph.KindNamespace, 1)
	b := mkNode("b", "b.ts", graph.KindNamespace, 1)
	c := mkNode("c", "c.ts", graph.KindNamespace, 1)
	for _, n := range []*graph.Node{a, b, c} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]*graph.Node{{a, b}, {b, c}, {c, a}} {
		if err := s.UpsertEdge(mkEdge(e[0], e[1], graph.EdgeImports)); err != nil {
			t.Fatal(err)
		}
	}

	cycles, err := s.FindCircularDeps()
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(cycles))
	}
	nodes := cycles[0].Nodes
	if nodes[0].ID != nodes[len(nodes)-1].ID {
		t.Error("cycle does not start and end at the same node")
	}
	distinct := map[string]bool{}
	for _, n := range nodes {
		distinct[n.ID] = true
	}
	if len(distinct) < 2 {
		t.Error("cycle has fewer than two distinct nodes")
	}
}

func TestCycleIgnoresContainsEdges(t *testing.T) {
	s := openTest(t)

	a := mkNode("a", "a.ts", graph.KindClass, 1)
	b := mkNode("b", "a.ts", graph.KindMethod, 5)
	for _, n := range []*graph.Node{a, b} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	// contains edges are structural, not dependency edges.
	if err := s.UpsertEdge(mkEdge(a, b, graph.EdgeContains)); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEdge(mkEdge(b, a, graph.EdgeContains)); err != nil {
		t.Fatal(err)
	}

	cycles, err := s.FindCircularDeps()
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 0 {
		t.Errorf("contains edges should not form cycles, got %d", len(cycles))
	}
}

func TestTraversalDeterminism(t *testing.T) {
	s := openTest(t)

	hub := mkNode("hub", "h.ts", graph.KindFunction, 1)
	if err := s.UpsertNode(hub); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		n := mkNode(string(rune('a'+i)), "x.ts", graph.KindFunction, i*10+1)
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
		if err := s.UpsertEdge(mkEdge(n, hub, graph.EdgeCalls)); err != nil {
			t.Fatal(err)
		}
	}

	first, err := s.ImpactRadius(hub.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := s.ImpactRadius(hub.ID, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatal("impact size changed across runs")
		}
		for id, entry := range first {
			if again[id] == nil || again[id].Depth != entry.Depth {
				t.Errorf("entry %s changed across runs", id)
			}
		}
	}
}
