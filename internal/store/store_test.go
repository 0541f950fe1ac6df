package store

import (
	"fmt"
	"testing"

	"github.com/codexray/codexray/internal/graph"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mkNode(name, file string, kind graph.NodeKind, line int) *graph.Node {
	return &graph.Node{
		ID:            graph.NodeID(kind, file, name, line),
		Kind:          kind,
		Name:          name,
		QualifiedName: "test." + name,
		FilePath:      file,
		StartLine:     line,
		EndLine:       line + 5,
		Language:      "typescript",
		Complexity:    1,
	}
}

func mkEdge(src, dst *graph.Node, kind graph.EdgeKind) *graph.Edge {
	return &graph.Edge{
		ID:       graph.EdgeID(src.ID, dst.ID, kind),
		SourceID: src.ID,
		TargetID: dst.ID,
		Kind:     kind,
	}
}

func TestNodeCRUD(t *testing.T) {
	s := openTest(t)

	n := mkNode("authenticate", "src/auth.ts", graph.KindFunction, 10)
	n.Signature = "function authenticate(user: string)"
	n.Exported = true
	if err := s.UpsertNode(n); err != nil {
		t.Fatalf("UpsertNode: %v", err)
	}

	found, err := s.GetNode(n.ID)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if found == nil || found.Name != "authenticate" {
		t.Fatalf("unexpected node: %+v", found)
	}
	if !found.Exported || found.Kind != graph.KindFunction {
		t.Errorf("fields lost: %+v", found)
	}

	// Upsert with the same id updates in place.
	n.Signature = "function authenticate(user: string, password: string)"
	if err := s.UpsertNode(n); err != nil {
		t.Fatalf("UpsertNode update: %v", err)
	}
	count, _ := s.CountNodes()
	if count != 1 {
		t.Errorf("expected 1 node after re-upsert, got %d", count)
	}
	found, _ = s.GetNode(n.ID)
	if found.Signature != n.Signature {
		t.Error("signature not updated")
	}
}

func TestGetNodeMissing(t *testing.T) {
	s := openTest(t)
	n, err := s.GetNode("deadbeefdeadbeef")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if n != nil {
		t.Error("expected nil for missing node")
	}
}

func TestEdgeIntegrityOnFileDelete(t *testing.T) {
	s := openTest(t)

	a := mkNode("a", "a.ts", graph.KindFunction, 1)
	b := mkNode("b", "b.ts", graph.KindFunction, 1)
	for _, n := range []*graph.Node{a, b} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpsertEdge(mkEdge(a, b, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}

	// Deleting b.ts's nodes must not leave a dangling edge.
	if err := s.DeleteNodesByFile("b.ts"); err != nil {
		t.Fatal(err)
	}
	edges, _ := s.CountEdges()
	if edges != 0 {
		t.Errorf("expected 0 edges after node delete, got %d", edges)
	}
	nodes, _ := s.CountNodes()
	if nodes != 1 {
		t.Errorf("expected 1 node, got %d", nodes)
	}
}

func TestDeleteEdgesByFile(t *testing.T) {
	s := openTest(t)

	a := mkNode("a", "a.ts", graph.KindFunction, 1)
	b := mkNode("b", "b.ts", graph.KindFunction, 1)
	c := mkNode("c", "c.ts", graph.KindFunction, 1)
	for _, n := range []*graph.Node{a, b, c} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	// a->b and c->a: both touch a.ts, only one touches b.ts.
	if err := s.UpsertEdge(mkEdge(a, b, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEdge(mkEdge(c, a, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteEdgesByFile("b.ts"); err != nil {
		t.Fatal(err)
	}
	edges, _ := s.CountEdges()
	if edges != 1 {
		t.Errorf("expected 1 edge after delete, got %d", edges)
	}
}

func TestNodesByNameTiers(t *testing.T) {
	s := openTest(t)

	exact := mkNode("process", "src/b.ts", graph.KindFunction, 1)
	exported := mkNode("process", "src/a.ts", graph.KindFunction, 10)
	exported.Exported = true
	fuzzy := mkNode("processOrder", "src/c.ts", graph.KindFunction, 1)
	fuzzy.QualifiedName = "src.c.processOrder"
	for _, n := range []*graph.Node{exact, exported, fuzzy} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}

	// Tier 1: exact name. Exported first, then file path.
	nodes, err := s.NodesByName("process", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 exact matches, got %d", len(nodes))
	}
	if !nodes[0].Exported || nodes[0].FilePath != "src/a.ts" {
		t.Errorf("expected exported src/a.ts first, got %+v", nodes[0])
	}

	// Tier 3: substring of qualified name.
	nodes, err = s.NodesByName("cessOrd", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].Name != "processOrder" {
		t.Fatalf("expected fuzzy match processOrder, got %v", nodes)
	}

	// Kind filter applies inside each tier.
	nodes, err = s.NodesByName("process", string(graph.KindClass))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 0 {
		t.Errorf("expected no class matches, got %d", len(nodes))
	}
}

func TestSearchNodesFTS(t *testing.T) {
	s := openTest(t)

	n1 := mkNode("authenticateUser", "src/auth.ts", graph.KindFunction, 1)
	n1.Signature = "function authenticateUser(name, password)"
	n2 := mkNode("renderDashboard", "src/ui.ts", graph.KindComponent, 1)
	for _, n := range []*graph.Node{n1, n2} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}

	nodes, err := s.SearchNodes("authent", "", 10)
	if err != nil {
		t.Fatalf("SearchNodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Name != "authenticateUser" {
		t.Fatalf("expected authenticateUser, got %v", nodes)
	}

	// Hostile query falls back to LIKE without surfacing an error.
	nodes, err = s.SearchNodes(`render "dash`, "", 10)
	if err != nil {
		t.Fatalf("hostile query surfaced error: %v", err)
	}
	_ = nodes

	// Empty after sanitization: empty result, not an error.
	nodes, err = s.SearchNodes("!!!", "", 10)
	if err != nil || nodes != nil {
		t.Errorf("expected empty result, got %v, %v", nodes, err)
	}
}

func TestSearchKindFilter(t *testing.T) {
	s := openTest(t)
	fn := mkNode("loadConfig", "a.ts", graph.KindFunction, 1)
	cls := mkNode("ConfigLoader", "b.ts", graph.KindClass, 1)
	for _, n := range []*graph.Node{fn, cls} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	nodes, err := s.SearchNodes("config", string(graph.KindClass), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].Kind != graph.KindClass {
		t.Fatalf("expected only the class, got %v", nodes)
	}
}

func TestCallersCallees(t *testing.T) {
	s := openTest(t)

	caller := mkNode("caller", "a.ts", graph.KindFunction, 1)
	callee := mkNode("callee", "a.ts", graph.KindFunction, 2)
	for _, n := range []*graph.Node{caller, callee} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpsertEdge(mkEdge(caller, callee, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}

	callers, err := s.Callers(callee.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(callers) != 1 || callers[0].Name != "caller" {
		t.Fatalf("expected [caller], got %v", callers)
	}
	callees, err := s.Callees(caller.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(callees) != 1 || callees[0].Name != "callee" {
		t.Fatalf("expected [callee], got %v", callees)
	}
}

func TestDependenciesGrouping(t *testing.T) {
	s := openTest(t)

	a := mkNode("a", "a.ts", graph.KindFunction, 1)
	b := mkNode("b", "b.ts", graph.KindFunction, 1)
	c := mkNode("c", "c.ts", graph.KindClass, 1)
	for _, n := range []*graph.Node{a, b, c} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpsertEdge(mkEdge(a, b, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEdge(mkEdge(a, c, graph.EdgeUsesType)); err != nil {
		t.Fatal(err)
	}

	deps, err := s.Dependencies(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps[graph.EdgeCalls]) != 1 || len(deps[graph.EdgeUsesType]) != 1 {
		t.Fatalf("unexpected grouping: %v", deps)
	}

	dependents, err := s.Dependents(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(dependents[graph.EdgeCalls]) != 1 || dependents[graph.EdgeCalls][0].Name != "a" {
		t.Fatalf("unexpected dependents: %v", dependents)
	}
}

func TestChildrenOrderedByLine(t *testing.T) {
	s := openTest(t)

	cls := mkNode("Svc", "a.ts", graph.KindClass, 1)
	m2 := mkNode("second", "a.ts", graph.KindMethod, 20)
	m1 := mkNode("first", "a.ts", graph.KindMethod, 10)
	for _, n := range []*graph.Node{cls, m2, m1} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, m := range []*graph.Node{m2, m1} {
		if err := s.UpsertEdge(mkEdge(cls, m, graph.EdgeContains)); err != nil {
			t.Fatal(err)
		}
	}

	children, err := s.Children(cls.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 2 || children[0].Name != "first" || children[1].Name != "second" {
		t.Fatalf("children not ordered by start line: %v", children)
	}
}

func TestFindDeadCode(t *testing.T) {
	s := openTest(t)

	used := mkNode("used", "a.ts", graph.KindFunction, 1)
	unused := mkNode("unused", "a.ts", graph.KindFunction, 10)
	main := mkNode("main", "a.ts", graph.KindFunction, 20)
	main.Exported = true
	for _, n := range []*graph.Node{used, unused, main} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpsertEdge(mkEdge(main, used, graph.EdgeCalls)); err != nil {
		t.Fatal(err)
	}

	dead, err := s.FindDeadCode(DeadCodeOptions{Kinds: []graph.NodeKind{graph.KindFunction}})
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, n := range dead {
		names[n.Name] = true
	}
	if !names["unused"] {
		t.Error("unused not reported")
	}
	if names["used"] || names["main"] {
		t.Errorf("false positives: %v", names)
	}
}

func TestFindHotspots(t *testing.T) {
	s := openTest(t)

	h := mkNode("H", "h.ts", graph.KindFunction, 1)
	if err := s.UpsertNode(h); err != nil {
		t.Fatal(err)
	}
	for i, name := range []string{"A", "B", "C"} {
		n := mkNode(name, "x.ts", graph.KindFunction, i*10+1)
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
		if err := s.UpsertEdge(mkEdge(n, h, graph.EdgeCalls)); err != nil {
			t.Fatal(err)
		}
	}

	hotspots, err := s.FindHotspots(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hotspots) == 0 || hotspots[0].Node.Name != "H" {
		t.Fatalf("expected H first, got %v", hotspots)
	}
	if hotspots[0].InDegree != 3 || hotspots[0].OutDegree != 0 {
		t.Errorf("H degrees: in=%d out=%d, want in=3 out=0", hotspots[0].InDegree, hotspots[0].OutDegree)
	}
}

func TestComplexityReport(t *testing.T) {
	s := openTest(t)
	for i, c := range []int{1, 12, 30} {
		n := mkNode(fmt.Sprintf("f%d", i), "a.ts", graph.KindFunction, i*10+1)
		n.Complexity = c
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	nodes, err := s.ComplexityReport(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 || nodes[0].Complexity != 30 || nodes[1].Complexity != 12 {
		t.Fatalf("unexpected report: %v", nodes)
	}
}

func TestFileRecords(t *testing.T) {
	s := openTest(t)

	f := &graph.FileRecord{
		Path: "src/a.ts", Hash: "abcd1234abcd1234", Language: "typescript",
		IndexedAt: Now(), SymbolCount: 3, LineCount: 120,
	}
	if err := s.UpsertFile(f); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetFile("src/a.ts")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Hash != f.Hash || got.LineCount != 120 {
		t.Fatalf("unexpected record: %+v", got)
	}

	hashes, err := s.FileHashes()
	if err != nil {
		t.Fatal(err)
	}
	if hashes["src/a.ts"] != f.Hash {
		t.Error("hash lookup failed")
	}

	if err := s.DeleteFile("src/a.ts"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetFile("src/a.ts")
	if got != nil {
		t.Error("file record not deleted")
	}
}

func TestStatsAndReset(t *testing.T) {
	s := openTest(t)

	a := mkNode("a", "a.ts", graph.KindFunction, 1)
	b := mkNode("b", "a.ts", graph.KindClass, 10)
	for _, n := range []*graph.Node{a, b} {
		if err := s.UpsertNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpsertEdge(mkEdge(a, b, graph.EdgeUsesType)); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertFile(&graph.FileRecord{Path: "a.ts", Hash: "h", Language: "typescript", IndexedAt: Now()}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Nodes != 2 || stats.Edges != 1 || stats.Files != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.NodesByKind["function"] != 1 || stats.NodesByKind["class"] != 1 {
		t.Errorf("kind census wrong: %v", stats.NodesByKind)
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	stats, _ = s.GetStats()
	if stats.Nodes != 0 || stats.Edges != 0 || stats.Files != 0 {
		t.Errorf("reset left data: %+v", stats)
	}
}
