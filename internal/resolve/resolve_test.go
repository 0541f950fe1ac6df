package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/store"
)

func mkNode(name, file string, kind graph.NodeKind, line int, exported bool) *graph.Node {
	return &graph.Node{
		ID:            graph.NodeID(kind, file, name, line),
		Kind:          kind,
		Name:          name,
		QualifiedName: "test." + name,
		FilePath:      file,
		StartLine:     line,
		EndLine:       line + 5,
		Exported:      exported,
		Complexity:    1,
	}
}

func TestResolveBasicCall(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	caller := mkNode("caller", "a.ts", graph.KindFunction, 1, false)
	callee := mkNode("callee", "a.ts", graph.KindFunction, 5, false)
	require.NoError(t, s.UpsertNode(caller))
	require.NoError(t, s.UpsertNode(callee))

	edges, err := Resolve(s, []*graph.Reference{
		{SourceID: caller.ID, Name: "callee", Kind: graph.EdgeCalls, FilePath: "a.ts"},
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, caller.ID, edges[0].SourceID)
	assert.Equal(t, callee.ID, edges[0].TargetID)
	assert.Equal(t, graph.EdgeCalls, edges[0].Kind)
}

func TestResolvePrefersSameFile(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	origin := mkNode("origin", "src/a.ts", graph.KindFunction, 1, false)
	local := mkNode("helper", "src/a.ts", graph.KindFunction, 10, false)
	remote := mkNode("helper", "lib/util.ts", graph.KindFunction, 10, false)
	for _, n := range []*graph.Node{origin, local, remote} {
		require.NoError(t, s.UpsertNode(n))
	}

	edges, err := Resolve(s, []*graph.Reference{
		{SourceID: origin.ID, Name: "helper", Kind: graph.EdgeCalls, FilePath: "src/a.ts"},
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, local.ID, edges[0].TargetID, "same-file candidate must win")
}

func TestResolveExportedBreaksDistance(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	origin := mkNode("origin", "src/a.ts", graph.KindFunction, 1, false)
	hidden := mkNode("util", "lib/x.ts", graph.KindFunction, 1, false)
	visible := mkNode("util", "pkg/y.ts", graph.KindFunction, 1, true)
	for _, n := range []*graph.Node{origin, hidden, visible} {
		require.NoError(t, s.UpsertNode(n))
	}

	edges, err := Resolve(s, []*graph.Reference{
		{SourceID: origin.ID, Name: "util", Kind: graph.EdgeCalls, FilePath: "src/a.ts"},
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, visible.ID, edges[0].TargetID, "exported candidate outscores hidden one")
}

func TestResolveImportBoostsContainers(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	origin := mkNode("origin", "src/a.ts", graph.KindFunction, 1, false)
	fn := mkNode("auth", "lib/auth1.ts", graph.KindFunction, 1, false)
	cls := mkNode("auth", "lib/auth2.ts", graph.KindClass, 1, false)
	for _, n := range []*graph.Node{origin, fn, cls} {
		require.NoError(t, s.UpsertNode(n))
	}

	edges, err := Resolve(s, []*graph.Reference{
		{SourceID: origin.ID, Name: "auth", Kind: graph.EdgeImports, FilePath: "src/a.ts"},
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, cls.ID, edges[0].TargetID, "imports prefer class-like targets")
}

func TestResolveDropsSelfAndUnknown(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	rec := mkNode("recurse", "a.ts", graph.KindFunction, 1, false)
	require.NoError(t, s.UpsertNode(rec))

	edges, err := Resolve(s, []*graph.Reference{
		// Self-reference: recursion does not create an edge.
		{SourceID: rec.ID, Name: "recurse", Kind: graph.EdgeCalls, FilePath: "a.ts"},
		// No candidates: silently dropped.
		{SourceID: rec.ID, Name: "ghost", Kind: graph.EdgeCalls, FilePath: "a.ts"},
	})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestResolveDeduplicates(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	caller := mkNode("caller", "a.ts", graph.KindFunction, 1, false)
	callee := mkNode("callee", "a.ts", graph.KindFunction, 5, false)
	require.NoError(t, s.UpsertNode(caller))
	require.NoError(t, s.UpsertNode(callee))

	ref := &graph.Reference{SourceID: caller.ID, Name: "callee", Kind: graph.EdgeCalls, FilePath: "a.ts"}
	edges, err := Resolve(s, []*graph.Reference{ref, ref, ref})
	require.NoError(t, err)
	assert.Len(t, edges, 1, "repeated call sites collapse to one edge")
}

func TestTieBreakShorterPath(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	origin := mkNode("origin", "x/a.ts", graph.KindFunction, 1, false)
	deep := mkNode("util", "y/deep/nested/util.ts", graph.KindFunction, 1, false)
	shallow := mkNode("util", "z/util.ts", graph.KindFunction, 1, false)
	for _, n := range []*graph.Node{origin, deep, shallow} {
		require.NoError(t, s.UpsertNode(n))
	}

	edges, err := Resolve(s, []*graph.Reference{
		{SourceID: origin.ID, Name: "util", Kind: graph.EdgeCalls, FilePath: "x/a.ts"},
	})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, shallow.ID, edges[0].TargetID, "ties break toward the repository root")
}
