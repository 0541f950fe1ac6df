package graph

import "testing"

func TestNodeIDDeterministic(t *testing.T) {
	a := NodeID(KindFunction, "src/auth/login.ts", "authenticate", 10)
	b := NodeID(KindFunction, "src/auth/login.ts", "authenticate", 10)
	if a != b {
		t.Errorf("same tuple produced different ids: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d (%s)", len(a), a)
	}
	// The typed constant and its plain string spelling hash to the same id.
	if a != NodeID("function", "src/auth/login.ts", "authenticate", 10) {
		t.Error("id changed with equivalent kind spelling")
	}
}

func TestNodeIDDistinguishesTuple(t *testing.T) {
	base := NodeID(KindFunction, "a.ts", "f", 1)
	variants := []string{
		NodeID(KindMethod, "a.ts", "f", 1),
		NodeID(KindFunction, "b.ts", "f", 1),
		NodeID(KindFunction, "a.ts", "g", 1),
		NodeID(KindFunction, "a.ts", "f", 2),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base id", i)
		}
	}
}

func TestEdgeIDDeterministic(t *testing.T) {
	a := EdgeID("abc", "def", EdgeCalls)
	if a != EdgeID("abc", "def", EdgeCalls) {
		t.Error("edge id not deterministic")
	}
	if a == EdgeID("def", "abc", EdgeCalls) {
		t.Error("edge id ignores direction")
	}
	if a == EdgeID("abc", "def", EdgeImports) {
		t.Error("edge id ignores kind")
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
}

func TestClosedKindSets(t *testing.T) {
	if got := len(AllNodeKinds()); got != 19 {
		t.Errorf("expected 19 node kinds, got %d", got)
	}
	if got := len(AllEdgeKinds()); got != 14 {
		t.Errorf("expected 14 edge kinds, got %d", got)
	}
	if !ValidNodeKind("function") || !ValidNodeKind("hook") {
		t.Error("known kinds rejected")
	}
	if ValidNodeKind("Function") || ValidNodeKind("widget") {
		t.Error("unknown kinds accepted")
	}
}

func TestContentHash(t *testing.T) {
	h := ContentHash([]byte("hello"))
	if len(h) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(h))
	}
	if h != ContentHash([]byte("hello")) {
		t.Error("hash not deterministic")
	}
	if h == ContentHash([]byte("hello!")) {
		t.Error("different content produced same hash")
	}
}
