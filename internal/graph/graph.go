// Package graph defines the node/edge schema shared by the extractor,
// the store, and the query layer.
package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeKind classifies a symbol.
type NodeKind string

const (
	KindFunction   NodeKind = "function"
	KindMethod     NodeKind = "method"
	KindClass      NodeKind = "class"
	KindInterface  NodeKind = "interface"
	KindType       NodeKind = "type"
	KindEnum       NodeKind = "enum"
	KindVariable   NodeKind = "variable"
	KindConstant   NodeKind = "constant"
	KindModule     NodeKind = "module"
	KindNamespace  NodeKind = "namespace"
	KindStruct     NodeKind = "struct"
	KindTrait      NodeKind = "trait"
	KindComponent  NodeKind = "component"
	KindHook       NodeKind = "hook"
	KindDecorator  NodeKind = "decorator"
	KindProperty   NodeKind = "property"
	KindRoute      NodeKind = "route"
	KindMiddleware NodeKind = "middleware"
	KindTest       NodeKind = "test"
)

// AllNodeKinds returns every node kind in declaration order.
func AllNodeKinds() []NodeKind {
	return []NodeKind{
		KindFunction, KindMethod, KindClass, KindInterface, KindType,
		KindEnum, KindVariable, KindConstant, KindModule, KindNamespace,
		KindStruct, KindTrait, KindComponent, KindHook, KindDecorator,
		KindProperty, KindRoute, KindMiddleware, KindTest,
	}
}

// ValidNodeKind reports whether s names a known node kind.
func ValidNodeKind(s string) bool {
	for _, k := range AllNodeKinds() {
		if string(k) == s {
			return true
		}
	}
	return false
}

// EdgeKind classifies a relationship between two symbols.
type EdgeKind string

const (
	EdgeCalls       EdgeKind = "calls"
	EdgeImports     EdgeKind = "imports"
	EdgeExtends     EdgeKind = "extends"
	EdgeImplements  EdgeKind = "implements"
	EdgeReturnsType EdgeKind = "returns_type"
	EdgeUsesType    EdgeKind = "uses_type"
	EdgeHasMethod   EdgeKind = "has_method"
	EdgeHasProperty EdgeKind = "has_property"
	EdgeContains    EdgeKind = "contains"
	EdgeExports     EdgeKind = "exports"
	EdgeRenders     EdgeKind = "renders"
	EdgeDecorates   EdgeKind = "decorates"
	EdgeOverrides   EdgeKind = "overrides"
	EdgeTests       EdgeKind = "tests"
)

// AllEdgeKinds returns every edge kind in declaration order.
func AllEdgeKinds() []EdgeKind {
	return []EdgeKind{
		EdgeCalls, EdgeImports, EdgeExtends, EdgeImplements, EdgeReturnsType,
		EdgeUsesType, EdgeHasMethod, EdgeHasProperty, EdgeContains,
		EdgeExports, EdgeRenders, EdgeDecorates, EdgeOverrides, EdgeTests,
	}
}

// DependencyEdgeKinds are the edge kinds that express "source depends on
// target". Impact radius and dead-code detection walk exactly these.
func DependencyEdgeKinds() []EdgeKind {
	return []EdgeKind{EdgeCalls, EdgeImports, EdgeExtends, EdgeImplements, EdgeUsesType}
}

// CycleEdgeKinds are the edge kinds circular-dependency detection follows.
func CycleEdgeKinds() []EdgeKind {
	return []EdgeKind{EdgeImports, EdgeCalls, EdgeExtends, EdgeImplements}
}

// ChildEdgeKinds are the edge kinds that express structural containment.
func ChildEdgeKinds() []EdgeKind {
	return []EdgeKind{EdgeHasMethod, EdgeHasProperty, EdgeContains}
}

// Node is a named symbol extracted from source.
type Node struct {
	ID            string
	Kind          NodeKind
	Name          string
	QualifiedName string
	FilePath      string
	StartLine     int // 1-based inclusive
	EndLine       int // 1-based inclusive
	Language      string
	Signature     string
	Docstring     string
	Exported      bool
	Complexity    int // 1..100
	Metadata      map[string]any
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	ID       string
	SourceID string
	TargetID string
	Kind     EdgeKind
	Metadata map[string]any
}

// FileRecord tracks one indexed file.
type FileRecord struct {
	Path        string // relative, unique
	Hash        string // first 16 hex chars of SHA-256 over content
	Language    string
	IndexedAt   string // RFC 3339
	SymbolCount int
	LineCount   int
}

// Reference is an edge-to-be whose target is only known by textual name.
type Reference struct {
	SourceID string
	Name     string
	Kind     EdgeKind
	FilePath string
}

// NodeID derives the stable node identifier: first 16 hex chars of SHA-256
// over (kind, file_path, name, start_line). Collisions within that tuple
// are the same symbol.
func NodeID(kind NodeKind, filePath, name string, startLine int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s:%d", kind, filePath, name, startLine)))
	return hex.EncodeToString(sum[:])[:16]
}

// EdgeID derives the stable edge identifier: first 16 hex chars of SHA-256
// over (source_id, "->", target_id, ":", kind).
func EdgeID(sourceID, targetID string, kind EdgeKind) string {
	sum := sha256.Sum256([]byte(sourceID + "->" + targetID + ":" + string(kind)))
	return hex.EncodeToString(sum[:])[:16]
}

// ContentHash is the short content digest stored on FileRecord.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:16]
}
