// Package extract lowers tree-sitter syntax trees into the uniform
// node/edge schema. Extraction is heuristic: name-based refinement of
// kinds, substring-based export detection, and regex complexity. The exact
// rules are load-bearing for golden tests and must not drift.
package extract

import (
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codexray/codexray/internal/fqn"
	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/lang"
	"github.com/codexray/codexray/internal/parser"
)

const (
	maxSignatureLen = 300
	maxDocstringLen = 500
	maxComplexity   = 100
)

var (
	hookRe       = regexp.MustCompile(`^use[A-Z]`)
	testRe       = regexp.MustCompile(`(?i)^(test|it|describe|spec)`)
	complexityRe = regexp.MustCompile(`\b(if|else|for|while|switch|case|catch|match)\b`)

	importFromRe    = regexp.MustCompile(`from\s+['"]([^'"]+)['"]`)
	importPathRe    = regexp.MustCompile(`import\s+['"]([^'"]+)['"]`)
	importRequireRe = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	importUseRe     = regexp.MustCompile(`^use\s+([A-Za-z0-9_:]+)`)
)

// Result is everything extracted from a single file.
type Result struct {
	Nodes      []*graph.Node
	Edges      []*graph.Edge // contains edges, parent before child
	References []*graph.Reference
}

type extractor struct {
	spec    *lang.LanguageSpec
	relPath string
	source  []byte

	nodes   []*graph.Node
	seen    map[string]int // node id -> index into nodes
	edges   []*graph.Edge
	edgeIDs map[string]bool
	refs    []*graph.Reference
	// orphanRefs are module-level references found before (or outside) any
	// symbol; they are attributed to the file's first symbol afterwards.
	orphanRefs []*graph.Reference
}

// File extracts all symbols, containment edges, and unresolved references
// from one parsed source file.
func File(relPath string, source []byte, spec *lang.LanguageSpec) (*Result, error) {
	tree, err := parser.Parse(spec.Language, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	e := &extractor{
		spec:    spec,
		relPath: relPath,
		source:  source,
		seen:    make(map[string]int),
		edgeIDs: make(map[string]bool),
	}
	e.walk(tree.RootNode(), nil)
	e.adoptOrphans()

	return &Result{Nodes: e.nodes, Edges: e.edges, References: e.refs}, nil
}

// walk visits the tree in pre-order. parent is the nearest enclosing
// recognized symbol; non-symbol nodes are descended through transparently.
func (e *extractor) walk(node *tree_sitter.Node, parent *graph.Node) {
	if node == nil {
		return
	}

	current := parent
	if sym := e.symbolFor(node); sym != nil {
		e.addNode(sym)
		if parent != nil {
			e.addEdge(parent.ID, sym.ID, graph.EdgeContains)
		}
		e.collectExtends(node, sym)
		current = sym
	} else {
		e.collectReference(node, parent)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			e.walk(child, current)
		}
	}
}

// symbolFor classifies node and builds a graph.Node, or returns nil when
// node is not a symbol.
func (e *extractor) symbolFor(node *tree_sitter.Node) *graph.Node {
	kind, ok := e.spec.KindFor(node.Kind())
	if !ok {
		return nil
	}
	name := e.symbolName(node)
	if name == "" {
		return nil
	}

	kind = e.refineKind(kind, name, node)

	startLine := int(node.StartPosition().Row) + 1
	endLine := int(node.EndPosition().Row) + 1
	text := parser.NodeText(node, e.source)

	return &graph.Node{
		ID:            graph.NodeID(kind, e.relPath, name, startLine),
		Kind:          kind,
		Name:          name,
		QualifiedName: fqn.Compute(e.relPath, name),
		FilePath:      e.relPath,
		StartLine:     startLine,
		EndLine:       endLine,
		Language:      string(e.spec.Language),
		Signature:     signature(text),
		Docstring:     e.docstring(node),
		Exported:      e.exported(node, text),
		Complexity:    complexity(text),
	}
}

// refineKind applies the post-classification refinements in order. Each
// rule only fires while the kind is still function.
func (e *extractor) refineKind(kind graph.NodeKind, name string, node *tree_sitter.Node) graph.NodeKind {
	if kind != graph.KindFunction {
		return kind
	}
	if e.insideClassBody(node) {
		return graph.KindMethod
	}
	if e.isScriptLang() && name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		return graph.KindComponent
	}
	if hookRe.MatchString(name) {
		return graph.KindHook
	}
	if testRe.MatchString(name) {
		return graph.KindTest
	}
	return kind
}

// isScriptLang reports whether the PascalCase-component rule applies. TSX
// is a TypeScript dialect and follows the same rule.
func (e *extractor) isScriptLang() bool {
	switch e.spec.Language {
	case lang.TypeScript, lang.JavaScript, lang.TSX:
		return true
	}
	return false
}

// insideClassBody reports whether node sits directly in a class body
// (possibly via a wrapper the grammar inserts, e.g. an export statement).
func (e *extractor) insideClassBody(node *tree_sitter.Node) bool {
	p := node.Parent()
	if p == nil {
		return false
	}
	if e.spec.IsExportWrapper(p.Kind()) {
		p = p.Parent()
		if p == nil {
			return false
		}
	}
	if !e.spec.IsClassBody(p.Kind()) {
		return false
	}
	gp := p.Parent()
	return gp != nil && e.spec.IsMethodContainer(gp.Kind())
}

// symbolName discovers the display name: named fields first, then direct
// identifier children, then one more level down.
func (e *extractor) symbolName(node *tree_sitter.Node) string {
	for _, field := range []string{"name", "identifier", "type_identifier", "property_name"} {
		if c := node.ChildByFieldName(field); c != nil {
			return parser.NodeText(c, e.source)
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		c := node.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "identifier", "type_identifier", "property_identifier":
			return parser.NodeText(c, e.source)
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		c := node.NamedChild(i)
		if c == nil {
			continue
		}
		for j := uint(0); j < c.NamedChildCount(); j++ {
			gc := c.NamedChild(j)
			if gc != nil && gc.Kind() == "identifier" {
				return parser.NodeText(gc, e.source)
			}
		}
	}
	return ""
}

// exported detects visibility: an enclosing export wrapper, or a source
// prefix of pub/public/export within the first 20 bytes.
func (e *extractor) exported(node *tree_sitter.Node, text string) bool {
	for p, depth := node.Parent(), 0; p != nil && depth < 2; p, depth = p.Parent(), depth+1 {
		if e.spec.IsExportWrapper(p.Kind()) {
			return true
		}
	}
	head := text
	if len(head) > 20 {
		head = head[:20]
	}
	for _, prefix := range []string{"pub ", "public ", "export "} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

// signature is the header of the symbol: up to the first '{', else up to a
// ':' within the first 200 chars, else the first line. Capped at 300.
func signature(text string) string {
	var sig string
	if i := strings.IndexByte(text, '{'); i >= 0 {
		sig = text[:i]
	} else if i := strings.IndexByte(text, ':'); i >= 0 && i < 200 {
		sig = text[:i]
	} else if i := strings.IndexByte(text, '\n'); i >= 0 {
		sig = text[:i]
	} else {
		sig = text
	}
	sig = strings.TrimSpace(sig)
	if len(sig) > maxSignatureLen {
		sig = sig[:maxSignatureLen]
	}
	return sig
}

// docstring is the preceding comment sibling, or for string-docstring
// languages the leading string expression of the body. Capped at 500.
func (e *extractor) docstring(node *tree_sitter.Node) string {
	target := node
	// An export wrapper owns the comment position.
	if p := node.Parent(); p != nil && e.spec.IsExportWrapper(p.Kind()) {
		target = p
	}
	if prev := target.PrevNamedSibling(); prev != nil && e.isCommentNode(prev.Kind()) {
		return capDoc(parser.NodeText(prev, e.source))
	}
	if body := node.ChildByFieldName("body"); body != nil && body.NamedChildCount() > 0 {
		first := body.NamedChild(0)
		if first != nil && first.Kind() == "expression_statement" && first.NamedChildCount() > 0 {
			str := first.NamedChild(0)
			if str != nil && str.Kind() == "string" {
				return capDoc(parser.NodeText(str, e.source))
			}
		}
	}
	return ""
}

func (e *extractor) isCommentNode(t string) bool {
	if e.spec.IsComment(t) {
		return true
	}
	switch t {
	case "comment", "doc_comment", "block_comment":
		return true
	}
	return false
}

func capDoc(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxDocstringLen {
		s = s[:maxDocstringLen]
	}
	return s
}

// complexity is 1 plus branch keywords and short-circuit/ternary operators
// in the symbol source. Capped at 100.
func complexity(text string) int {
	n := 1 + len(complexityRe.FindAllString(text, -1))
	n += strings.Count(text, "&&")
	n += strings.Count(text, "||")
	n += strings.Count(text, "?")
	if n > maxComplexity {
		n = maxComplexity
	}
	return n
}

func (e *extractor) addNode(n *graph.Node) {
	if i, ok := e.seen[n.ID]; ok {
		e.nodes[i] = n // same (kind, path, name, line) tuple: overwrite
		return
	}
	e.seen[n.ID] = len(e.nodes)
	e.nodes = append(e.nodes, n)
}

func (e *extractor) addEdge(sourceID, targetID string, kind graph.EdgeKind) {
	id := graph.EdgeID(sourceID, targetID, kind)
	if e.edgeIDs[id] {
		return
	}
	e.edgeIDs[id] = true
	e.edges = append(e.edges, &graph.Edge{ID: id, SourceID: sourceID, TargetID: targetID, Kind: kind})
}

// collectReference records deferred call/import references at non-symbol
// nodes, attributed to the nearest enclosing symbol.
func (e *extractor) collectReference(node *tree_sitter.Node, parent *graph.Node) {
	t := node.Kind()
	switch {
	case e.spec.IsCall(t):
		if callee := e.calleeName(node); callee != "" {
			e.addRef(parent, callee, graph.EdgeCalls)
		}
	case e.spec.IsImport(t):
		if target := importTarget(parser.NodeText(node, e.source)); target != "" {
			e.addRef(parent, target, graph.EdgeImports)
		}
	}
}

// collectExtends scans a symbol's direct children for extends/implements
// clauses and records references to the named supertypes.
func (e *extractor) collectExtends(node *tree_sitter.Node, sym *graph.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		c := node.NamedChild(i)
		if c == nil || !e.spec.IsExtendsClause(c.Kind()) {
			continue
		}
		kind := graph.EdgeExtends
		if strings.Contains(c.Kind(), "implement") {
			kind = graph.EdgeImplements
		}
		for _, name := range e.typeNames(c) {
			e.addRef(sym, name, kind)
		}
	}
}

// typeNames collects identifier-like descendants of an extends clause,
// two levels deep at most.
func (e *extractor) typeNames(clause *tree_sitter.Node) []string {
	var names []string
	appendName := func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "identifier", "type_identifier", "constant":
			names = append(names, parser.NodeText(n, e.source))
		}
	}
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		c := clause.NamedChild(i)
		if c == nil {
			continue
		}
		appendName(c)
		for j := uint(0); j < c.NamedChildCount(); j++ {
			if gc := c.NamedChild(j); gc != nil {
				appendName(gc)
			}
		}
	}
	return names
}

// calleeName extracts the called name from a call-like node and trims it
// to its trailing identifier segment.
func (e *extractor) calleeName(node *tree_sitter.Node) string {
	var calleeNode *tree_sitter.Node
	for _, field := range []string{"function", "constructor", "name"} {
		if c := node.ChildByFieldName(field); c != nil {
			calleeNode = c
			break
		}
	}
	if calleeNode == nil {
		calleeNode = node.NamedChild(0)
	}
	if calleeNode == nil {
		return ""
	}
	return trailingIdentifier(parser.NodeText(calleeNode, e.source))
}

// trailingIdentifier reduces "pkg.Type::method" or "obj->call" to the last
// name segment and strips any argument tail.
func trailingIdentifier(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	for _, sep := range []string{".", "::", "->"} {
		if i := strings.LastIndex(s, sep); i >= 0 {
			s = s[i+len(sep):]
		}
	}
	if s == "" || !identRe.MatchString(s) {
		return ""
	}
	return s
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// importTarget pulls the module path out of an import-like statement and
// normalizes it to its base name.
func importTarget(text string) string {
	var path string
	for _, re := range []*regexp.Regexp{importFromRe, importPathRe, importRequireRe, importUseRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			path = m[1]
			break
		}
	}
	if path == "" {
		return ""
	}
	// Base name without extension: "./utils/helpers.js" -> "helpers".
	for _, sep := range []string{"/", "::"} {
		if i := strings.LastIndex(path, sep); i >= 0 {
			path = path[i+len(sep):]
		}
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		path = path[:i]
	}
	return path
}

func (e *extractor) addRef(parent *graph.Node, name string, kind graph.EdgeKind) {
	ref := &graph.Reference{Name: name, Kind: kind, FilePath: e.relPath}
	if parent != nil {
		ref.SourceID = parent.ID
		e.refs = append(e.refs, ref)
		return
	}
	e.orphanRefs = append(e.orphanRefs, ref)
}

// adoptOrphans attributes module-level references (imports above the first
// declaration, top-level calls) to the file's first symbol. Files with no
// symbols drop them.
func (e *extractor) adoptOrphans() {
	if len(e.nodes) == 0 || len(e.orphanRefs) == 0 {
		return
	}
	first := e.nodes[0]
	for _, ref := range e.orphanRefs {
		ref.SourceID = first.ID
		e.refs = append(e.refs, ref)
	}
	e.orphanRefs = nil
}
