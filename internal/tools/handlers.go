package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codexray/codexray/internal/config"
	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/query"
	"github.com/codexray/codexray/internal/store"
)

// notInitializedMsg guides the caller instead of crashing on a missing
// .codexray directory.
const notInitializedMsg = "This project has no index yet. Run `codexray init --index` in the project root first."

// engineOr resolves the engine or renders the failure as a tool result.
func (s *Server) engineOr() (*query.Engine, *mcp.CallToolResult) {
	engine, err := s.getEngine()
	if err != nil {
		if errors.Is(err, config.ErrNotInitialized) {
			return nil, textResult(notInitializedMsg)
		}
		return nil, errResult(err.Error())
	}
	return engine, nil
}

// lookup resolves the name/file arguments to one node, rendering not-found
// and ambiguity as informative results.
func lookup(engine *query.Engine, args map[string]any, nameKey, fileKey string) (*graph.Node, *mcp.CallToolResult) {
	name := getStringArg(args, nameKey)
	if name == "" {
		return nil, errResult(fmt.Sprintf("missing required argument: %s", nameKey))
	}
	node, err := engine.LookupSymbol(name, getStringArg(args, fileKey))
	if err == nil {
		return node, nil
	}
	if errors.Is(err, query.ErrNotFound) {
		return nil, textResult(fmt.Sprintf("No symbol named %q found.", name))
	}
	var ambiguous *query.AmbiguousError
	if errors.As(err, &ambiguous) {
		return nil, textResult(fmt.Sprintf(
			"Symbol %q is ambiguous. Pass a file substring to disambiguate:\n%s",
			name, strings.Join(ambiguous.CandidateLines(), "\n")))
	}
	return nil, errResult(err.Error())
}

func (s *Server) handleSearchSymbols(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	nodes, err := engine.Store.SearchNodes(
		getStringArg(args, "query"),
		getStringArg(args, "kind"),
		getIntArg(args, "limit", 20))
	if err != nil {
		return errResult(fmt.Sprintf("search: %v", err)), nil
	}
	if len(nodes) == 0 {
		return textResult("No matches."), nil
	}
	return jsonResult(nodes), nil
}

func (s *Server) handleBuildContext(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	result, err := engine.BuildContext(getStringArg(args, "query"), query.ContextOptions{
		MaxNodes:    getIntArg(args, "max_nodes", 0),
		IncludeCode: getBoolArg(args, "include_code", true),
		Kind:        getStringArg(args, "kind"),
		FileFilter:  getStringArg(args, "file"),
	})
	if err != nil {
		return errResult(fmt.Sprintf("context: %v", err)), nil
	}
	switch getStringArg(args, "format") {
	case "compact":
		return textResult(result.FormatCompact()), nil
	case "json":
		return jsonResult(result), nil
	default:
		return textResult(result.FormatMarkdown()), nil
	}
}

func (s *Server) handleSemanticSearch(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	results, err := engine.Store.SemanticSearch(
		getStringArg(args, "query"),
		getIntArg(args, "limit", 10))
	if err != nil {
		return errResult(fmt.Sprintf("semantic search: %v", err)), nil
	}
	if len(results) == 0 {
		return textResult("No matches."), nil
	}
	type hit struct {
		Node  *graph.Node `json:"node"`
		Score float64     `json:"score"`
	}
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, hit{Node: r.Node, Score: r.Score})
	}
	return jsonResult(hits), nil
}

func (s *Server) handleGetNode(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	node, fail := lookup(engine, args, "name", "file")
	if fail != nil {
		return fail, nil
	}
	deps, _ := engine.Store.Dependencies(node.ID)
	dependents, _ := engine.Store.Dependents(node.ID)
	return jsonResult(map[string]any{
		"node":         node,
		"dependencies": neighborNames(deps),
		"dependents":   neighborNames(dependents),
	}), nil
}

func neighborNames(grouped map[graph.EdgeKind][]*graph.Node) map[string][]string {
	out := make(map[string][]string, len(grouped))
	for kind, nodes := range grouped {
		for _, n := range nodes {
			out[string(kind)] = append(out[string(kind)], n.QualifiedName)
		}
	}
	return out
}

func (s *Server) handleGetCallers(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleCallEdges(req, true)
}

func (s *Server) handleGetCallees(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleCallEdges(req, false)
}

func (s *Server) handleCallEdges(req *mcp.CallToolRequest, callers bool) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	node, fail := lookup(engine, args, "name", "file")
	if fail != nil {
		return fail, nil
	}
	var nodes []*graph.Node
	if callers {
		nodes, err = engine.Store.Callers(node.ID, getIntArg(args, "limit", 50))
	} else {
		nodes, err = engine.Store.Callees(node.ID, getIntArg(args, "limit", 50))
	}
	if err != nil {
		return errResult(err.Error()), nil
	}
	if len(nodes) == 0 {
		if callers {
			return textResult(fmt.Sprintf("Nothing calls %s.", node.QualifiedName)), nil
		}
		return textResult(fmt.Sprintf("%s calls nothing.", node.QualifiedName)), nil
	}
	return jsonResult(nodes), nil
}

func (s *Server) handleImpactRadius(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	node, fail := lookup(engine, args, "name", "file")
	if fail != nil {
		return fail, nil
	}
	impact, err := engine.Store.ImpactRadius(node.ID, getIntArg(args, "depth", 3))
	if err != nil {
		return errResult(err.Error()), nil
	}
	if len(impact) == 0 {
		return textResult(fmt.Sprintf("Nothing depends on %s.", node.QualifiedName)), nil
	}
	type affected struct {
		QualifiedName string `json:"qualified_name"`
		Kind          string `json:"kind"`
		File          string `json:"file"`
		Depth         int    `json:"depth"`
	}
	out := make([]affected, 0, len(impact))
	for _, entry := range impact {
		out = append(out, affected{
			QualifiedName: entry.Node.QualifiedName,
			Kind:          string(entry.Node.Kind),
			File:          entry.Node.FilePath,
			Depth:         entry.Depth,
		})
	}
	return jsonResult(map[string]any{"root": node.QualifiedName, "affected": out}), nil
}

func (s *Server) handleGetDependencies(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	node, fail := lookup(engine, args, "name", "file")
	if fail != nil {
		return fail, nil
	}
	deps, err := engine.Store.Dependencies(node.ID)
	if err != nil {
		return errResult(err.Error()), nil
	}
	dependents, err := engine.Store.Dependents(node.ID)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"symbol":       node.QualifiedName,
		"dependencies": neighborNames(deps),
		"dependents":   neighborNames(dependents),
	}), nil
}

func (s *Server) handleOverview(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	overview, err := engine.BuildOverview()
	if err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(overview), nil
}

func (s *Server) handleDeadCode(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	opts := store.DeadCodeOptions{ExportedOnly: getBoolArg(args, "exported_only", false)}
	if raw, ok := args["kinds"].([]any); ok {
		for _, k := range raw {
			if str, ok := k.(string); ok && graph.ValidNodeKind(str) {
				opts.Kinds = append(opts.Kinds, graph.NodeKind(str))
			}
		}
	}
	nodes, err := engine.Store.FindDeadCode(opts)
	if err != nil {
		return errResult(err.Error()), nil
	}
	if len(nodes) == 0 {
		return textResult("No dead code found."), nil
	}
	return jsonResult(nodes), nil
}

func (s *Server) handleHotspots(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	hotspots, err := engine.Store.FindHotspots(getIntArg(args, "limit", 10))
	if err != nil {
		return errResult(err.Error()), nil
	}
	type hot struct {
		QualifiedName string `json:"qualified_name"`
		Kind          string `json:"kind"`
		File          string `json:"file"`
		InDegree      int    `json:"in_degree"`
		OutDegree     int    `json:"out_degree"`
	}
	out := make([]hot, 0, len(hotspots))
	for _, h := range hotspots {
		out = append(out, hot{
			QualifiedName: h.Node.QualifiedName,
			Kind:          string(h.Node.Kind),
			File:          h.Node.FilePath,
			InDegree:      h.InDegree,
			OutDegree:     h.OutDegree,
		})
	}
	return jsonResult(out), nil
}

func (s *Server) handleFileTree(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	tree, err := engine.Store.GetFileTree()
	if err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(tree), nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	stats, err := engine.Store.GetStats()
	if err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(stats), nil
}

func (s *Server) handleFindPath(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	from, fail := lookup(engine, args, "from", "from_file")
	if fail != nil {
		return fail, nil
	}
	to, fail := lookup(engine, args, "to", "to_file")
	if fail != nil {
		return fail, nil
	}
	path, err := engine.Store.FindPath(from.ID, to.ID, getIntArg(args, "depth", 10))
	if err != nil {
		return errResult(err.Error()), nil
	}
	if path == nil {
		return textResult(fmt.Sprintf("No path between %s and %s.", from.QualifiedName, to.QualifiedName)), nil
	}
	names := make([]string, 0, len(path))
	for _, n := range path {
		names = append(names, n.QualifiedName)
	}
	return jsonResult(names), nil
}

func (s *Server) handleCircularDeps(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	cycles, err := engine.Store.FindCircularDeps()
	if err != nil {
		return errResult(err.Error()), nil
	}
	if len(cycles) == 0 {
		return textResult("No circular dependencies found."), nil
	}
	out := make([][]string, 0, len(cycles))
	for _, c := range cycles {
		names := make([]string, 0, len(c.Nodes))
		for _, n := range c.Nodes {
			names = append(names, n.QualifiedName)
		}
		out = append(out, names)
	}
	return jsonResult(out), nil
}

func (s *Server) handleComplexityReport(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine, fail := s.engineOr()
	if fail != nil {
		return fail, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	nodes, err := engine.Store.ComplexityReport(getIntArg(args, "threshold", 10))
	if err != nil {
		return errResult(err.Error()), nil
	}
	if len(nodes) == 0 {
		return textResult("No symbols above the threshold."), nil
	}
	return jsonResult(nodes), nil
}
