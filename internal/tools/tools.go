// Package tools exposes the query engine to AI assistants over the MCP
// stdio transport (line-delimited JSON-RPC). Each tool maps 1:1 to a
// query-engine or store method.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codexray/codexray/internal/config"
	"github.com/codexray/codexray/internal/query"
	"github.com/codexray/codexray/internal/store"
)

// Server wraps the MCP server with tool handlers for one project root.
type Server struct {
	mcp  *mcp.Server
	root string

	mu     sync.Mutex
	store  *store.Store
	engine *query.Engine
}

// NewServer creates an MCP server with all tools registered. The store is
// opened lazily so an uninitialized root yields guidance, not a crash.
func NewServer(root, version string) *Server {
	srv := &Server{
		root: root,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "codexray",
				Version: version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Close releases the store if it was opened.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		s.store.Close()
		s.store = nil
		s.engine = nil
	}
}

// getEngine opens the store on first use. Roots without a .codexray
// directory return config.ErrNotInitialized.
func (s *Server) getEngine() (*query.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		return s.engine, nil
	}
	if !config.Exists(s.root) {
		return nil, config.ErrNotInitialized
	}
	st, err := store.Open(config.DBPath(s.root))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.store = st
	s.engine = query.New(st, s.root)
	return s.engine, nil
}

// toolHandler is the MCP tool callback shape.
type toolHandler = func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error)

func (s *Server) registerTools() {
	add := func(name, description, schema string, handler toolHandler) {
		s.mcp.AddTool(&mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: json.RawMessage(schema),
		}, handler)
	}

	const symbolSchema = `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "description": "Symbol name or qualified name"},
			"file": {"type": "string", "description": "Optional file-path substring to disambiguate"}
		},
		"required": ["name"]
	}`

	add("search_symbols",
		"Keyword search over symbol names, qualified names, signatures, and docstrings. Prefix matching with relevance ranking.",
		`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search terms"},
				"kind": {"type": "string", "description": "Optional node kind filter (function, class, method, ...)"},
				"limit": {"type": "integer", "description": "Max results (default 20)"}
			},
			"required": ["query"]
		}`, s.handleSearchSymbols)

	add("build_context",
		"Assemble a ranked multi-symbol context for a natural-language task. Returns the most relevant symbols with code, callers, and callees.",
		`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Task description, e.g. 'fix the token refresh logic'"},
				"max_nodes": {"type": "integer", "description": "Max symbols (default 25)"},
				"include_code": {"type": "boolean", "description": "Attach source slices (default true)"},
				"kind": {"type": "string", "description": "Optional node kind filter"},
				"file": {"type": "string", "description": "Optional file-path substring filter"},
				"format": {"type": "string", "enum": ["markdown", "compact", "json"], "description": "Output shape (default markdown)"}
			},
			"required": ["query"]
		}`, s.handleBuildContext)

	add("semantic_search",
		"Meaning-based symbol search using the TF-IDF index. Better than keyword search for multi-word concept queries.",
		`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Concept query, e.g. 'authenticate user password'"},
				"limit": {"type": "integer", "description": "Max results (default 10)"}
			},
			"required": ["query"]
		}`, s.handleSemanticSearch)

	add("get_node",
		"Inspect one symbol: kind, location, signature, docstring, complexity, and relationships.",
		symbolSchema, s.handleGetNode)

	add("get_callers",
		"List the symbols that call a function or method.",
		symbolSchema, s.handleGetCallers)

	add("get_callees",
		"List the symbols a function or method calls.",
		symbolSchema, s.handleGetCallees)

	add("impact_radius",
		"Find every symbol that transitively depends on the given one, grouped by graph distance. Use before changing shared code.",
		`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Symbol name"},
				"file": {"type": "string", "description": "Optional file-path substring to disambiguate"},
				"depth": {"type": "integer", "description": "Max BFS depth (default 3)"}
			},
			"required": ["name"]
		}`, s.handleImpactRadius)

	add("get_dependencies",
		"List a symbol's direct dependencies and dependents across all relationship kinds.",
		symbolSchema, s.handleGetDependencies)

	add("overview",
		"Project overview: language split, symbol census, top hotspots, and top-level namespaces.",
		`{"type": "object"}`, s.handleOverview)

	add("dead_code",
		"Find symbols with zero incoming dependency edges.",
		`{
			"type": "object",
			"properties": {
				"kinds": {"type": "array", "items": {"type": "string"}, "description": "Node kinds to consider (default function, method, class)"},
				"exported_only": {"type": "boolean", "description": "Report exported symbols instead of non-exported ones"}
			}
		}`, s.handleDeadCode)

	add("hotspots",
		"Rank symbols by combined in/out edge degree. High-degree symbols are change-risky.",
		`{
			"type": "object",
			"properties": {
				"limit": {"type": "integer", "description": "Max results (default 10)"}
			}
		}`, s.handleHotspots)

	add("file_tree",
		"List all indexed files with language, symbol count, and line count.",
		`{"type": "object"}`, s.handleFileTree)

	add("status",
		"Index status: file/node/edge counts and last index time.",
		`{"type": "object"}`, s.handleStatus)

	add("find_path",
		"Shortest relationship path between two symbols, or null when unconnected.",
		`{
			"type": "object",
			"properties": {
				"from": {"type": "string", "description": "Source symbol name"},
				"to": {"type": "string", "description": "Target symbol name"},
				"from_file": {"type": "string", "description": "Optional file substring for the source"},
				"to_file": {"type": "string", "description": "Optional file substring for the target"},
				"depth": {"type": "integer", "description": "Max path length (default 10)"}
			},
			"required": ["from", "to"]
		}`, s.handleFindPath)

	add("circular_deps",
		"Detect circular dependencies over import/call/extends/implements edges.",
		`{"type": "object"}`, s.handleCircularDeps)

	add("complexity_report",
		"List symbols at or above a complexity threshold, most complex first.",
		`{
			"type": "object",
			"properties": {
				"threshold": {"type": "integer", "description": "Minimum complexity (default 10)"}
			}
		}`, s.handleComplexityReport)
}

// jsonResult marshals data to JSON and returns it as a tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return textResult(string(b))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

func getBoolArg(args map[string]any, key string, defaultVal bool) bool {
	b, ok := args[key].(bool)
	if !ok {
		return defaultVal
	}
	return b
}
