package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/codexray/codexray/internal/config"
	"github.com/codexray/codexray/internal/index"
	"github.com/codexray/codexray/internal/query"
	"github.com/codexray/codexray/internal/store"
	"github.com/codexray/codexray/internal/tools"
)

// projectRoot is the directory the engine operates on. The engine reads
// only the config file and the filesystem; no environment variables.
func projectRoot() (string, error) {
	return os.Getwd()
}

// openProject loads the config and opens the store for an initialized root.
func openProject() (string, *config.Config, *store.Store, error) {
	root, err := projectRoot()
	if err != nil {
		return "", nil, nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, nil, err
	}
	s, err := store.Open(config.DBPath(root))
	if err != nil {
		return "", nil, nil, err
	}
	return root, cfg, s, nil
}

func quietLogging() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
}

func newInitCmd() *cobra.Command {
	var runIndex bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the .codexray storage directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			cfg, err := config.Init(root)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			s, err := store.Open(config.DBPath(root))
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer s.Close()
			fmt.Printf("Initialized %s for project %q\n", config.DirName, cfg.ProjectName)

			if runIndex {
				res, err := index.New(s, root, cfg).Index(cmd.Context(), false)
				if err != nil {
					return err
				}
				printIndexResult(res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&runIndex, "index", false, "index the project after initializing")
	return cmd
}

func newIndexCmd() *cobra.Command {
	var force, quiet bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index the project (full pass, skips unchanged files)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if quiet {
				quietLogging()
			}
			root, cfg, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()
			res, err := index.New(s, root, cfg).Index(cmd.Context(), force)
			if err != nil {
				return err
			}
			if !quiet {
				printIndexResult(res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "re-extract files even when hashes match")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress output")
	return cmd
}

func newSyncCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Incrementally sync the index with the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if quiet {
				quietLogging()
			}
			root, cfg, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()
			res, err := index.New(s, root, cfg).Sync(cmd.Context())
			if err != nil {
				return err
			}
			if !quiet {
				printIndexResult(res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress output")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the tree and keep the index current",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ix := index.New(s, root, cfg)
			if _, err := ix.Sync(ctx); err != nil {
				return err
			}
			w, err := index.Watch(ctx, ix, func(path string, err error) {
				slog.Warn("watch.error", "path", path, "err", err)
			})
			if err != nil {
				return err
			}
			defer w.Close()

			fmt.Println("Watching for changes. Ctrl-C to stop.")
			<-ctx.Done()
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()
			stats, err := s.GetStats()
			if err != nil {
				return err
			}
			fmt.Printf("Files:  %d\n", stats.Files)
			fmt.Printf("Nodes:  %d\n", stats.Nodes)
			fmt.Printf("Edges:  %d\n", stats.Edges)
			if stats.LastIndexed != "" {
				fmt.Printf("Last indexed: %s\n", stats.LastIndexed)
			}
			if len(stats.Languages) > 0 {
				fmt.Println("Languages:")
				for l, n := range stats.Languages {
					fmt.Printf("  %-12s %d files\n", l, n)
				}
			}
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	var kind string
	var limit int
	cmd := &cobra.Command{
		Use:   "query <string>",
		Short: "Keyword search over indexed symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()
			nodes, err := s.SearchNodes(strings.Join(args, " "), kind, limit)
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, n := range nodes {
				fmt.Printf("%-10s %-40s %s:%d\n", n.Kind, n.QualifiedName, n.FilePath, n.StartLine)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "filter by node kind")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results")
	return cmd
}

func newSemanticCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "semantic <string>",
		Short: "Meaning-based symbol search (TF-IDF)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()
			results, err := s.SemanticSearch(strings.Join(args, " "), 10)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, r := range results {
				fmt.Printf("%6.2f %-10s %-40s %s:%d\n",
					r.Score, r.Node.Kind, r.Node.QualifiedName, r.Node.FilePath, r.Node.StartLine)
			}
			return nil
		},
	}
}

func newContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context <string>",
		Short: "Assemble a ranked context for a task query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()
			engine := query.New(s, root)
			result, err := engine.BuildContext(strings.Join(args, " "), query.ContextOptions{IncludeCode: true})
			if err != nil {
				return err
			}
			fmt.Print(result.FormatMarkdown())
			return nil
		},
	}
}

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Project overview: languages, symbols, hotspots",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, s, err := openProject()
			if err != nil {
				return err
			}
			defer s.Close()
			overview, err := query.New(s, root).BuildOverview()
			if err != nil {
				return err
			}
			fmt.Printf("Files: %d   Nodes: %d   Edges: %d\n",
				overview.Stats.Files, overview.Stats.Nodes, overview.Stats.Edges)
			if len(overview.Stats.Languages) > 0 {
				fmt.Println("\nLanguages:")
				for l, n := range overview.Stats.Languages {
					fmt.Printf("  %-12s %d files\n", l, n)
				}
			}
			if len(overview.Stats.NodesByKind) > 0 {
				fmt.Println("\nSymbols:")
				for kind, n := range overview.Stats.NodesByKind {
					fmt.Printf("  %-12s %d\n", kind, n)
				}
			}
			if len(overview.Hotspots) > 0 {
				fmt.Println("\nHotspots:")
				for _, h := range overview.Hotspots {
					fmt.Printf("  %-40s in=%d out=%d\n", h.Node.QualifiedName, h.InDegree, h.OutDegree)
				}
			}
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool protocol over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			srv := tools.NewServer(root, version)
			defer srv.Close()
			return srv.MCPServer().Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove all indexed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			if !config.Exists(root) {
				return config.ErrNotInitialized
			}
			s, err := store.Open(config.DBPath(root))
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Reset(); err != nil {
				return err
			}
			if err := s.Vacuum(); err != nil {
				return err
			}
			fmt.Println("Index cleared.")
			return nil
		},
	}
}

func printIndexResult(res *index.Result) {
	fmt.Printf("Indexed %d files (%d skipped, %d removed): %d symbols, %d relationships in %s\n",
		res.FilesIndexed, res.FilesSkipped, res.FilesRemoved, res.Nodes, res.Edges,
		res.Duration.Round(1e6))
	for _, pe := range res.ParseErrors {
		fmt.Printf("  parse error: %s: %s\n", pe.Path, pe.Err)
	}
}
