// Package index orchestrates discovery, hashing, parsing, reference
// resolution, and store sync. All store writes happen on the calling
// goroutine; parsing fans out across workers.
package index

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codexray/codexray/internal/config"
	"github.com/codexray/codexray/internal/extract"
	"github.com/codexray/codexray/internal/graph"
	"github.com/codexray/codexray/internal/lang"
	"github.com/codexray/codexray/internal/resolve"
	"github.com/codexray/codexray/internal/store"
)

// Indexer drives the indexing pipeline for one project root.
type Indexer struct {
	Store  *store.Store
	Root   string
	Config *config.Config
}

// FileError records a per-file failure that did not abort the batch.
type FileError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// Result summarizes one index or sync pass.
type Result struct {
	FilesIndexed int           `json:"files_indexed"`
	FilesSkipped int           `json:"files_skipped"`
	FilesRemoved int           `json:"files_removed"`
	Nodes        int           `json:"nodes"`
	Edges        int           `json:"edges"`
	ParseErrors  []FileError   `json:"parse_errors,omitempty"`
	Duration     time.Duration `json:"-"`
}

// New creates an Indexer.
func New(s *store.Store, root string, cfg *config.Config) *Indexer {
	return &Indexer{Store: s, Root: root, Config: cfg}
}

// fileWork is one file's extraction output, produced by a parse worker and
// consumed by the single writer.
type fileWork struct {
	info   FileInfo
	hash   string
	lines  int
	result *extract.Result
	err    error
}

// Index runs a full pass: discover, hash, parse changed files, resolve
// references, rebuild the TF-IDF tables. With force=false, files whose
// stored hash matches are skipped untouched.
func (ix *Indexer) Index(ctx context.Context, force bool) (*Result, error) {
	start := time.Now()
	slog.Info("index.start", "root", ix.Root, "force", force)

	files, err := Discover(ctx, ix.Root, ix.Config)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	stored, err := ix.Store.FileHashes()
	if err != nil {
		return nil, fmt.Errorf("file hashes: %w", err)
	}

	res := &Result{}
	work, err := ix.parseFiles(ctx, files, stored, force, res)
	if err != nil {
		return nil, err
	}

	var refs []*graph.Reference
	for _, w := range work {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if w.err != nil {
			res.ParseErrors = append(res.ParseErrors, FileError{Path: w.info.RelPath, Err: w.err.Error()})
			continue
		}
		if err := ix.writeFile(w, res); err != nil {
			return nil, err
		}
		refs = append(refs, w.result.References...)
	}

	if err := ix.resolveRefs(refs, res); err != nil {
		return nil, err
	}
	if res.FilesIndexed > 0 || force {
		if err := ix.Store.BuildTFIDF(); err != nil {
			return nil, fmt.Errorf("tfidf: %w", err)
		}
	}

	res.Duration = time.Since(start)
	slog.Info("index.done", "indexed", res.FilesIndexed, "skipped", res.FilesSkipped,
		"nodes", res.Nodes, "edges", res.Edges, "errors", len(res.ParseErrors),
		"elapsed", res.Duration)
	return res, nil
}

// Sync compares the stored file set with the tree: deletes records for
// absent files, re-extracts new and changed files, rebuilds TF-IDF.
func (ix *Indexer) Sync(ctx context.Context) (*Result, error) {
	start := time.Now()
	slog.Info("sync.start", "root", ix.Root)

	files, err := Discover(ctx, ix.Root, ix.Config)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	stored, err := ix.Store.FileHashes()
	if err != nil {
		return nil, fmt.Errorf("file hashes: %w", err)
	}

	res := &Result{}

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.RelPath] = true
	}
	for path := range stored {
		if present[path] {
			continue
		}
		if err := ix.removeFile(path); err != nil {
			return nil, err
		}
		res.FilesRemoved++
	}

	work, err := ix.parseFiles(ctx, files, stored, false, res)
	if err != nil {
		return nil, err
	}
	var refs []*graph.Reference
	for _, w := range work {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if w.err != nil {
			res.ParseErrors = append(res.ParseErrors, FileError{Path: w.info.RelPath, Err: w.err.Error()})
			continue
		}
		if err := ix.writeFile(w, res); err != nil {
			return nil, err
		}
		refs = append(refs, w.result.References...)
	}

	if err := ix.resolveRefs(refs, res); err != nil {
		return nil, err
	}
	if res.FilesIndexed > 0 || res.FilesRemoved > 0 {
		if err := ix.Store.BuildTFIDF(); err != nil {
			return nil, fmt.Errorf("tfidf: %w", err)
		}
	}

	res.Duration = time.Since(start)
	slog.Info("sync.done", "indexed", res.FilesIndexed, "removed", res.FilesRemoved,
		"skipped", res.FilesSkipped, "elapsed", res.Duration)
	return res, nil
}

// parseFiles reads, hashes, and extracts changed files across workers.
// Unchanged files (stored hash matches, not forced) are read and hashed,
// then skipped before extraction. The returned slice preserves discovery
// order.
func (ix *Indexer) parseFiles(ctx context.Context, files []FileInfo, stored map[string]string, force bool, res *Result) ([]*fileWork, error) {
	out := make([]*fileWork, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(f.Path)
			if err != nil {
				out[i] = &fileWork{info: f, err: err}
				return nil
			}
			hash := graph.ContentHash(content)
			if !force && stored[f.RelPath] == hash {
				return nil // unchanged: leave nodes/edges untouched
			}
			spec := lang.ForLanguage(f.Language)
			if spec == nil {
				return nil
			}
			result, err := extract.File(f.RelPath, content, spec)
			if err != nil {
				out[i] = &fileWork{info: f, err: err}
				return nil
			}
			out[i] = &fileWork{
				info:   f,
				hash:   hash,
				lines:  bytes.Count(content, []byte{'\n'}) + 1,
				result: result,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compact := make([]*fileWork, 0, len(out))
	for i := range out {
		if out[i] == nil {
			res.FilesSkipped++
			continue
		}
		compact = append(compact, out[i])
	}
	return compact, nil
}

// writeFile replaces one file's graph slice in a single transaction:
// delete stale edges and nodes, upsert the new extraction, store the file
// record. Containment edges are written after their endpoint nodes.
func (ix *Indexer) writeFile(w *fileWork, res *Result) error {
	err := ix.Store.WithTransaction(func(tx *store.Store) error {
		if err := tx.DeleteEdgesByFile(w.info.RelPath); err != nil {
			return err
		}
		if err := tx.DeleteNodesByFile(w.info.RelPath); err != nil {
			return err
		}
		if err := tx.UpsertNodes(w.result.Nodes); err != nil {
			return err
		}
		if err := tx.UpsertEdges(w.result.Edges); err != nil {
			return err
		}
		return tx.UpsertFile(&graph.FileRecord{
			Path:        w.info.RelPath,
			Hash:        w.hash,
			Language:    string(w.info.Language),
			IndexedAt:   store.Now(),
			SymbolCount: len(w.result.Nodes),
			LineCount:   w.lines,
		})
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", w.info.RelPath, err)
	}
	res.FilesIndexed++
	res.Nodes += len(w.result.Nodes)
	res.Edges += len(w.result.Edges)
	return nil
}

// resolveRefs materializes cross-file edges for the batch.
func (ix *Indexer) resolveRefs(refs []*graph.Reference, res *Result) error {
	if len(refs) == 0 {
		return nil
	}
	edges, err := resolve.Resolve(ix.Store, refs)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	if len(edges) == 0 {
		return nil
	}
	err = ix.Store.WithTransaction(func(tx *store.Store) error {
		return tx.UpsertEdges(edges)
	})
	if err != nil {
		return fmt.Errorf("resolve upsert: %w", err)
	}
	res.Edges += len(edges)
	return nil
}

// removeFile deletes a file record with its nodes and dependent edges.
func (ix *Indexer) removeFile(path string) error {
	err := ix.Store.WithTransaction(func(tx *store.Store) error {
		if err := tx.DeleteEdgesByFile(path); err != nil {
			return err
		}
		if err := tx.DeleteNodesByFile(path); err != nil {
			return err
		}
		return tx.DeleteFile(path)
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// reindexPath re-extracts one file and immediately re-resolves its
// references. Used by the watcher.
func (ix *Indexer) reindexPath(ctx context.Context, relPath string) error {
	files, err := Discover(ctx, ix.Root, ix.Config)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.RelPath != relPath {
			continue
		}
		stored := map[string]string{}
		res := &Result{}
		work, err := ix.parseFiles(ctx, []FileInfo{f}, stored, true, res)
		if err != nil {
			return err
		}
		if len(work) == 0 {
			return nil
		}
		if work[0].err != nil {
			return work[0].err
		}
		if err := ix.writeFile(work[0], res); err != nil {
			return err
		}
		if err := ix.resolveRefs(work[0].result.References, res); err != nil {
			return err
		}
		return ix.Store.BuildTFIDF()
	}
	// Not discoverable anymore (ignored or oversized): drop its records.
	return ix.removeFile(relPath)
}
