package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"

	"github.com/codexray/codexray/internal/lang"
)

// debounceWindow coalesces rapid change events per path.
const debounceWindow = 300 * time.Millisecond

// ErrorFunc receives per-file watcher failures. The watcher itself never
// stops on them.
type ErrorFunc func(path string, err error)

// Watcher observes the project tree and keeps the index current:
// add/change re-extracts the file and re-resolves its references, unlink
// removes file, nodes, and edges.
type Watcher struct {
	ix      *Indexer
	fs      *fsnotify.Watcher
	onError ErrorFunc

	mu      sync.Mutex
	pending map[string]*time.Timer
	digests map[string]uint64 // last seen content digest per rel path

	closeOnce sync.Once
	done      chan struct{}
}

// Watch starts watching the indexer's root. The returned Watcher runs
// until Close or context cancellation.
func Watch(ctx context.Context, ix *Indexer, onError ErrorFunc) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		ix:      ix,
		fs:      fs,
		onError: onError,
		pending: make(map[string]*time.Timer),
		digests: make(map[string]uint64),
		done:    make(chan struct{}),
	}
	if err := w.addDirs(ix.Root); err != nil {
		fs.Close()
		return nil, err
	}
	go w.run(ctx)
	slog.Info("watch.start", "root", ix.Root)
	return w, nil
}

// Close tears down the watcher and any pending debounced work. Idempotent.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.fs.Close()
		w.mu.Lock()
		for _, t := range w.pending {
			t.Stop()
		}
		w.pending = map[string]*time.Timer{}
		w.mu.Unlock()
		slog.Info("watch.stop", "root", w.ix.Root)
	})
}

// addDirs registers root and every non-ignored subdirectory. fsnotify
// watches are not recursive.
func (w *Watcher) addDirs(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if path != root && ignoreDirs[info.Name()] {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError("", err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// New directories must be added to the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !ignoreDirs[filepath.Base(event.Name)] {
				_ = w.addDirs(event.Name)
			}
			return
		}
	}

	if _, ok := lang.LanguageForExtension(filepath.Ext(event.Name)); !ok {
		return
	}
	rel, err := filepath.Rel(w.ix.Root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.schedule(rel, func() {
			slog.Info("watch.unlink", "path", rel)
			if err := w.ix.removeFile(rel); err != nil && w.onError != nil {
				w.onError(rel, err)
			}
		})
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		w.schedule(rel, func() {
			if !w.contentChanged(event.Name, rel) {
				return
			}
			slog.Info("watch.changed", "path", rel)
			if err := w.ix.reindexPath(ctx, rel); err != nil && w.onError != nil {
				w.onError(rel, err)
			}
		})
	}
}

// schedule debounces fn per path by debounceWindow; the last event in a
// burst wins.
func (w *Watcher) schedule(rel string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[rel]; ok {
		t.Stop()
	}
	w.pending[rel] = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, rel)
		w.mu.Unlock()
		select {
		case <-w.done:
			return
		default:
		}
		fn()
	})
}

// contentChanged compares a fast content digest against the last one seen
// for the path, so save events with identical bytes do not re-extract.
func (w *Watcher) contentChanged(absPath, rel string) bool {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return true // let reindexPath surface the error path
	}
	digest := xxh3.Hash(content)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.digests[rel] == digest {
		return false
	}
	w.digests[rel] = digest
	return true
}
