package index

import (
	"context"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/codexray/codexray/internal/config"
	"github.com/codexray/codexray/internal/lang"
)

// ignoreDirs are directory names always skipped during discovery: build
// output, dependency trees, VCS metadata, and the engine's own storage.
var ignoreDirs = map[string]bool{
	".cache": true, ".eggs": true, ".env": true, ".git": true,
	".gradle": true, ".hg": true, ".idea": true, ".mypy_cache": true,
	".nox": true, ".npm": true, ".nyc_output": true, ".pnpm-store": true,
	".pytest_cache": true, ".ruff_cache": true, ".svn": true, ".tox": true,
	".venv": true, ".vs": true, ".vscode": true, ".yarn": true,
	"__pycache__": true, "bin": true, "bower_components": true,
	"build": true, "coverage": true, "dist": true, "env": true,
	"node_modules": true, "obj": true, "out": true, "target": true,
	"tmp": true, "vendor": true, "venv": true,
	config.DirName: true,
}

// FileInfo is a discovered source file.
type FileInfo struct {
	Path     string // absolute
	RelPath  string // relative to the project root, slash-separated
	Language lang.Language
}

// Discover enumerates source files under root whose extension is
// registered, honoring the default ignore set, user-supplied excludes, and
// the per-file size cap. Unknown extensions are silently skipped.
func Discover(ctx context.Context, root string, cfg *config.Config) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	maxSize := int64(config.DefaultMaxFileSize)
	var excludes *ignore.GitIgnore
	if cfg != nil {
		if cfg.MaxFileSize > 0 {
			maxSize = int64(cfg.MaxFileSize)
		}
		if len(cfg.Exclude) > 0 {
			excludes = ignore.CompileIgnoreLines(cfg.Exclude...)
		}
	}

	var files []FileInfo
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && (ignoreDirs[info.Name()] || (excludes != nil && excludes.MatchesPath(rel))) {
				return filepath.SkipDir
			}
			return nil
		}
		if excludes != nil && excludes.MatchesPath(rel) {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}

		l, ok := lang.LanguageForExtension(filepath.Ext(path))
		if !ok {
			return nil
		}
		files = append(files, FileInfo{Path: path, RelPath: rel, Language: l})
		return nil
	})
	return files, err
}
