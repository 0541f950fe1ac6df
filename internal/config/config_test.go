package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesLayout(t *testing.T) {
	root := t.TempDir()

	cfg, err := Init(root)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, cfg.Version)
	assert.Equal(t, filepath.Base(root), cfg.ProjectName)
	assert.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize)

	assert.True(t, Exists(root))
	_, err = os.Stat(filepath.Join(root, DirName, ConfigFile))
	assert.NoError(t, err)
}

func TestInitAppendsGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("node_modules/\n"), 0o644))

	_, err := Init(root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".codexray/")
	assert.Contains(t, string(data), "node_modules/")
}

func TestInitGitignoreIdempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(".codexray/\n"), 0o644))

	_, err := Init(root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, ".codexray/\n", string(data), "no duplicate line appended")
}

func TestLoadNotInitialized(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestUnknownFieldsPreserved(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(Dir(root), 0o755))
	raw := `{
		"version": 1,
		"projectName": "demo",
		"maxFileSize": 2048,
		"gitHooksEnabled": false,
		"editorIntegration": {"kind": "vscode"},
		"customNote": "keep me"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(Dir(root), ConfigFile), []byte(raw), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.ProjectName)
	assert.Equal(t, 2048, cfg.MaxFileSize)

	cfg.GitHooksEnabled = true
	require.NoError(t, cfg.Save(root))

	data, err := os.ReadFile(filepath.Join(Dir(root), ConfigFile))
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Contains(t, out, "editorIntegration")
	assert.Contains(t, out, "customNote")
	assert.JSONEq(t, `true`, string(out["gitHooksEnabled"]))
}

func TestVersionMismatchSurfaced(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(Dir(root), 0o755))
	raw := `{"version": 99, "projectName": "demo", "maxFileSize": 1048576}`
	require.NoError(t, os.WriteFile(filepath.Join(Dir(root), ConfigFile), []byte(raw), 0o644))

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 99")
}

func TestMaxFileSizeDefaulted(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(Dir(root), 0o755))
	raw := `{"version": 1, "projectName": "demo"}`
	require.NoError(t, os.WriteFile(filepath.Join(Dir(root), ConfigFile), []byte(raw), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize)
}
