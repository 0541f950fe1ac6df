// Package config manages the per-project .codexray/ directory: engine
// settings in config.json and the location of the graph database.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the per-project storage directory.
	DirName = ".codexray"
	// ConfigFile holds engine settings.
	ConfigFile = "config.json"
	// DBFile holds the entire persistent store.
	DBFile = "codexray.db"

	// SchemaVersion is the config/schema version this engine expects.
	SchemaVersion = 1

	// DefaultMaxFileSize is the per-file size cap in bytes (1 MiB).
	DefaultMaxFileSize = 1048576
)

// ErrNotInitialized signals a project root without a .codexray directory.
var ErrNotInitialized = errors.New("project is not initialized (run: codexray init)")

// Config mirrors config.json. Unknown fields are preserved across rewrites
// via the extra map.
type Config struct {
	Version         int      `json:"version"`
	ProjectName     string   `json:"projectName"`
	Languages       []string `json:"languages,omitempty"`
	Exclude         []string `json:"exclude,omitempty"`
	Frameworks      []string `json:"frameworks,omitempty"`
	MaxFileSize     int      `json:"maxFileSize"`
	GitHooksEnabled bool     `json:"gitHooksEnabled"`

	extra map[string]json.RawMessage
}

// knownFields are the keys the struct owns; everything else round-trips
// through extra.
var knownFields = map[string]bool{
	"version": true, "projectName": true, "languages": true,
	"exclude": true, "frameworks": true, "maxFileSize": true,
	"gitHooksEnabled": true,
}

// Dir returns the storage directory under root.
func Dir(root string) string {
	return filepath.Join(root, DirName)
}

// DBPath returns the database path under root.
func DBPath(root string) string {
	return filepath.Join(Dir(root), DBFile)
}

// Exists reports whether root has been initialized.
func Exists(root string) bool {
	info, err := os.Stat(Dir(root))
	return err == nil && info.IsDir()
}

// Default returns the configuration written by init.
func Default(root string) *Config {
	return &Config{
		Version:     SchemaVersion,
		ProjectName: filepath.Base(root),
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Init creates the storage directory, writes the default config when none
// exists, and registers .codexray/ in the repository's ignore file.
func Init(root string) (*Config, error) {
	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", DirName, err)
	}
	cfgPath := filepath.Join(Dir(root), ConfigFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return Load(root)
	}
	cfg := Default(root)
	if err := cfg.Save(root); err != nil {
		return nil, err
	}
	if err := appendIgnore(root); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates config.json under root.
func Load(root string) (*Config, error) {
	if !Exists(root) {
		return nil, ErrNotInitialized
	}
	data, err := os.ReadFile(filepath.Join(Dir(root), ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for k, v := range raw {
		if !knownFields[k] {
			if cfg.extra == nil {
				cfg.extra = make(map[string]json.RawMessage)
			}
			cfg.extra[k] = v
		}
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Version != SchemaVersion {
		// No silent migration: stale stores must be rebuilt explicitly.
		return nil, fmt.Errorf("config version %d does not match engine version %d (remove the .codexray directory, then run: codexray init)",
			cfg.Version, SchemaVersion)
	}
	return &cfg, nil
}

// Save writes config.json, preserving unknown fields from the last Load.
func (c *Config) Save(root string) error {
	out := make(map[string]json.RawMessage, len(c.extra)+8)
	for k, v := range c.extra {
		out[k] = v
	}
	known, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var knownMap map[string]json.RawMessage
	if err := json.Unmarshal(known, &knownMap); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	for k, v := range knownMap {
		out[k] = v
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := filepath.Join(Dir(root), ConfigFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// appendIgnore adds a .codexray/ line to the repository ignore file unless
// one is already present. Repositories without an ignore file get one.
func appendIgnore(root string) error {
	ignorePath := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read ignore file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == DirName+"/" || trimmed == DirName {
			return nil
		}
	}
	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += DirName + "/\n"
	if err := os.WriteFile(ignorePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write ignore file: %w", err)
	}
	return nil
}
