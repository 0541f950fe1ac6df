package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codexray/codexray/internal/config"
)

// hookMarker identifies the lines this tool owns inside the hook script.
const hookMarker = "# codexray-sync"

const hookScript = `#!/bin/sh
` + hookMarker + `
codexray sync --quiet || true
`

func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks {install|remove|status}",
		Short: "Manage the post-commit sync hook",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Install a post-commit hook running codexray sync",
			RunE:  func(cmd *cobra.Command, args []string) error { return hooksInstall() },
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Remove the post-commit hook",
			RunE:  func(cmd *cobra.Command, args []string) error { return hooksRemove() },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the hook is installed",
			RunE:  func(cmd *cobra.Command, args []string) error { return hooksStatus() },
		},
	)
	return cmd
}

func hookPath() (string, error) {
	root, err := projectRoot()
	if err != nil {
		return "", err
	}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("no .git directory at %s", root)
	}
	return filepath.Join(gitDir, "hooks", "post-commit"), nil
}

func hooksInstall() error {
	path, err := hookPath()
	if err != nil {
		return err
	}
	if data, err := os.ReadFile(path); err == nil {
		if strings.Contains(string(data), hookMarker) {
			fmt.Println("Hook already installed.")
			return nil
		}
		return fmt.Errorf("a post-commit hook already exists at %s; remove it first", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(hookScript), 0o755); err != nil {
		return fmt.Errorf("write hook: %w", err)
	}

	// Record the choice in config; hooks status reads only the hook file.
	if root, err := projectRoot(); err == nil {
		if cfg, err := config.Load(root); err == nil {
			cfg.GitHooksEnabled = true
			_ = cfg.Save(root)
		}
	}
	fmt.Println("Installed post-commit hook.")
	return nil
}

func hooksRemove() error {
	path, err := hookPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("No hook installed.")
		return nil
	}
	if !strings.Contains(string(data), hookMarker) {
		return fmt.Errorf("post-commit hook at %s was not installed by codexray", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove hook: %w", err)
	}
	if root, err := projectRoot(); err == nil {
		if cfg, err := config.Load(root); err == nil {
			cfg.GitHooksEnabled = false
			_ = cfg.Save(root)
		}
	}
	fmt.Println("Removed post-commit hook.")
	return nil
}

func hooksStatus() error {
	path, err := hookPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err == nil && strings.Contains(string(data), hookMarker) {
		fmt.Println("Hook installed.")
	} else {
		fmt.Println("Hook not installed.")
	}
	return nil
}
