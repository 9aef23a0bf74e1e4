// Package fetch retrieves the raw content the context is derived from:
// markdown notes from the vault filesystem, linked web pages, and video
// transcripts.
package fetch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MarkdownFetcher reads markdown notes from the vault.
type MarkdownFetcher struct {
	vaultRoot string
}

// NewMarkdownFetcher creates a fetcher rooted at the vault directory.
func NewMarkdownFetcher(vaultRoot string) *MarkdownFetcher {
	return &MarkdownFetcher{vaultRoot: vaultRoot}
}

// Fetch reads one note by vault-relative path.
func (f *MarkdownFetcher) Fetch(ctx context.Context, relPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(f.vaultRoot, relPath))
	if err != nil {
		return "", fmt.Errorf("reading note %s: %w", relPath, err)
	}
	return string(data), nil
}

// List returns the vault-relative paths of all markdown files under folder.
// folder "." means the whole vault.
func (f *MarkdownFetcher) List(ctx context.Context, folder string) ([]string, error) {
	root := filepath.Join(f.vaultRoot, folder)
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			// Hidden directories hold plugin state, not notes.
			if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		rel, err := filepath.Rel(f.vaultRoot, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking vault folder %s: %w", folder, err)
	}
	return paths, nil
}
