// Package watch observes the vault filesystem and marks cached markdown
// stale when the underlying note changes, so the next reload re-reads it.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/openvault/notechat-mcp/internal/domain/project"
)

// StaleMarker marks a single cached source stale.
type StaleMarker interface {
	MarkSourceStale(ctx context.Context, projectID, source string) error
}

// ProjectLister enumerates projects so a changed path can be attributed to
// the projects whose vault folder contains it.
type ProjectLister interface {
	List(ctx context.Context) ([]project.Project, error)
}

// Watcher invalidates cached notes as they change on disk.
type Watcher struct {
	vaultRoot string
	cache     StaleMarker
	projects  ProjectLister
	logger    *slog.Logger
}

// New creates a watcher for the vault rooted at vaultRoot.
func New(vaultRoot string, cache StaleMarker, projects ProjectLister, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		vaultRoot: vaultRoot,
		cache:     cache,
		projects:  projects,
		logger:    logger,
	}
}

// Run watches the vault until ctx is cancelled. Subdirectories are watched
// recursively; directories created while running are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.vaultRoot); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("vault watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		// New directories need their own watch; fsnotify is not recursive.
		if err := w.addIfDirectory(fsw, event.Name); err != nil {
			w.logger.Warn("watching new directory failed", "path", event.Name, "error", err)
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	rel, err := filepath.Rel(w.vaultRoot, event.Name)
	if err != nil {
		w.logger.Warn("resolving changed path failed", "path", event.Name, "error", err)
		return
	}
	source := filepath.ToSlash(rel)

	projects, err := w.projects.List(ctx)
	if err != nil {
		w.logger.Warn("listing projects for change attribution failed", "error", err)
		return
	}
	for _, proj := range projects {
		if !folderContains(proj.VaultFolder, source) {
			continue
		}
		if err := w.cache.MarkSourceStale(ctx, proj.ID, source); err != nil {
			w.logger.Warn("marking changed note stale failed",
				"project_id", proj.ID, "source", source, "error", err)
			continue
		}
		w.logger.Debug("marked changed note stale", "project_id", proj.ID, "source", source)
	}
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) addIfDirectory(fsw *fsnotify.Watcher, path string) error {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		// Regular file, or already gone again.
		return nil
	}
	return w.addRecursive(fsw, path)
}

// folderContains reports whether a vault-relative source path lives inside
// the given project folder. Folder "." spans the whole vault.
func folderContains(folder, source string) bool {
	if folder == "." || folder == "" {
		return true
	}
	prefix := filepath.ToSlash(folder)
	return source == prefix || strings.HasPrefix(source, prefix+"/")
}
