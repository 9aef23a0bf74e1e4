// Package contextcache holds per-project cached derived content: markdown
// notes, fetched web pages, video transcripts, and other file content. It is
// two-layered: a memory map in front of SQLite rows, so a force rebuild can
// erase both.
package contextcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Repository persists cache entries.
type Repository interface {
	Upsert(ctx context.Context, entry *Entry) error
	ListByProject(ctx context.Context, projectID string) ([]Entry, error)
	MarkStale(ctx context.Context, projectID string, kinds []Kind) error
	MarkSourceStale(ctx context.Context, projectID, source string) error
	DeleteByProject(ctx context.Context, projectID string) error
	CountByProject(ctx context.Context, projectID string) (int, error)
}

// VectorDropper removes a project's documents from the vector index.
type VectorDropper interface {
	DropProject(ctx context.Context, projectID string) error
}

// Store is the context cache for all projects.
type Store struct {
	repo    Repository
	vectors VectorDropper
	logger  *slog.Logger

	mu  sync.Mutex
	mem map[string]map[string]*Entry // projectID -> entry key -> entry
}

// NewStore creates a context cache backed by repo. vectors may be nil when no
// vector index is configured.
func NewStore(repo Repository, vectors VectorDropper, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:    repo,
		vectors: vectors,
		logger:  logger,
		mem:     make(map[string]map[string]*Entry),
	}
}

// Put stores a freshly fetched entry in memory and SQLite.
func (s *Store) Put(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.ProjectID == "" || entry.Source == "" {
		return ErrInvalidEntry
	}
	now := time.Now()
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = now
	}
	entry.UpdatedAt = now
	entry.Stale = false

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("persisting cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.mem[entry.ProjectID]
	if !ok {
		entries = make(map[string]*Entry)
		s.mem[entry.ProjectID] = entries
	}
	cp := *entry
	entries[entry.key()] = &cp
	return nil
}

// Get returns a cached entry, loading the project's entries from SQLite on
// first access.
func (s *Store) Get(ctx context.Context, projectID string, kind Kind, source string) (*Entry, bool, error) {
	entries, err := s.projectEntries(ctx, projectID)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lookup := Entry{Kind: kind, Source: source}
	entry, ok := entries[lookup.key()]
	if !ok {
		return nil, false, nil
	}
	cp := *entry
	return &cp, true, nil
}

// ListByProject returns all cached entries for a project.
func (s *Store) ListByProject(ctx context.Context, projectID string) ([]Entry, error) {
	entries, err := s.projectEntries(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, *entry)
	}
	return out, nil
}

// InvalidateMarkdown marks all markdown-derived entries stale. With
// forceDependentReload, web and video entries referenced by markdown are
// treated as stale too, so the next recompute re-fetches them.
func (s *Store) InvalidateMarkdown(ctx context.Context, projectID string, forceDependentReload bool) error {
	kinds := []Kind{KindMarkdown}
	if forceDependentReload {
		kinds = append(kinds, DependentKinds...)
	}

	if err := s.repo.MarkStale(ctx, projectID, kinds); err != nil {
		return fmt.Errorf("marking cache stale: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.mem[projectID] {
		for _, kind := range kinds {
			if entry.Kind == kind {
				entry.Stale = true
				break
			}
		}
	}
	return nil
}

// MarkSourceStale marks a single source stale, e.g. after a vault file change.
func (s *Store) MarkSourceStale(ctx context.Context, projectID, source string) error {
	if err := s.repo.MarkSourceStale(ctx, projectID, source); err != nil {
		return fmt.Errorf("marking source stale: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.mem[projectID] {
		if entry.Source == source {
			entry.Stale = true
		}
	}
	return nil
}

// ClearForProject erases all cached data for a project: the memory layer, the
// SQLite rows, and the project's vector collection.
func (s *Store) ClearForProject(ctx context.Context, projectID string) error {
	if err := s.repo.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("deleting cache rows: %w", err)
	}

	s.mu.Lock()
	delete(s.mem, projectID)
	s.mu.Unlock()

	if s.vectors != nil {
		if err := s.vectors.DropProject(ctx, projectID); err != nil {
			return fmt.Errorf("dropping vector collection: %w", err)
		}
	}

	s.logger.Info("cleared project context cache", "project_id", projectID)
	return nil
}

func (s *Store) projectEntries(ctx context.Context, projectID string) (map[string]*Entry, error) {
	s.mu.Lock()
	entries, ok := s.mem[projectID]
	s.mu.Unlock()
	if ok {
		return entries, nil
	}

	persisted, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading cache entries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entries, ok = s.mem[projectID]; ok {
		return entries, nil
	}
	entries = make(map[string]*Entry, len(persisted))
	for i := range persisted {
		entry := persisted[i]
		entries[entry.key()] = &entry
	}
	s.mem[projectID] = entries
	return entries, nil
}
