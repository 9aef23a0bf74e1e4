// Package orchestrator recomputes the full derived context for a project:
// markdown notes from the vault, web pages and video transcripts they link
// to, all cached and indexed for search. Recomputation is idempotent with
// respect to entries that are already fresh.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openvault/notechat-mcp/internal/contextcache"
	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/fetch"
	"github.com/openvault/notechat-mcp/internal/vectorindex"
)

// Cache is the slice of the context cache the orchestrator needs.
type Cache interface {
	Get(ctx context.Context, projectID string, kind contextcache.Kind, source string) (*contextcache.Entry, bool, error)
	Put(ctx context.Context, entry *contextcache.Entry) error
	ListByProject(ctx context.Context, projectID string) ([]contextcache.Entry, error)
}

// Projects is the slice of project persistence the orchestrator needs.
type Projects interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	MarkBuilt(ctx context.Context, projectID string) error
}

// ContentFetcher retrieves remote content by URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// NoteLister enumerates and reads vault markdown files.
type NoteLister interface {
	List(ctx context.Context, folder string) ([]string, error)
	Fetch(ctx context.Context, relPath string) (string, error)
}

// Indexer upserts recomputed context into the vector index.
type Indexer interface {
	Upsert(ctx context.Context, projectID string, docs []vectorindex.Document) error
}

// Result summarizes one recomputation.
type Result struct {
	Notes       int `json:"notes"`
	WebPages    int `json:"web_pages"`
	Transcripts int `json:"transcripts"`
	Refreshed   int `json:"refreshed"`
}

// Service recomputes project context.
type Service struct {
	projects    Projects
	cache       Cache
	notes       NoteLister
	web         ContentFetcher
	transcripts ContentFetcher
	index       Indexer
	logger      *slog.Logger
}

// NewService creates an orchestrator. index may be nil when no vector store
// is configured; transcripts may be nil when no transcript API is configured.
func NewService(
	projects Projects,
	cache Cache,
	notes NoteLister,
	web ContentFetcher,
	transcripts ContentFetcher,
	index Indexer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		projects:    projects,
		cache:       cache,
		notes:       notes,
		web:         web,
		transcripts: transcripts,
		index:       index,
		logger:      logger,
	}
}

// ProjectContext recomputes the full context for a project. Entries that are
// cached and fresh are kept as-is; stale or missing entries are re-fetched.
func (s *Service) ProjectContext(ctx context.Context, projectID string) (*Result, error) {
	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", projectID, err)
	}

	paths, err := s.notes.List(ctx, proj.VaultFolder)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	result := &Result{}
	var changed []vectorindex.Document
	var markdownBodies []string

	for _, relPath := range paths {
		body, refreshed, err := s.refresh(ctx, projectID, contextcache.KindMarkdown, relPath, func() (string, error) {
			return s.notes.Fetch(ctx, relPath)
		})
		if err != nil {
			return nil, err
		}
		result.Notes++
		markdownBodies = append(markdownBodies, body)
		if refreshed {
			result.Refreshed++
			changed = append(changed, document(projectID, contextcache.KindMarkdown, relPath, body))
		}
	}

	for _, body := range markdownBodies {
		webURLs, videoURLs := fetch.ExtractLinks(body)

		for _, url := range webURLs {
			content, refreshed, err := s.refresh(ctx, projectID, contextcache.KindWeb, url, func() (string, error) {
				return s.web.Fetch(ctx, url)
			})
			if err != nil {
				return nil, err
			}
			result.WebPages++
			if refreshed {
				result.Refreshed++
				changed = append(changed, document(projectID, contextcache.KindWeb, url, content))
			}
		}

		if s.transcripts == nil {
			continue
		}
		for _, url := range videoURLs {
			content, refreshed, err := s.refresh(ctx, projectID, contextcache.KindVideo, url, func() (string, error) {
				return s.transcripts.Fetch(ctx, url)
			})
			if err != nil {
				return nil, err
			}
			result.Transcripts++
			if refreshed {
				result.Refreshed++
				changed = append(changed, document(projectID, contextcache.KindVideo, url, content))
			}
		}
	}

	if s.index != nil && len(changed) > 0 {
		if err := s.index.Upsert(ctx, projectID, changed); err != nil {
			return nil, fmt.Errorf("indexing context: %w", err)
		}
	}

	if err := s.projects.MarkBuilt(ctx, projectID); err != nil {
		return nil, err
	}

	s.logger.Info("recomputed project context",
		"project_id", projectID,
		"notes", result.Notes,
		"web_pages", result.WebPages,
		"transcripts", result.Transcripts,
		"refreshed", result.Refreshed,
	)
	return result, nil
}

// refresh returns the entry's content, fetching it when missing or stale.
func (s *Service) refresh(
	ctx context.Context,
	projectID string,
	kind contextcache.Kind,
	source string,
	fetchFn func() (string, error),
) (string, bool, error) {
	entry, ok, err := s.cache.Get(ctx, projectID, kind, source)
	if err != nil {
		return "", false, err
	}
	if ok && !entry.Stale {
		return entry.Content, false, nil
	}

	content, err := fetchFn()
	if err != nil {
		return "", false, fmt.Errorf("refreshing %s %s: %w", kind, source, err)
	}

	if err := s.cache.Put(ctx, &contextcache.Entry{
		ProjectID: projectID,
		Kind:      kind,
		Source:    source,
		Content:   content,
	}); err != nil {
		return "", false, err
	}
	return content, true, nil
}

func document(projectID string, kind contextcache.Kind, source, content string) vectorindex.Document {
	return vectorindex.Document{
		ID:      string(kind) + ":" + source,
		Content: content,
		Metadata: map[string]string{
			"project_id": projectID,
			"kind":       string(kind),
			"source":     source,
		},
	}
}
