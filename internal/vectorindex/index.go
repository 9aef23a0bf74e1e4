// Package vectorindex stores recomputed project context in an embedded
// chromem-go vector database, one collection per project.
package vectorindex

import (
	"context"
	"fmt"
	"log/slog"

	chromem "github.com/philippgille/chromem-go"
)

// Config holds vector index settings.
type Config struct {
	// Path is the persistence directory. Empty means in-memory only.
	Path string
	// Compress enables gzip compression for persisted data.
	Compress bool
}

// Document is one embeddable piece of project context.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchResult is one similarity search hit.
type SearchResult struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	Similarity float32           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Index wraps a chromem database.
type Index struct {
	db     *chromem.DB
	embed  chromem.EmbeddingFunc
	logger *slog.Logger
}

// New creates a vector index. The embedding function is injected so tests can
// run without a provider.
func New(cfg Config, embed chromem.EmbeddingFunc, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var db *chromem.DB
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("opening vector store at %s: %w", cfg.Path, err)
		}
	}

	return &Index{db: db, embed: embed, logger: logger}, nil
}

// Upsert adds or replaces documents in the project's collection.
func (ix *Index) Upsert(ctx context.Context, projectID string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	collection, err := ix.db.GetOrCreateCollection(collectionName(projectID), nil, ix.embed)
	if err != nil {
		return fmt.Errorf("opening collection for project %s: %w", projectID, err)
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
		}
	}

	if err := collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	ix.logger.Debug("indexed documents", "project_id", projectID, "count", len(docs))
	return nil
}

// Search runs a similarity query against the project's collection.
func (ix *Index) Search(ctx context.Context, projectID, query string, k int) ([]SearchResult, error) {
	collection := ix.db.GetCollection(collectionName(projectID), ix.embed)
	if collection == nil {
		return nil, nil
	}

	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k <= 0 || k > count {
		k = count
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying project %s: %w", projectID, err)
	}

	out := make([]SearchResult, 0, len(results))
	for _, res := range results {
		out = append(out, SearchResult{
			ID:         res.ID,
			Content:    res.Content,
			Similarity: res.Similarity,
			Metadata:   res.Metadata,
		})
	}
	return out, nil
}

// DropProject deletes the project's collection and all its documents.
func (ix *Index) DropProject(ctx context.Context, projectID string) error {
	if err := ix.db.DeleteCollection(collectionName(projectID)); err != nil {
		return fmt.Errorf("deleting collection for project %s: %w", projectID, err)
	}
	return nil
}

func collectionName(projectID string) string {
	return "project_" + projectID
}
