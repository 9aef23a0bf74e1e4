package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/openvault/notechat-mcp/internal/contextcache"
	"github.com/openvault/notechat-mcp/internal/repository"
)

// CacheRepository implements contextcache.Repository for SQLite
type CacheRepository struct {
	db *DB
}

// NewCacheRepository creates a new CacheRepository
func NewCacheRepository(db *DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Upsert inserts or replaces the entry for (project, kind, source)
func (r *CacheRepository) Upsert(ctx context.Context, entry *contextcache.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO cache_entries (id, project_id, kind, source, content, stale, fetched_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, kind, source) DO UPDATE SET
			content = excluded.content,
			stale = excluded.stale,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ProjectID,
		string(entry.Kind),
		entry.Source,
		entry.Content,
		entry.Stale,
		entry.FetchedAt,
		entry.UpdatedAt,
	)

	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}

// ListByProject returns all cache entries for a project
func (r *CacheRepository) ListByProject(ctx context.Context, projectID string) ([]contextcache.Entry, error) {
	query := `
		SELECT id, project_id, kind, source, content, stale, fetched_at, updated_at
		FROM cache_entries
		WHERE project_id = ?
		ORDER BY kind, source
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []contextcache.Entry
	for rows.Next() {
		var entry contextcache.Entry
		var kind string
		err := rows.Scan(
			&entry.ID,
			&entry.ProjectID,
			&kind,
			&entry.Source,
			&entry.Content,
			&entry.Stale,
			&entry.FetchedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		entry.Kind = contextcache.Kind(kind)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entry rows: %w", err)
	}

	return entries, nil
}

// MarkStale flags all entries of the given kinds as stale
func (r *CacheRepository) MarkStale(ctx context.Context, projectID string, kinds []contextcache.Kind) error {
	if len(kinds) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?, ", len(kinds))
	placeholders = strings.TrimSuffix(placeholders, ", ")
	query := fmt.Sprintf(`
		UPDATE cache_entries
		SET stale = 1
		WHERE project_id = ? AND kind IN (%s)
	`, placeholders)

	args := make([]any, 0, len(kinds)+1)
	args = append(args, projectID)
	for _, kind := range kinds {
		args = append(args, string(kind))
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark cache entries stale: %w", err)
	}

	return nil
}

// MarkSourceStale flags all entries for a single source as stale
func (r *CacheRepository) MarkSourceStale(ctx context.Context, projectID, source string) error {
	query := `
		UPDATE cache_entries
		SET stale = 1
		WHERE project_id = ? AND source = ?
	`

	if _, err := r.db.ExecContext(ctx, query, projectID, source); err != nil {
		return fmt.Errorf("failed to mark source stale: %w", err)
	}

	return nil
}

// DeleteByProject removes all cache entries for a project
func (r *CacheRepository) DeleteByProject(ctx context.Context, projectID string) error {
	query := `DELETE FROM cache_entries WHERE project_id = ?`

	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}

	return nil
}

// CountByProject returns the number of cache entries for a project
func (r *CacheRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	query := `SELECT COUNT(*) FROM cache_entries WHERE project_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}

	return count, nil
}
