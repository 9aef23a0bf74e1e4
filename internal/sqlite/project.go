package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, name, vault_folder, description, created_at, last_built_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.VaultFolder,
		proj.Description,
		proj.CreatedAt,
		nullableTime(proj.LastBuiltAt),
	)

	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, vault_folder, description, created_at, last_built_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	var lastBuilt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.VaultFolder,
		&proj.Description,
		&proj.CreatedAt,
		&lastBuilt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if lastBuilt.Valid {
		proj.LastBuiltAt = &lastBuilt.Time
	}
	return &proj, nil
}

// GetDefault retrieves the default project (the first created one)
func (r *ProjectRepository) GetDefault(ctx context.Context) (*project.Project, error) {
	query := `
		SELECT id, name, vault_folder, description, created_at, last_built_at
		FROM projects
		ORDER BY created_at ASC
		LIMIT 1
	`

	var proj project.Project
	var lastBuilt sql.NullTime
	err := r.db.QueryRowContext(ctx, query).Scan(
		&proj.ID,
		&proj.Name,
		&proj.VaultFolder,
		&proj.Description,
		&proj.CreatedAt,
		&lastBuilt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default project: %w", err)
	}

	if lastBuilt.Valid {
		proj.LastBuiltAt = &lastBuilt.Time
	}
	return &proj, nil
}

// List returns all projects with summary information
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.vault_folder,
			p.description,
			p.created_at,
			p.last_built_at,
			COUNT(DISTINCT e.id) as cached_entries,
			COUNT(DISTINCT CASE WHEN c.status = 'active' THEN c.id END) as open_chats
		FROM projects p
		LEFT JOIN cache_entries e ON e.project_id = p.id
		LEFT JOIN chats c ON c.project_id = p.id
		GROUP BY p.id, p.name, p.vault_folder, p.description, p.created_at, p.last_built_at
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		var lastBuilt sql.NullTime
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.VaultFolder,
			&summary.Description,
			&summary.CreatedAt,
			&lastBuilt,
			&summary.CachedEntries,
			&summary.OpenChats,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		if lastBuilt.Valid {
			summary.LastBuiltAt = &lastBuilt.Time
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// SetLastBuiltAt records when the project's context was last recomputed
func (r *ProjectRepository) SetLastBuiltAt(ctx context.Context, projectID string, builtAt time.Time) error {
	query := `
		UPDATE projects
		SET last_built_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, builtAt, projectID)
	if err != nil {
		return fmt.Errorf("failed to set last built time: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
