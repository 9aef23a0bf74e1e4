package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openvault/notechat-mcp/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends an entry to the activity log and fills in its generated ID
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (project_id, chat_id, activity_type, summary, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.ProjectID,
		entry.ChatID,
		string(entry.ActivityType),
		entry.Summary,
		entry.Details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity id: %w", err)
	}
	entry.ID = id

	return nil
}

// List returns activity entries matching the options, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT id, project_id, chat_id, activity_type, summary, details, created_at
		FROM activity_log
		WHERE project_id = ?
	`
	args := []any{opts.ProjectID}

	if opts.ChatID != nil {
		query += ` AND chat_id = ?`
		args = append(args, *opts.ChatID)
	}
	if opts.Type != nil {
		query += ` AND activity_type = ?`
		args = append(args, string(*opts.Type))
	}

	query += ` ORDER BY created_at DESC, id DESC`

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		var entry activity.ActivityEntry
		var activityType string
		var chatID sql.NullString
		var details sql.NullString
		err := rows.Scan(
			&entry.ID,
			&entry.ProjectID,
			&chatID,
			&activityType,
			&entry.Summary,
			&details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.ActivityType = activity.ActivityType(activityType)
		if chatID.Valid {
			entry.ChatID = &chatID.String
		}
		if details.Valid {
			entry.Details = details.String
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
