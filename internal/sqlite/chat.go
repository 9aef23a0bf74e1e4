package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/repository"
)

// ChatRepository implements chat.Repository for SQLite
type ChatRepository struct {
	db *DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create creates a new chat
func (r *ChatRepository) Create(ctx context.Context, c *chat.Chat) error {
	query := `
		INSERT INTO chats (id, project_id, title, status, saved_note_path, created_at, updated_at, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.ProjectID,
		c.Title,
		string(c.Status),
		c.SavedNotePath,
		c.CreatedAt,
		c.UpdatedAt,
		c.ClosedAt,
	)

	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}

	return nil
}

// Get retrieves a chat by ID
func (r *ChatRepository) Get(ctx context.Context, id string) (*chat.Chat, error) {
	query := `
		SELECT id, project_id, title, status, saved_note_path, created_at, updated_at, closed_at
		FROM chats
		WHERE id = ?
	`

	var c chat.Chat
	var status string
	var savedPath sql.NullString
	var closedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.ProjectID,
		&c.Title,
		&status,
		&savedPath,
		&c.CreatedAt,
		&c.UpdatedAt,
		&closedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	c.Status = chat.ChatStatus(status)
	if savedPath.Valid {
		c.SavedNotePath = &savedPath.String
	}
	if closedAt.Valid {
		c.ClosedAt = &closedAt.Time
	}
	return &c, nil
}

// Update persists changes to a chat's mutable fields
func (r *ChatRepository) Update(ctx context.Context, c *chat.Chat) error {
	query := `
		UPDATE chats
		SET title = ?, status = ?, saved_note_path = ?, updated_at = ?, closed_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Title,
		string(c.Status),
		c.SavedNotePath,
		c.UpdatedAt,
		c.ClosedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
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

// ListByProject returns recent chats for a project, newest first
func (r *ChatRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]chat.ChatInfo, error) {
	query := `
		SELECT
			c.id,
			c.project_id,
			c.title,
			c.status,
			c.saved_note_path,
			c.created_at,
			c.updated_at,
			COUNT(m.id) as message_count
		FROM chats c
		LEFT JOIN chat_messages m ON m.chat_id = c.id
		WHERE c.project_id = ?
		GROUP BY c.id, c.project_id, c.title, c.status, c.saved_note_path, c.created_at, c.updated_at
		ORDER BY c.updated_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var infos []chat.ChatInfo
	for rows.Next() {
		var info chat.ChatInfo
		var status string
		var savedPath sql.NullString
		err := rows.Scan(
			&info.ID,
			&info.ProjectID,
			&info.Title,
			&status,
			&savedPath,
			&info.CreatedAt,
			&info.UpdatedAt,
			&info.MessageCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat info: %w", err)
		}
		info.Status = chat.ChatStatus(status)
		if savedPath.Valid {
			info.SavedNotePath = &savedPath.String
		}
		infos = append(infos, info)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	return infos, nil
}

// AppendMessage adds a message to a chat and fills in its generated ID
func (r *ChatRepository) AppendMessage(ctx context.Context, msg *chat.Message) error {
	query := `
		INSERT INTO chat_messages (chat_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		msg.ChatID,
		string(msg.Role),
		msg.Content,
		msg.CreatedAt,
	)

	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get message id: %w", err)
	}
	msg.ID = id

	return nil
}

// GetMessages returns a chat's messages in order
func (r *ChatRepository) GetMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	query := `
		SELECT id, chat_id, role, content, created_at
		FROM chat_messages
		WHERE chat_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		var msg chat.Message
		var role string
		err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = chat.Role(role)
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
