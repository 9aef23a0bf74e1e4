package chat

import (
	"context"

	"github.com/openvault/notechat-mcp/internal/domain/project"
)

// Repository provides persistence for chats and their messages.
type Repository interface {
	Create(ctx context.Context, c *Chat) error
	Get(ctx context.Context, id string) (*Chat, error)
	Update(ctx context.Context, c *Chat) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]ChatInfo, error)
	AppendMessage(ctx context.Context, msg *Message) error
	GetMessages(ctx context.Context, chatID string) ([]Message, error)
}

// ProjectRepository is the slice of project persistence the chat service needs.
type ProjectRepository interface {
	Get(ctx context.Context, id string) (*project.Project, error)
}
