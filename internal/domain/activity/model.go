package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated  ActivityType = "project_created"
	TypeContextReloaded ActivityType = "context_reloaded"
	TypeContextRebuilt  ActivityType = "context_rebuilt"
	TypeCacheCleared    ActivityType = "cache_cleared"
	TypeChatStarted     ActivityType = "chat_started"
	TypeChatSaved       ActivityType = "chat_saved"
	TypeChatClosed      ActivityType = "chat_closed"
	TypeRateLimited     ActivityType = "rate_limited"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id"`
	ChatID       *string      `json:"chat_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}

// ListActivityOptions provides filtering options for listing activity
type ListActivityOptions struct {
	ProjectID string
	ChatID    *string
	Type      *ActivityType
	Limit     int
	Offset    int
}
