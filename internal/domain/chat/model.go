package chat

import "time"

// ChatStatus represents the lifecycle status of a chat
type ChatStatus string

const (
	StatusActive ChatStatus = "active"
	StatusClosed ChatStatus = "closed"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Chat represents one conversation in the panel, scoped to a project
type Chat struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	Title         string     `json:"title"`
	Status        ChatStatus `json:"status"`
	SavedNotePath *string    `json:"saved_note_path,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
}

// Message is a single turn in a chat
type Message struct {
	ID        int64     `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatInfo is a lightweight representation for history listings
type ChatInfo struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"project_id"`
	Title         string     `json:"title"`
	Status        ChatStatus `json:"status"`
	MessageCount  int        `json:"message_count"`
	SavedNotePath *string    `json:"saved_note_path,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
