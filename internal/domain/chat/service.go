package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openvault/notechat-mcp/internal/repository"
)

// Service handles chat panel operations: new chat, message log, history, and
// saving a transcript back into the vault as a note.
type Service struct {
	chats     Repository
	projects  ProjectRepository
	vaultRoot string
	logger    *slog.Logger
}

// NewService creates a new chat service. vaultRoot is the filesystem root of
// the note vault; saved transcripts are written beneath it.
func NewService(chats Repository, projects ProjectRepository, vaultRoot string, logger *slog.Logger) *Service {
	return &Service{
		chats:     chats,
		projects:  projects,
		vaultRoot: vaultRoot,
		logger:    logger,
	}
}

// NewChat starts a new chat for a project.
func (s *Service) NewChat(ctx context.Context, projectID, title string) (*Chat, error) {
	if projectID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", ErrInvalidInput, projectID)
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	now := time.Now()
	if strings.TrimSpace(title) == "" {
		title = "Chat " + now.Format("2006-01-02 15:04")
	}

	c := &Chat{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.chats.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}
	return c, nil
}

// AppendMessage adds a turn to an active chat.
func (s *Service) AppendMessage(ctx context.Context, chatID string, role Role, content string) (*Message, error) {
	if chatID == "" || content == "" {
		return nil, ErrInvalidInput
	}
	if role != RoleUser && role != RoleAssistant {
		return nil, ErrInvalidInput
	}

	c, err := s.get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusClosed {
		return nil, ErrChatClosed
	}

	msg := &Message{
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.chats.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}

	c.UpdatedAt = msg.CreatedAt
	if err := s.chats.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("updating chat: %w", err)
	}
	return msg, nil
}

// Get returns a chat with its messages.
func (s *Service) Get(ctx context.Context, chatID string) (*Chat, []Message, error) {
	c, err := s.get(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.chats.GetMessages(ctx, chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading messages: %w", err)
	}
	return c, msgs, nil
}

// History lists a project's chats, newest first.
func (s *Service) History(ctx context.Context, projectID string, limit int) ([]ChatInfo, error) {
	if projectID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	return s.chats.ListByProject(ctx, projectID, limit)
}

// SaveToNote renders the chat transcript as markdown and writes it into the
// project's vault folder. Returns the vault-relative note path.
func (s *Service) SaveToNote(ctx context.Context, chatID string) (string, error) {
	c, err := s.get(ctx, chatID)
	if err != nil {
		return "", err
	}

	msgs, err := s.chats.GetMessages(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("loading messages: %w", err)
	}
	if len(msgs) == 0 {
		return "", ErrEmptyChat
	}

	proj, err := s.projects.Get(ctx, c.ProjectID)
	if err != nil {
		return "", fmt.Errorf("loading project: %w", err)
	}

	relPath := filepath.Join(proj.VaultFolder, "chats", noteFileName(c))
	absPath := filepath.Join(s.vaultRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("creating note directory: %w", err)
	}
	if err := os.WriteFile(absPath, []byte(renderTranscript(c, msgs)), 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}

	c.SavedNotePath = &relPath
	c.UpdatedAt = time.Now()
	if err := s.chats.Update(ctx, c); err != nil {
		return "", fmt.Errorf("updating chat: %w", err)
	}

	s.logger.Info("saved chat to note", "chat_id", chatID, "path", relPath)
	return relPath, nil
}

// Close closes a chat.
func (s *Service) Close(ctx context.Context, chatID string) error {
	c, err := s.get(ctx, chatID)
	if err != nil {
		return err
	}
	if c.Status == StatusClosed {
		return nil
	}
	now := time.Now()
	c.Status = StatusClosed
	c.ClosedAt = &now
	c.UpdatedAt = now
	if err := s.chats.Update(ctx, c); err != nil {
		return fmt.Errorf("closing chat: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, chatID string) (*Chat, error) {
	c, err := s.chats.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("loading chat: %w", err)
	}
	return c, nil
}

func noteFileName(c *Chat) string {
	title := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, c.Title)
	return fmt.Sprintf("%s %s.md", c.CreatedAt.Format("2006-01-02"), strings.TrimSpace(title))
}

func renderTranscript(c *Chat, msgs []Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "Started: %s\n\n", c.CreatedAt.Format(time.RFC3339))
	for _, msg := range msgs {
		switch msg.Role {
		case RoleUser:
			b.WriteString("## You\n\n")
		default:
			b.WriteString("## Assistant\n\n")
		}
		b.WriteString(strings.TrimRight(msg.Content, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}
