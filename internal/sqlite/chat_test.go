package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/repository"
)

func testChat(id, projectID string) *chat.Chat {
	now := time.Now()
	return &chat.Chat{
		ID:        id,
		ProjectID: projectID,
		Title:     "Chat " + id,
		Status:    chat.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestChatRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	seedProject(t, db, "p1")

	c := testChat("c1", "p1")
	err := repo.Create(ctx, c)
	require.NoError(t, err)

	retrieved, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, c.ID, retrieved.ID)
	require.Equal(t, c.Title, retrieved.Title)
	require.Equal(t, chat.StatusActive, retrieved.Status)
	require.Nil(t, retrieved.SavedNotePath)
	require.Nil(t, retrieved.ClosedAt)

	_, err = repo.Get(ctx, "nonexistent")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestChatRepository_Create_UnknownProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)

	err := repo.Create(context.Background(), testChat("c1", "ghost"))
	require.Equal(t, repository.ErrForeignKeyViolation, err)
}

func TestChatRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	seedProject(t, db, "p1")

	c := testChat("c1", "p1")
	require.NoError(t, repo.Create(ctx, c))

	savedPath := "Research/chats/2026-01-01 Chat.md"
	closedAt := time.Now()
	c.Status = chat.StatusClosed
	c.SavedNotePath = &savedPath
	c.ClosedAt = &closedAt
	c.UpdatedAt = time.Now()

	err := repo.Update(ctx, c)
	require.NoError(t, err)

	retrieved, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, chat.StatusClosed, retrieved.Status)
	require.NotNil(t, retrieved.SavedNotePath)
	require.Equal(t, savedPath, *retrieved.SavedNotePath)
	require.NotNil(t, retrieved.ClosedAt)

	c.ID = "nonexistent"
	err = repo.Update(ctx, c)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestChatRepository_ListByProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	seedProject(t, db, "p1")

	c1 := testChat("c1", "p1")
	c1.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, c1))

	c2 := testChat("c2", "p1")
	require.NoError(t, repo.Create(ctx, c2))

	require.NoError(t, repo.AppendMessage(ctx, &chat.Message{
		ChatID: "c1", Role: chat.RoleUser, Content: "hello", CreatedAt: time.Now(),
	}))
	require.NoError(t, repo.AppendMessage(ctx, &chat.Message{
		ChatID: "c1", Role: chat.RoleAssistant, Content: "hi", CreatedAt: time.Now(),
	}))

	infos, err := repo.ListByProject(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Most recently updated first
	require.Equal(t, "c2", infos[0].ID)
	require.Equal(t, 0, infos[0].MessageCount)
	require.Equal(t, "c1", infos[1].ID)
	require.Equal(t, 2, infos[1].MessageCount)

	// Limit applies
	infos, err = repo.ListByProject(ctx, "p1", 1)
	require.NoError(t, err)
	require.Len(t, infos, 1)
}

func TestChatRepository_Messages(t *testing.T) {
	db := NewTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()
	seedProject(t, db, "p1")
	require.NoError(t, repo.Create(ctx, testChat("c1", "p1")))

	first := &chat.Message{ChatID: "c1", Role: chat.RoleUser, Content: "question", CreatedAt: time.Now()}
	require.NoError(t, repo.AppendMessage(ctx, first))
	require.NotZero(t, first.ID, "append should assign an ID")

	second := &chat.Message{ChatID: "c1", Role: chat.RoleAssistant, Content: "answer", CreatedAt: time.Now()}
	require.NoError(t, repo.AppendMessage(ctx, second))
	require.Greater(t, second.ID, first.ID)

	messages, err := repo.GetMessages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "question", messages[0].Content)
	require.Equal(t, chat.RoleUser, messages[0].Role)
	require.Equal(t, "answer", messages[1].Content)
	require.Equal(t, chat.RoleAssistant, messages[1].Role)

	// Unknown chat violates the foreign key
	err = repo.AppendMessage(ctx, &chat.Message{
		ChatID: "ghost", Role: chat.RoleUser, Content: "hi", CreatedAt: time.Now(),
	})
	require.Equal(t, repository.ErrForeignKeyViolation, err)
}
