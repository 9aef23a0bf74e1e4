package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/openvault/notechat-mcp/internal/contextcache"
	"github.com/openvault/notechat-mcp/internal/domain/activity"
	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/domain/project"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetDefault(ctx context.Context) (*project.Project, error) {
	args := m.Called(ctx)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) SetLastBuiltAt(ctx context.Context, projectID string, builtAt time.Time) error {
	args := m.Called(ctx, projectID, builtAt)
	return args.Error(0)
}

// CacheRepository is a mock for contextcache.Repository.
type CacheRepository struct {
	mock.Mock
}

func (m *CacheRepository) Upsert(ctx context.Context, entry *contextcache.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *CacheRepository) ListByProject(ctx context.Context, projectID string) ([]contextcache.Entry, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]contextcache.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CacheRepository) MarkStale(ctx context.Context, projectID string, kinds []contextcache.Kind) error {
	args := m.Called(ctx, projectID, kinds)
	return args.Error(0)
}

func (m *CacheRepository) MarkSourceStale(ctx context.Context, projectID, source string) error {
	args := m.Called(ctx, projectID, source)
	return args.Error(0)
}

func (m *CacheRepository) DeleteByProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *CacheRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

// ChatRepository is a mock for chat.Repository.
type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) Create(ctx context.Context, c *chat.Chat) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ChatRepository) Get(ctx context.Context, id string) (*chat.Chat, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*chat.Chat); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepository) Update(ctx context.Context, c *chat.Chat) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ChatRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]chat.ChatInfo, error) {
	args := m.Called(ctx, projectID, limit)
	if list, ok := args.Get(0).([]chat.ChatInfo); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChatRepository) AppendMessage(ctx context.Context, msg *chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *ChatRepository) GetMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	args := m.Called(ctx, chatID)
	if list, ok := args.Get(0).([]chat.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
