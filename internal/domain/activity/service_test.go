package activity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openvault/notechat-mcp/internal/domain/activity"
	"github.com/openvault/notechat-mcp/internal/repository/mocks"
)

func TestActivityService_LogActivity(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return !e.CreatedAt.IsZero()
	})).Return(nil)

	svc := activity.NewService(repo, nil)
	err := svc.LogActivity(ctx, &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeContextReloaded,
		Summary:      "Context reloaded",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestActivityService_LogActivityNil(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	err := svc.LogActivity(context.Background(), nil)
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityService_GetRecentActivity(t *testing.T) {
	ctx := context.Background()

	entries := []activity.ActivityEntry{
		{ID: 2, ProjectID: "p1", ActivityType: activity.TypeChatStarted},
		{ID: 1, ProjectID: "p1", ActivityType: activity.TypeProjectCreated},
	}
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, activity.ListActivityOptions{ProjectID: "p1", Limit: 10}).Return(entries, nil)

	svc := activity.NewService(repo, nil)
	got, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{ProjectID: "p1", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, entries, got)
}
