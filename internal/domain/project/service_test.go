package project_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/repository"
	"github.com/openvault/notechat-mcp/internal/repository/mocks"
)

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	svc := project.NewService(repo, nil)

	_, err := svc.Create(ctx, project.CreateRequest{Name: ""})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(ctx, project.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestProjectService_CreateDefaults(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{Name: "Research"})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, "Research", proj.Name)
	require.Equal(t, "Research", proj.VaultFolder)
	require.False(t, proj.CreatedAt.IsZero())
}

func TestProjectService_CreateExplicitFolder(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{
		ID:          "p1",
		Name:        "Research",
		VaultFolder: "Projects/Research",
	})
	require.NoError(t, err)
	require.Equal(t, "p1", proj.ID)
	require.Equal(t, "Projects/Research", proj.VaultFolder)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "missing").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_GetDefaultCreates(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("GetDefault", ctx).Return((*project.Project)(nil), repository.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.GetDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, "Vault", proj.Name)
	require.Equal(t, ".", proj.VaultFolder)
}

func TestProjectService_GetDefaultExisting(t *testing.T) {
	ctx := context.Background()

	existing := &project.Project{ID: "p1", Name: "Vault", VaultFolder: "."}
	repo := &mocks.ProjectRepository{}
	repo.On("GetDefault", ctx).Return(existing, nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.GetDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, existing, proj)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_MarkBuilt(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("SetLastBuiltAt", ctx, "p1", mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	require.NoError(t, svc.MarkBuilt(ctx, "p1"))
	repo.AssertExpectations(t)
}
