package project

import (
	"context"
	"time"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	GetDefault(ctx context.Context) (*Project, error)
	List(ctx context.Context) ([]ProjectSummary, error)
	SetLastBuiltAt(ctx context.Context, projectID string, builtAt time.Time) error
}
