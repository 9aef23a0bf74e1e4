package lifecycle

import (
	"context"

	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/orchestrator"
)

// ProjectRegister exposes the current project selection and the busy flag.
type ProjectRegister interface {
	Current() (*project.Project, bool)
	SetBusy(busy bool)
}

// ContextCache is the slice of the cache the lifecycle drives. Reload only
// invalidates markdown (cascading to dependent web/video entries); a force
// rebuild clears everything.
type ContextCache interface {
	InvalidateMarkdown(ctx context.Context, projectID string, forceDependentReload bool) error
	ClearForProject(ctx context.Context, projectID string) error
}

// Orchestrator recomputes the full context for a project.
type Orchestrator interface {
	ProjectContext(ctx context.Context, projectID string) (*orchestrator.Result, error)
}

// NoticeTimer gates repeated rate-limit notices. ShouldNotify reports whether
// a notice may be shown now and records the showing; Reset reopens the gate.
type NoticeTimer interface {
	ShouldNotify() bool
	Reset()
}
