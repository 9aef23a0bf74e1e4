// Package lifecycle orchestrates the two ways a project's cached context gets
// refreshed: a reload, which invalidates markdown-derived entries and lets
// recomputation detect staleness, and a force rebuild, which erases every
// cached entry (memory, disk, and vector index) after explicit confirmation
// and re-fetches everything.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/openvault/notechat-mcp/internal/confirm"
	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/notify"
)

// Outcome is the result of a lifecycle operation. Failures are reported
// through notices and the log, never as returned errors.
type Outcome string

const (
	// OutcomeCompleted means the operation ran and succeeded.
	OutcomeCompleted Outcome = "completed"
	// OutcomeNoProject means no project was selected; nothing was touched.
	OutcomeNoProject Outcome = "no_project"
	// OutcomeBusy means another operation was in flight for the project.
	OutcomeBusy Outcome = "busy"
	// OutcomeDeclined means the user did not confirm a force rebuild.
	OutcomeDeclined Outcome = "declined"
	// OutcomeRateLimited means the operation failed on a rate limit; the
	// generic failure notice was suppressed.
	OutcomeRateLimited Outcome = "rate_limited"
	// OutcomeFailed means the operation failed and a failure notice was shown.
	OutcomeFailed Outcome = "failed"
)

const rebuildNoticeDuration = 10 * time.Second

// Service runs reload and force-rebuild operations against the currently
// selected project. All collaborators are injected at construction.
type Service struct {
	register    ProjectRegister
	cache       ContextCache
	orch        Orchestrator
	notifier    notify.Sink
	noticeTimer NoticeTimer
	isRateLimit func(error) bool
	logger      *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService creates a lifecycle service. isRateLimit classifies errors as
// rate-limit conditions; nil disables the classification.
func NewService(
	register ProjectRegister,
	cache ContextCache,
	orch Orchestrator,
	notifier notify.Sink,
	noticeTimer NoticeTimer,
	isRateLimit func(error) bool,
	logger *slog.Logger,
) *Service {
	if isRateLimit == nil {
		isRateLimit = func(error) bool { return false }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		register:    register,
		cache:       cache,
		orch:        orch,
		notifier:    notifier,
		noticeTimer: noticeTimer,
		isRateLimit: isRateLimit,
		logger:      logger,
		inflight:    make(map[string]struct{}),
	}
}

// Reload re-reads the current project's context. Markdown-derived cache is
// invalidated with dependent reload forced, then the orchestrator recomputes
// the context, re-fetching whatever it finds stale.
func (s *Service) Reload(ctx context.Context) Outcome {
	proj, ok := s.register.Current()
	if !ok {
		s.notifier.Notify(notify.Info("No project selected. Select a project before reloading its context."))
		return OutcomeNoProject
	}

	release, ok := s.begin(proj.ID)
	if !ok {
		s.notifier.Notify(notify.Info(fmt.Sprintf("A context operation is already running for %s.", proj.Name)))
		return OutcomeBusy
	}
	defer release()

	if err := s.cache.InvalidateMarkdown(ctx, proj.ID, true); err != nil {
		return s.reportFailure("reload", proj, err)
	}

	if s.orch == nil {
		return s.reportFailure("reload", proj, ErrOrchestratorUnavailable)
	}
	if _, err := s.orch.ProjectContext(ctx, proj.ID); err != nil {
		return s.reportFailure("reload", proj, err)
	}

	s.notifier.Notify(notify.Success(fmt.Sprintf("Reloaded context for %s.", proj.Name)))
	return OutcomeCompleted
}

// ForceRebuild erases all cached context for the current project and
// re-fetches everything. The prompt must confirm before anything is touched.
func (s *Service) ForceRebuild(ctx context.Context, prompt confirm.Prompt) Outcome {
	proj, ok := s.register.Current()
	if !ok {
		s.notifier.Notify(notify.Info("No project selected. Select a project before rebuilding its context."))
		return OutcomeNoProject
	}

	confirmed, err := prompt.Confirm(ctx,
		"Rebuild project context",
		fmt.Sprintf("This permanently deletes all cached context for %s - notes, web pages, video transcripts, and file content, in memory and on disk - and re-fetches everything from scratch. This cannot be undone.", proj.Name),
	)
	if err != nil {
		s.logger.Error("confirmation prompt failed", "project_id", proj.ID, "error", err)
		return OutcomeDeclined
	}
	if !confirmed {
		return OutcomeDeclined
	}

	release, ok := s.begin(proj.ID)
	if !ok {
		s.notifier.Notify(notify.Info(fmt.Sprintf("A context operation is already running for %s.", proj.Name)))
		return OutcomeBusy
	}
	defer release()

	s.notifier.Notify(notify.WithDuration(
		notify.Info(fmt.Sprintf("Rebuilding context for %s. This may take a while.", proj.Name)),
		rebuildNoticeDuration,
	))

	// Let rate-limit warnings resurface during the bulk re-fetch.
	if s.noticeTimer != nil {
		s.noticeTimer.Reset()
	}

	if err := s.cache.ClearForProject(ctx, proj.ID); err != nil {
		return s.reportFailure("rebuild", proj, err)
	}
	s.notifier.Notify(notify.Info(fmt.Sprintf("Cleared cached context for %s.", proj.Name)))

	if s.orch == nil {
		return s.reportFailure("rebuild", proj, ErrOrchestratorUnavailable)
	}
	if _, err := s.orch.ProjectContext(ctx, proj.ID); err != nil {
		return s.reportFailure("rebuild", proj, err)
	}

	s.notifier.Notify(notify.Success(fmt.Sprintf("Rebuilt context for %s.", proj.Name)))
	return OutcomeCompleted
}

// begin registers the operation and sets the busy flag. The returned release
// must run on every exit path; it clears both.
func (s *Service) begin(projectID string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inflight[projectID]; running {
		return nil, false
	}
	s.inflight[projectID] = struct{}{}
	s.register.SetBusy(true)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.inflight, projectID)
		if len(s.inflight) == 0 {
			s.register.SetBusy(false)
		}
	}, true
}

// reportFailure classifies an operation failure. Rate-limit errors never get
// the generic failure notice; they are logged, and at most one timer-gated
// informational notice surfaces per suppression window. Everything else emits
// exactly one generic failure notice.
func (s *Service) reportFailure(op string, proj *project.Project, err error) Outcome {
	if s.isRateLimit(err) {
		s.logger.Warn("context operation rate limited",
			"operation", op, "project_id", proj.ID, "error", err)
		if s.noticeTimer != nil && s.noticeTimer.ShouldNotify() {
			s.notifier.Notify(notify.Info(fmt.Sprintf("Content fetching for %s is rate limited. It will be retried on the next reload.", proj.Name)))
		}
		return OutcomeRateLimited
	}

	s.logger.Error("context operation failed",
		"operation", op, "project_id", proj.ID, "error", err)
	s.notifier.Notify(notify.Failure(fmt.Sprintf("Failed to %s context for %s. Check the log for details.", op, proj.Name)))
	return OutcomeFailed
}
