package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openvault/notechat-mcp/internal/confirm"
	"github.com/openvault/notechat-mcp/internal/domain/lifecycle"
	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/fetch"
	"github.com/openvault/notechat-mcp/internal/notify"
	"github.com/openvault/notechat-mcp/internal/orchestrator"
	"github.com/openvault/notechat-mcp/internal/ratelimit"
)

type registerStub struct {
	mu      sync.Mutex
	current *project.Project
	busy    bool
	history []bool
}

func (r *registerStub) Current() (*project.Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, false
	}
	return r.current, true
}

func (r *registerStub) SetBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = busy
	r.history = append(r.history, busy)
}

func (r *registerStub) isBusy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

type cacheMock struct {
	mock.Mock
}

func (m *cacheMock) InvalidateMarkdown(ctx context.Context, projectID string, force bool) error {
	args := m.Called(ctx, projectID, force)
	return args.Error(0)
}

func (m *cacheMock) ClearForProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

type orchMock struct {
	mock.Mock
}

func (m *orchMock) ProjectContext(ctx context.Context, projectID string) (*orchestrator.Result, error) {
	args := m.Called(ctx, projectID)
	if res, ok := args.Get(0).(*orchestrator.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

type sinkStub struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (s *sinkStub) Notify(n notify.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

func (s *sinkStub) byLevel(level notify.Level) []notify.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notify.Notice
	for _, n := range s.notices {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}

type timerStub struct {
	mu     sync.Mutex
	allow  bool
	asks   int
	resets int
}

func (t *timerStub) ShouldNotify() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.asks++
	return t.allow
}

func (t *timerStub) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resets++
}

type fixture struct {
	svc      *lifecycle.Service
	register *registerStub
	cache    *cacheMock
	orch     *orchMock
	sink     *sinkStub
	timer    *timerStub
}

func newFixture(proj *project.Project) *fixture {
	f := &fixture{
		register: &registerStub{current: proj},
		cache:    &cacheMock{},
		orch:     &orchMock{},
		sink:     &sinkStub{},
		timer:    &timerStub{},
	}
	f.svc = lifecycle.NewService(f.register, f.cache, f.orch, f.sink, f.timer, ratelimit.IsRateLimit, nil)
	return f
}

func testProject() *project.Project {
	return &project.Project{ID: "p1", Name: "Research", VaultFolder: "Research"}
}

func TestReload_Success(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)
	f.orch.On("ProjectContext", mock.Anything, "p1").Return(&orchestrator.Result{Notes: 3}, nil)

	outcome := f.svc.Reload(context.Background())
	require.Equal(t, lifecycle.OutcomeCompleted, outcome)

	f.cache.AssertCalled(t, "InvalidateMarkdown", mock.Anything, "p1", true)
	f.cache.AssertNotCalled(t, "ClearForProject", mock.Anything, "p1")
	require.Len(t, f.sink.byLevel(notify.LevelSuccess), 1)
	require.Contains(t, f.sink.byLevel(notify.LevelSuccess)[0].Message, "Research")
	require.False(t, f.register.isBusy())
}

func TestReload_NoProjectSelected(t *testing.T) {
	f := newFixture(nil)

	outcome := f.svc.Reload(context.Background())
	require.Equal(t, lifecycle.OutcomeNoProject, outcome)

	f.cache.AssertNotCalled(t, "InvalidateMarkdown", mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "ClearForProject", mock.Anything, mock.Anything)
	require.Len(t, f.sink.notices, 1)
	require.Equal(t, notify.LevelInfo, f.sink.notices[0].Level)
	require.Empty(t, f.register.history)
}

func TestReload_InvalidatesBeforeRecompute(t *testing.T) {
	f := newFixture(testProject())
	var order []string
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Run(func(mock.Arguments) {
		order = append(order, "invalidate")
	}).Return(nil)
	f.orch.On("ProjectContext", mock.Anything, "p1").Run(func(mock.Arguments) {
		order = append(order, "recompute")
	}).Return(&orchestrator.Result{}, nil)

	f.svc.Reload(context.Background())
	require.Equal(t, []string{"invalidate", "recompute"}, order)
}

func TestReload_RateLimitFailureSuppressed(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)
	rle := &fetch.RateLimitError{Source: "https://example.com", StatusCode: 429}
	f.orch.On("ProjectContext", mock.Anything, "p1").Return(nil, rle)

	outcome := f.svc.Reload(context.Background())
	require.Equal(t, lifecycle.OutcomeRateLimited, outcome)

	require.Empty(t, f.sink.byLevel(notify.LevelFailure))
	require.False(t, f.register.isBusy())
}

func TestReload_RateLimitNoticeWhenTimerAllows(t *testing.T) {
	f := newFixture(testProject())
	f.timer.allow = true
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)
	rle := &fetch.RateLimitError{Source: "https://example.com", StatusCode: 429}
	f.orch.On("ProjectContext", mock.Anything, "p1").Return(nil, rle)

	outcome := f.svc.Reload(context.Background())
	require.Equal(t, lifecycle.OutcomeRateLimited, outcome)

	require.Empty(t, f.sink.byLevel(notify.LevelFailure))
	infos := f.sink.byLevel(notify.LevelInfo)
	require.Len(t, infos, 1)
	require.Contains(t, infos[0].Message, "rate limited")
	require.Contains(t, infos[0].Message, "Research")
	require.Equal(t, 1, f.timer.asks)
}

func TestReload_RateLimitNoticeClosedByTimer(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)
	rle := &fetch.RateLimitError{Source: "https://example.com", StatusCode: 429}
	f.orch.On("ProjectContext", mock.Anything, "p1").Return(nil, rle)

	outcome := f.svc.Reload(context.Background())
	require.Equal(t, lifecycle.OutcomeRateLimited, outcome)

	require.Empty(t, f.sink.notices)
	require.Equal(t, 1, f.timer.asks)
}

func TestReload_RateLimitNoticeOncePerWindow(t *testing.T) {
	reg := &registerStub{current: testProject()}
	cache := &cacheMock{}
	orch := &orchMock{}
	sink := &sinkStub{}
	cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)
	orch.On("ProjectContext", mock.Anything, "p1").Return(nil, &fetch.RateLimitError{Source: "https://example.com", StatusCode: 429})

	svc := lifecycle.NewService(reg, cache, orch, sink, ratelimit.NewNoticeTimer(time.Hour), ratelimit.IsRateLimit, nil)

	require.Equal(t, lifecycle.OutcomeRateLimited, svc.Reload(context.Background()))
	require.Equal(t, lifecycle.OutcomeRateLimited, svc.Reload(context.Background()))

	require.Len(t, sink.byLevel(notify.LevelInfo), 1)
	require.Empty(t, sink.byLevel(notify.LevelFailure))
}

func TestReload_GenericFailureNotifiesOnce(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)
	f.orch.On("ProjectContext", mock.Anything, "p1").Return(nil, errors.New("disk exploded"))

	outcome := f.svc.Reload(context.Background())
	require.Equal(t, lifecycle.OutcomeFailed, outcome)

	require.Len(t, f.sink.byLevel(notify.LevelFailure), 1)
	require.False(t, f.register.isBusy())
}

func TestReload_OrchestratorUnavailable(t *testing.T) {
	reg := &registerStub{current: testProject()}
	cache := &cacheMock{}
	sink := &sinkStub{}
	cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)

	svc := lifecycle.NewService(reg, cache, nil, sink, nil, ratelimit.IsRateLimit, nil)
	outcome := svc.Reload(context.Background())

	require.Equal(t, lifecycle.OutcomeFailed, outcome)
	require.Len(t, sink.byLevel(notify.LevelFailure), 1)
	require.False(t, reg.isBusy())
}

func TestForceRebuild_NoProjectSkipsPrompt(t *testing.T) {
	f := newFixture(nil)
	prompted := false
	prompt := confirm.Func(func(context.Context, string, string) (bool, error) {
		prompted = true
		return true, nil
	})

	outcome := f.svc.ForceRebuild(context.Background(), prompt)
	require.Equal(t, lifecycle.OutcomeNoProject, outcome)
	require.False(t, prompted)
}

func TestForceRebuild_DeclinedTouchesNothing(t *testing.T) {
	f := newFixture(testProject())

	outcome := f.svc.ForceRebuild(context.Background(), confirm.Acknowledged(false))
	require.Equal(t, lifecycle.OutcomeDeclined, outcome)

	f.cache.AssertNotCalled(t, "ClearForProject", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "InvalidateMarkdown", mock.Anything, mock.Anything, mock.Anything)
	require.Empty(t, f.register.history)
	require.Equal(t, 0, f.timer.resets)
}

func TestForceRebuild_PromptStatesDestructiveScope(t *testing.T) {
	f := newFixture(testProject())
	var message string
	prompt := confirm.Func(func(_ context.Context, _, msg string) (bool, error) {
		message = msg
		return false, nil
	})

	f.svc.ForceRebuild(context.Background(), prompt)
	require.Contains(t, message, "cannot be undone")
	require.Contains(t, message, "Research")
}

func TestForceRebuild_Success(t *testing.T) {
	f := newFixture(testProject())
	var order []string
	f.cache.On("ClearForProject", mock.Anything, "p1").Run(func(mock.Arguments) {
		order = append(order, "clear")
	}).Return(nil)
	f.orch.On("ProjectContext", mock.Anything, "p1").Run(func(mock.Arguments) {
		order = append(order, "recompute")
	}).Return(&orchestrator.Result{}, nil)

	outcome := f.svc.ForceRebuild(context.Background(), confirm.Acknowledged(true))
	require.Equal(t, lifecycle.OutcomeCompleted, outcome)

	require.Equal(t, []string{"clear", "recompute"}, order)
	f.cache.AssertNotCalled(t, "InvalidateMarkdown", mock.Anything, mock.Anything, mock.Anything)
	require.Equal(t, 1, f.timer.resets)
	require.Len(t, f.sink.byLevel(notify.LevelSuccess), 1)
	require.False(t, f.register.isBusy())

	// The long-running warning plus the cache-cleared notice.
	infos := f.sink.byLevel(notify.LevelInfo)
	require.Len(t, infos, 2)
	require.Greater(t, infos[0].Duration, notify.DefaultDuration)
}

func TestForceRebuild_RateLimitFailureSuppressed(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("ClearForProject", mock.Anything, "p1").Return(nil)
	f.orch.On("ProjectContext", mock.Anything, "p1").Return(nil, errors.New("provider said: too many requests"))

	outcome := f.svc.ForceRebuild(context.Background(), confirm.Acknowledged(true))
	require.Equal(t, lifecycle.OutcomeRateLimited, outcome)

	require.Empty(t, f.sink.byLevel(notify.LevelFailure))
	require.False(t, f.register.isBusy())
}

func TestForceRebuild_ClearFailureNotifies(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("ClearForProject", mock.Anything, "p1").Return(errors.New("db locked"))

	outcome := f.svc.ForceRebuild(context.Background(), confirm.Acknowledged(true))
	require.Equal(t, lifecycle.OutcomeFailed, outcome)

	f.orch.AssertNotCalled(t, "ProjectContext", mock.Anything, mock.Anything)
	require.Len(t, f.sink.byLevel(notify.LevelFailure), 1)
	require.False(t, f.register.isBusy())
}

func TestBusyFlag_SetDuringOperationAndAlwaysReleased(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)

	var busyDuring bool
	f.orch.On("ProjectContext", mock.Anything, "p1").Run(func(mock.Arguments) {
		busyDuring = f.register.isBusy()
	}).Return(nil, errors.New("boom"))

	require.False(t, f.register.isBusy())
	f.svc.Reload(context.Background())
	require.True(t, busyDuring)
	require.False(t, f.register.isBusy())
	require.Equal(t, []bool{true, false}, f.register.history)
}

func TestInFlightGuard_RefusesSecondOperation(t *testing.T) {
	f := newFixture(testProject())
	f.cache.On("InvalidateMarkdown", mock.Anything, "p1", true).Return(nil)

	started := make(chan struct{})
	proceed := make(chan struct{})
	f.orch.On("ProjectContext", mock.Anything, "p1").Run(func(mock.Arguments) {
		close(started)
		<-proceed
	}).Return(&orchestrator.Result{}, nil)

	done := make(chan lifecycle.Outcome, 1)
	go func() {
		done <- f.svc.Reload(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first reload never started")
	}

	outcome := f.svc.Reload(context.Background())
	require.Equal(t, lifecycle.OutcomeBusy, outcome)

	close(proceed)
	require.Equal(t, lifecycle.OutcomeCompleted, <-done)
	require.False(t, f.register.isBusy())
}
