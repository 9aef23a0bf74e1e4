package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openvault/notechat-mcp/internal/confirm"
	"github.com/openvault/notechat-mcp/internal/domain/activity"
	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/domain/lifecycle"
	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/notify"
	"github.com/openvault/notechat-mcp/internal/vectorindex"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	GetDefault(ctx context.Context) (*project.Project, error)
}

// ChatService defines chat panel operations needed by MCP.
type ChatService interface {
	NewChat(ctx context.Context, projectID, title string) (*chat.Chat, error)
	AppendMessage(ctx context.Context, chatID string, role chat.Role, content string) (*chat.Message, error)
	Get(ctx context.Context, chatID string) (*chat.Chat, []chat.Message, error)
	History(ctx context.Context, projectID string, limit int) ([]chat.ChatInfo, error)
	SaveToNote(ctx context.Context, chatID string) (string, error)
	Close(ctx context.Context, chatID string) error
}

// LifecycleService defines context lifecycle operations needed by MCP.
type LifecycleService interface {
	Reload(ctx context.Context) lifecycle.Outcome
	ForceRebuild(ctx context.Context, prompt confirm.Prompt) lifecycle.Outcome
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Register exposes the current project selection and busy state.
type Register interface {
	Current() (*project.Project, bool)
	SetCurrent(proj *project.Project)
	Busy() bool
}

// Searcher runs similarity search over indexed project context.
type Searcher interface {
	Search(ctx context.Context, projectID, query string, k int) ([]vectorindex.SearchResult, error)
}

// NoticeSource drains buffered notices for the panel.
type NoticeSource interface {
	Drain() []notify.Notice
}

// Handler dispatches MCP commands.
type Handler struct {
	projects  ProjectService
	chats     ChatService
	lifecycle LifecycleService
	activity  ActivityService
	register  Register
	search    Searcher
	notices   NoticeSource
}

// NewHandler creates a new MCP handler. search and notices may be nil when no
// vector index or panel buffer is configured.
func NewHandler(
	projects ProjectService,
	chats ChatService,
	lifecycleSvc LifecycleService,
	activitySvc ActivityService,
	register Register,
	search Searcher,
	notices NoticeSource,
) *Handler {
	return &Handler{
		projects:  projects,
		chats:     chats,
		lifecycle: lifecycleSvc,
		activity:  activitySvc,
		register:  register,
		search:    search,
		notices:   notices,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.projects.Create(ctx, project.CreateRequest{
			ID:          req.ID,
			Name:        req.Name,
			VaultFolder: req.VaultFolder,
			Description: req.Description,
		})
		if err != nil {
			return nil, mapError(err)
		}
		h.logActivity(ctx, proj.ID, nil, activity.TypeProjectCreated, fmt.Sprintf("Created project %s", proj.Name))
		return proj, nil
	case "list_projects":
		projects, err := h.projects.List(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return ListProjectsResponse{Projects: projects}, nil
	case "get_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.getProjectOrDefault(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return proj, nil
	case "select_project":
		var req SelectProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.getProjectOrDefault(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		h.register.SetCurrent(proj)
		return proj, nil
	case "reload_project_context":
		outcome := h.lifecycle.Reload(ctx)
		h.logLifecycleOutcome(ctx, "reload", outcome)
		return LifecycleResponse{Outcome: outcome}, nil
	case "rebuild_project_context":
		var req RebuildProjectContextParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		outcome := h.lifecycle.ForceRebuild(ctx, confirm.Acknowledged(req.Confirm))
		if outcome == lifecycle.OutcomeDeclined {
			return nil, confirmRequired(h.rebuildWarning())
		}
		h.logLifecycleOutcome(ctx, "rebuild", outcome)
		return LifecycleResponse{Outcome: outcome}, nil
	case "new_chat":
		var req NewChatParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		projectID := req.ProjectID
		if projectID == "" {
			proj, err := h.currentOrDefault(ctx)
			if err != nil {
				return nil, mapError(err)
			}
			projectID = proj.ID
		}
		c, err := h.chats.NewChat(ctx, projectID, req.Title)
		if err != nil {
			return nil, mapError(err)
		}
		h.logActivity(ctx, c.ProjectID, &c.ID, activity.TypeChatStarted, fmt.Sprintf("Started chat %q", c.Title))
		return ChatResponse{Chat: *c}, nil
	case "append_chat_message":
		var req AppendChatMessageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		msg, err := h.chats.AppendMessage(ctx, req.ChatID, chat.Role(req.Role), req.Content)
		if err != nil {
			return nil, mapError(err)
		}
		return msg, nil
	case "get_chat":
		var req GetChatParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, msgs, err := h.chats.Get(ctx, req.ChatID)
		if err != nil {
			return nil, mapError(err)
		}
		return ChatResponse{Chat: *c, Messages: msgs}, nil
	case "chat_history":
		var req ChatHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		projectID := req.ProjectID
		if projectID == "" {
			proj, err := h.currentOrDefault(ctx)
			if err != nil {
				return nil, mapError(err)
			}
			projectID = proj.ID
		}
		chats, err := h.chats.History(ctx, projectID, req.Limit)
		if err != nil {
			return nil, mapError(err)
		}
		return ChatHistoryResponse{Chats: chats}, nil
	case "save_chat_to_note":
		var req SaveChatParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		notePath, err := h.chats.SaveToNote(ctx, req.ChatID)
		if err != nil {
			return nil, mapError(err)
		}
		if c, _, chatErr := h.chats.Get(ctx, req.ChatID); chatErr == nil {
			h.logActivity(ctx, c.ProjectID, &c.ID, activity.TypeChatSaved, fmt.Sprintf("Saved chat to %s", notePath))
		}
		return SaveChatResponse{NotePath: notePath}, nil
	case "close_chat":
		var req CloseChatParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, _, err := h.chats.Get(ctx, req.ChatID)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.chats.Close(ctx, req.ChatID); err != nil {
			return nil, mapError(err)
		}
		h.logActivity(ctx, c.ProjectID, &c.ID, activity.TypeChatClosed, fmt.Sprintf("Closed chat %q", c.Title))
		return map[string]string{"status": "closed"}, nil
	case "search_context":
		var req SearchContextParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Query == "" {
			return nil, &APIError{Code: "INVALID_INPUT", Message: "query is required"}
		}
		projectID := req.ProjectID
		if projectID == "" {
			proj, err := h.currentOrDefault(ctx)
			if err != nil {
				return nil, mapError(err)
			}
			projectID = proj.ID
		}
		if h.search == nil {
			return SearchContextResponse{}, nil
		}
		results, err := h.search.Search(ctx, projectID, req.Query, req.Limit)
		if err != nil {
			return nil, mapError(err)
		}
		return SearchContextResponse{Results: results}, nil
	case "get_status":
		resp := StatusResponse{Busy: h.register.Busy()}
		if proj, ok := h.register.Current(); ok {
			resp.Project = proj
		}
		if h.notices != nil {
			resp.Notices = h.notices.Drain()
		}
		return resp, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		projectID := req.ProjectID
		if projectID == "" {
			proj, err := h.currentOrDefault(ctx)
			if err != nil {
				return nil, mapError(err)
			}
			projectID = proj.ID
		}
		opts := activity.ListActivityOptions{
			ProjectID: projectID,
			ChatID:    req.ChatID,
			Limit:     req.Limit,
			Offset:    req.Offset,
		}
		if req.Type != "" {
			activityType := activity.ActivityType(req.Type)
			opts.Type = &activityType
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		return GetRecentActivityResponse{Activity: entries}, nil
	case "tools/list":
		return map[string]any{"tools": buildToolCatalog()}, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	return json.Unmarshal(params, out)
}

func (h *Handler) getProjectOrDefault(ctx context.Context, projectID string) (*project.Project, error) {
	if projectID == "" {
		return h.projects.GetDefault(ctx)
	}
	return h.projects.Get(ctx, projectID)
}

// currentOrDefault resolves the project an unscoped call applies to: the
// selected project if any, otherwise the default.
func (h *Handler) currentOrDefault(ctx context.Context) (*project.Project, error) {
	if proj, ok := h.register.Current(); ok {
		return proj, nil
	}
	return h.projects.GetDefault(ctx)
}

func (h *Handler) rebuildWarning() string {
	name := "the current project"
	if proj, ok := h.register.Current(); ok {
		name = proj.Name
	}
	return fmt.Sprintf("This permanently deletes all cached context for %s - notes, web pages, video transcripts, and file content, in memory and on disk - and re-fetches everything from scratch. This cannot be undone.", name)
}

// logActivity records an activity entry; failures are swallowed since the log
// is advisory.
// logLifecycleOutcome records a reload or rebuild result in the activity log.
// A completed rebuild logs both the cache erasure and the rebuild itself.
func (h *Handler) logLifecycleOutcome(ctx context.Context, op string, outcome lifecycle.Outcome) {
	proj, ok := h.register.Current()
	if !ok {
		return
	}
	switch outcome {
	case lifecycle.OutcomeCompleted:
		if op == "rebuild" {
			h.logActivity(ctx, proj.ID, nil, activity.TypeCacheCleared, fmt.Sprintf("Cleared cached context for %s", proj.Name))
			h.logActivity(ctx, proj.ID, nil, activity.TypeContextRebuilt, fmt.Sprintf("Rebuilt context for %s", proj.Name))
			return
		}
		h.logActivity(ctx, proj.ID, nil, activity.TypeContextReloaded, fmt.Sprintf("Reloaded context for %s", proj.Name))
	case lifecycle.OutcomeRateLimited:
		h.logActivity(ctx, proj.ID, nil, activity.TypeRateLimited, fmt.Sprintf("Context %s for %s was rate limited", op, proj.Name))
	}
}

func (h *Handler) logActivity(ctx context.Context, projectID string, chatID *string, activityType activity.ActivityType, summary string) {
	if h.activity == nil {
		return
	}
	_ = h.activity.LogActivity(ctx, &activity.ActivityEntry{
		ProjectID:    projectID,
		ChatID:       chatID,
		ActivityType: activityType,
		Summary:      summary,
	})
}
