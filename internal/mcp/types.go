package mcp

import (
	"github.com/openvault/notechat-mcp/internal/domain/activity"
	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/domain/lifecycle"
	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/notify"
	"github.com/openvault/notechat-mcp/internal/vectorindex"
)

type CreateProjectParams struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	VaultFolder string `json:"vault_folder,omitempty"`
	Description string `json:"description,omitempty"`
}

type GetProjectParams struct {
	ID string `json:"id,omitempty"`
}

type SelectProjectParams struct {
	ID string `json:"id,omitempty"`
}

type RebuildProjectContextParams struct {
	Confirm bool `json:"confirm,omitempty"`
}

type NewChatParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Title     string `json:"title,omitempty"`
}

type AppendChatMessageParams struct {
	ChatID  string `json:"chat_id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetChatParams struct {
	ChatID string `json:"chat_id"`
}

type SaveChatParams struct {
	ChatID string `json:"chat_id"`
}

type ChatHistoryParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type CloseChatParams struct {
	ChatID string `json:"chat_id"`
}

type SearchContextParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Query     string `json:"query"`
	Limit     int    `json:"limit,omitempty"`
}

type GetRecentActivityParams struct {
	ProjectID string  `json:"project_id,omitempty"`
	ChatID    *string `json:"chat_id,omitempty"`
	Type      string  `json:"type,omitempty"`
	Limit     int     `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}

type ListProjectsResponse struct {
	Projects []project.ProjectSummary `json:"projects"`
}

type LifecycleResponse struct {
	Outcome lifecycle.Outcome `json:"outcome"`
}

type ChatResponse struct {
	Chat     chat.Chat      `json:"chat"`
	Messages []chat.Message `json:"messages,omitempty"`
}

type ChatHistoryResponse struct {
	Chats []chat.ChatInfo `json:"chats"`
}

type SaveChatResponse struct {
	NotePath string `json:"note_path"`
}

type SearchContextResponse struct {
	Results []vectorindex.SearchResult `json:"results"`
}

type StatusResponse struct {
	Project *project.Project `json:"project,omitempty"`
	Busy    bool             `json:"busy"`
	Notices []notify.Notice  `json:"notices,omitempty"`
}

type GetRecentActivityResponse struct {
	Activity []activity.ActivityEntry `json:"activity"`
}
