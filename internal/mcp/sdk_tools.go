package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all tools on the SDK server. Each tool routes
// through Handler.Handle so the stdio/StreamableHTTP transports and the plain
// JSON-RPC transport share one dispatch path.
func registerTools(server *sdkmcp.Server, h *Handler) {
	addTool[CreateProjectParams](server, h, "create_project",
		"Create a new project scoped to a vault folder")
	addTool[struct{}](server, h, "list_projects",
		"List all projects with cache and chat counts")
	addTool[GetProjectParams](server, h, "get_project",
		"Get details for a specific project or the default project")
	addTool[SelectProjectParams](server, h, "select_project",
		"Select the project that context operations and unscoped calls apply to")
	addTool[struct{}](server, h, "reload_project_context",
		"Reload the selected project's context: invalidate markdown-derived cache and re-fetch whatever is stale")
	addTool[RebuildProjectContextParams](server, h, "rebuild_project_context",
		"Erase all cached context for the selected project and re-fetch everything from scratch. Destructive; requires confirm=true")
	addTool[SearchContextParams](server, h, "search_context",
		"Similarity search over the project's indexed context (notes, web pages, transcripts)")
	addTool[NewChatParams](server, h, "new_chat",
		"Start a new chat for a project")
	addTool[AppendChatMessageParams](server, h, "append_chat_message",
		"Append a user or assistant turn to an active chat")
	addTool[GetChatParams](server, h, "get_chat",
		"Get a chat with its full message transcript")
	addTool[ChatHistoryParams](server, h, "chat_history",
		"List a project's chats, newest first")
	addTool[SaveChatParams](server, h, "save_chat_to_note",
		"Render the chat transcript as markdown and save it into the project's vault folder")
	addTool[CloseChatParams](server, h, "close_chat",
		"Close a chat so it no longer accepts messages")
	addTool[struct{}](server, h, "get_status",
		"Get the selected project, the busy flag, and pending panel notices")
	addTool[GetRecentActivityParams](server, h, "get_recent_activity",
		"List recent activity for a project (context builds, chats, rate limits)")
}

func addTool[In any](server *sdkmcp.Server, h *Handler, name, description string) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, args In) (*sdkmcp.CallToolResult, any, error) {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, nil, err
		}
		result, err := h.Handle(ctx, getSessionID(ctx), name, raw)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
