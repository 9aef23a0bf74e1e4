package mcp

// ToolDefinition describes a callable tool for the JSON-RPC transport's
// tools/list response.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Projects
		{
			Name:        "create_project",
			Description: "Create a new project scoped to a vault folder",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Unique project identifier (optional, will be generated if not provided)",
					},
					"name": map[string]any{
						"type":        "string",
						"description": "Project display name",
					},
					"vault_folder": map[string]any{
						"type":        "string",
						"description": "Vault-relative folder the project's notes live in (defaults to the name)",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Project description",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "list_projects",
			Description: "List all projects with cache and chat counts",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_project",
			Description: "Get details for a specific project or the default project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Project ID (omit to get default project)",
					},
				},
			},
		},
		{
			Name:        "select_project",
			Description: "Select the project that context operations and unscoped calls apply to",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Project ID (omit to select the default project)",
					},
				},
			},
		},

		// Context lifecycle
		{
			Name:        "reload_project_context",
			Description: "Reload the selected project's context: invalidate markdown-derived cache and re-fetch whatever is stale",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "rebuild_project_context",
			Description: "Erase all cached context for the selected project and re-fetch everything from scratch. Destructive; requires confirm=true",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"confirm": map[string]any{
						"type":        "boolean",
						"description": "Must be true; set after the user approves the destructive rebuild",
					},
				},
			},
		},
		{
			Name:        "search_context",
			Description: "Similarity search over the project's indexed context (notes, web pages, transcripts)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "string",
						"description": "Project ID (omit to use the selected or default project)",
					},
					"query": map[string]any{
						"type":        "string",
						"description": "Search query text",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results",
					},
				},
				"required": []string{"query"},
			},
		},

		// Chats
		{
			Name:        "new_chat",
			Description: "Start a new chat for a project",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "string",
						"description": "Project ID (omit to use the selected or default project)",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "Chat title (defaults to a timestamped title)",
					},
				},
			},
		},
		{
			Name:        "append_chat_message",
			Description: "Append a user or assistant turn to an active chat",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"chat_id": map[string]any{
						"type":        "string",
						"description": "Chat ID",
					},
					"role": map[string]any{
						"type":        "string",
						"description": "Author of the turn",
						"enum":        []string{"user", "assistant"},
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Message content",
					},
				},
				"required": []string{"chat_id", "role", "content"},
			},
		},
		{
			Name:        "get_chat",
			Description: "Get a chat with its full message transcript",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"chat_id": map[string]any{
						"type":        "string",
						"description": "Chat ID",
					},
				},
				"required": []string{"chat_id"},
			},
		},
		{
			Name:        "chat_history",
			Description: "List a project's chats, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "string",
						"description": "Project ID (omit to use the selected or default project)",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of chats",
					},
				},
			},
		},
		{
			Name:        "save_chat_to_note",
			Description: "Render the chat transcript as markdown and save it into the project's vault folder",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"chat_id": map[string]any{
						"type":        "string",
						"description": "Chat ID",
					},
				},
				"required": []string{"chat_id"},
			},
		},
		{
			Name:        "close_chat",
			Description: "Close a chat so it no longer accepts messages",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"chat_id": map[string]any{
						"type":        "string",
						"description": "Chat ID",
					},
				},
				"required": []string{"chat_id"},
			},
		},

		// Status and history
		{
			Name:        "get_status",
			Description: "Get the selected project, the busy flag, and pending panel notices",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_recent_activity",
			Description: "List recent activity for a project (context builds, chats, rate limits)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "string",
						"description": "Project ID (omit to use the selected or default project)",
					},
					"chat_id": map[string]any{
						"type":        "string",
						"description": "Filter by chat",
					},
					"type": map[string]any{
						"type":        "string",
						"description": "Filter by activity type",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of entries",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Offset for pagination",
					},
				},
			},
		},
	}
}
