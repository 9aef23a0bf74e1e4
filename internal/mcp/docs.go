package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `notechat-mcp backs a note-vault chat panel: Projects scope vault folders, each with a cached context of notes, linked web pages, and video transcripts.

Core concepts:
- Project: a named vault folder with its own cached context and chats. One project is "selected" at a time.
- Context cache: derived content (markdown, web, video, file) kept in memory, SQLite, and a vector index.
- Reload: marks markdown-derived cache stale and re-fetches what changed. Cheap; use it after editing notes.
- Rebuild: erases the whole cache and re-fetches everything. Destructive; requires confirm=true.
- Busy flag: one context operation per project at a time. get_status reports it.

Rules of engagement:
1) Orient: call get_status, then list_projects if you need to switch.
2) Select: call select_project before context operations; they act on the selected project.
3) Refresh: prefer reload_project_context. Only rebuild when the cache is wrong, and only after the user confirms.
4) Chat: new_chat → append_chat_message per turn → save_chat_to_note to keep a transcript → close_chat when done.
5) Ground answers: call search_context to retrieve relevant cached content before answering from the vault.
6) Failures surface as notices in get_status, not as tool errors. Rate-limit failures are logged without a notice.

Transport notes:
- HTTP: pass session id via Mcp-Session-Id header.
- Stdio: pass session id via _meta.session_id when supported.

Docs (progressive disclosure):
- notechat://docs/index (what to read when)
- notechat://docs/context-lifecycle (reload vs rebuild, staleness, busy flag)
- notechat://docs/chats (chat workflow and saving transcripts)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "notechat://docs/index",
		Name:        "docs_index",
		Title:       "notechat-mcp docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# notechat-mcp: Agent Docs Index

This server is designed for **progressive disclosure**: keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`get_status`" + ` to see the selected project and whether a context operation is running.
2. ` + "`select_project`" + ` to pick the project to work in.
3. ` + "`search_context`" + ` to ground answers in the vault's cached context.
4. ` + "`new_chat`" + ` / ` + "`append_chat_message`" + ` for the conversation; ` + "`save_chat_to_note`" + ` to persist it.
5. ` + "`reload_project_context`" + ` after the user edits notes.

## Docs (read on demand)

- ` + "`notechat://docs/context-lifecycle`" + ` — reload vs rebuild, staleness, the busy flag, and failure notices.
- ` + "`notechat://docs/chats`" + ` — chat workflow and saving transcripts back into the vault.

## Capabilities & intentional limitations

- ` + "`search_context`" + ` returns nothing until the project's context has been built at least once.
- Rebuild is rate-limit sensitive: bulk re-fetching may hit provider limits; those failures are logged, not surfaced.
`,
	},
	{
		URI:         "notechat://docs/context-lifecycle",
		Name:        "docs_context_lifecycle",
		Title:       "Context lifecycle: reload vs rebuild",
		Description: "When to reload, when to rebuild, and how staleness and the busy flag behave.",
		Content: `# Context lifecycle: reload vs rebuild

## Reload (cheap, default)

` + "`reload_project_context`" + ` marks markdown-derived cache stale, including the web pages and video
transcripts that markdown links to, then recomputes the context. Entries that are still fresh are
kept; only stale or missing entries are re-fetched.

Use it whenever the user edits notes or wants the context brought up to date.

## Rebuild (destructive, confirmed)

` + "`rebuild_project_context`" + ` erases **all** cached context for the selected project: the memory
layer, the SQLite rows, and the vector index collection. Everything is re-fetched from scratch.

- Requires ` + "`confirm=true`" + `. Without it the call returns ` + "`CONFIRM_REQUIRED`" + ` with the warning
  text to show the user. Nothing is touched until confirmed.
- Only rebuild when the cache is actually wrong (corrupt entries, schema change, vault moved).

## Busy flag and outcomes

One context operation runs per project at a time. A second call returns outcome ` + "`busy`" + `.
Operations never raise errors; they return an outcome (` + "`completed`" + `, ` + "`no_project`" + `, ` + "`busy`" + `,
` + "`declined`" + `, ` + "`rate_limited`" + `, ` + "`failed`" + `) and report problems as notices in ` + "`get_status`" + `.
Rate-limit failures are logged without a user-facing notice.
`,
	},
	{
		URI:         "notechat://docs/chats",
		Name:        "docs_chats",
		Title:       "Chat workflow",
		Description: "Running panel chats and saving transcripts into the vault.",
		Content: `# Chat workflow

## Normal loop

1) ` + "`new_chat`" + ` (optionally with a title) for the selected project.
2) ` + "`append_chat_message`" + ` with role ` + "`user`" + ` or ` + "`assistant`" + ` per turn.
3) ` + "`save_chat_to_note`" + ` renders the transcript as markdown under the project's vault folder
   (` + "`<folder>/chats/<date> <title>.md`" + `) and records the note path on the chat.
4) ` + "`close_chat`" + ` when the conversation is done. Closed chats reject new messages.

## History

` + "`chat_history`" + ` lists a project's chats newest first with message counts.
` + "`get_chat`" + ` returns one chat with its full transcript.

Saved notes become part of the vault, so the next context reload indexes them like any other note.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
