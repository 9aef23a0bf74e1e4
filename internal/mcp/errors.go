package mcp

import (
	"errors"
	"fmt"

	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// confirmRequired is returned when a destructive tool is called without the
// confirm flag. The message carries the warning the panel shows in its modal.
func confirmRequired(warning string) *APIError {
	return &APIError{
		Code:         "CONFIRM_REQUIRED",
		Message:      warning,
		RecoveryHint: "Call again with confirm=true after the user approves",
	}
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID spelling or call list_projects"}
	case errors.Is(err, chat.ErrChatNotFound):
		return &APIError{Code: "CHAT_NOT_FOUND", Message: "chat not found", RecoveryHint: "Call chat_history to list chats"}
	case errors.Is(err, chat.ErrChatClosed):
		return &APIError{Code: "CHAT_CLOSED", Message: "chat is closed", RecoveryHint: "Start a new chat"}
	case errors.Is(err, chat.ErrEmptyChat):
		return &APIError{Code: "EMPTY_CHAT", Message: "chat has no messages to save", RecoveryHint: "Add messages before saving"}
	case errors.Is(err, chat.ErrInvalidInput), errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check required fields"}
	default:
		return nil
	}
}
