package chat

import "errors"

var (
	// ErrChatNotFound indicates the chat doesn't exist.
	ErrChatNotFound = errors.New("chat not found")
	// ErrChatClosed indicates the chat no longer accepts messages.
	ErrChatClosed = errors.New("chat is closed")
	// ErrEmptyChat indicates the chat has no messages to save.
	ErrEmptyChat = errors.New("chat has no messages")
	// ErrInvalidInput indicates invalid chat input.
	ErrInvalidInput = errors.New("invalid chat input")
)
