// Package confirm defines the blocking confirmation contract used before
// destructive operations.
package confirm

import "context"

// Prompt asks the user to confirm an action described by title and message.
// Implementations must return true only on an explicit positive answer.
type Prompt interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Acknowledged is a prompt whose answer is already known, e.g. a tool call
// that carried an explicit confirm flag from the UI's modal.
type Acknowledged bool

func (a Acknowledged) Confirm(context.Context, string, string) (bool, error) {
	return bool(a), nil
}

// Func adapts a function to the Prompt interface.
type Func func(ctx context.Context, title, message string) (bool, error)

func (f Func) Confirm(ctx context.Context, title, message string) (bool, error) {
	return f(ctx, title, message)
}
