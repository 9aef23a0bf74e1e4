// Package notify delivers fire-and-forget, user-visible notices. The plugin
// UI polls them through the get_status tool; the server also mirrors them to
// the log.
package notify

import "time"

// Level classifies a notice for presentation.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelFailure Level = "failure"
)

// DefaultDuration is how long the UI shows a notice unless told otherwise.
const DefaultDuration = 5 * time.Second

// Notice is one time-limited message for the user.
type Notice struct {
	Level     Level         `json:"level"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Sink receives notices.
type Sink interface {
	Notify(n Notice)
}

// Info builds an informational notice.
func Info(message string) Notice {
	return Notice{Level: LevelInfo, Message: message, Duration: DefaultDuration, CreatedAt: time.Now()}
}

// Success builds a success notice.
func Success(message string) Notice {
	return Notice{Level: LevelSuccess, Message: message, Duration: DefaultDuration, CreatedAt: time.Now()}
}

// Failure builds a failure notice.
func Failure(message string) Notice {
	return Notice{Level: LevelFailure, Message: message, Duration: DefaultDuration, CreatedAt: time.Now()}
}

// WithDuration overrides how long the notice stays visible.
func WithDuration(n Notice, d time.Duration) Notice {
	n.Duration = d
	return n
}
