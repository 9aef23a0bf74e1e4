package ratelimit

import (
	"sync"
	"time"
)

// DefaultNoticeWindow is how long repeated rate-limit notices stay suppressed.
const DefaultNoticeWindow = 5 * time.Minute

// NoticeTimer suppresses repeated rate-limit notices within a window. A force
// rebuild resets it so warnings can resurface during the bulk re-fetch.
type NoticeTimer struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
}

// NewNoticeTimer creates a timer. window <= 0 uses DefaultNoticeWindow.
func NewNoticeTimer(window time.Duration) *NoticeTimer {
	if window <= 0 {
		window = DefaultNoticeWindow
	}
	return &NoticeTimer{window: window}
}

// ShouldNotify reports whether a rate-limit notice may be shown now, and if
// so records the showing.
func (t *NoticeTimer) ShouldNotify() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.window {
		return false
	}
	t.last = now
	return true
}

// Reset clears the suppression window.
func (t *NoticeTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
}
