package fetch

import (
	"fmt"
	"time"
)

// RateLimitError signals that a remote content API throttled the request.
// It gets specialized, less intrusive UI handling than other failures.
type RateLimitError struct {
	Source     string
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited fetching %s (status %d, retry after %s)", e.Source, e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited fetching %s (status %d)", e.Source, e.StatusCode)
}
