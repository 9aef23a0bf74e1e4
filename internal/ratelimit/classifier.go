// Package ratelimit classifies throttling errors and controls how often
// rate-limit notices are surfaced to the user.
package ratelimit

import (
	"errors"
	"strings"

	"github.com/openvault/notechat-mcp/internal/fetch"
)

var markers = []string{
	"rate limit",
	"rate-limit",
	"too many requests",
	"quota exceeded",
	"429",
}

// IsRateLimit reports whether err represents a rate-limit condition, either
// as a typed fetch.RateLimitError anywhere in the chain or by provider
// message markers.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var rle *fetch.RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range markers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
