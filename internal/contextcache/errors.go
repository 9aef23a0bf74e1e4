package contextcache

import "errors"

// ErrInvalidEntry indicates a cache entry missing its project or source.
var ErrInvalidEntry = errors.New("invalid cache entry")
