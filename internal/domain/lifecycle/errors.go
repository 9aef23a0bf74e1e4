package lifecycle

import "errors"

// ErrOrchestratorUnavailable indicates the context orchestrator was not
// wired; treated as a generic failure, never propagated to the caller.
var ErrOrchestratorUnavailable = errors.New("context orchestrator unavailable")
