// Package registry owns the process-wide selection state: which project is
// current and whether a context operation is in flight. Nothing else holds
// this state; callers receive it explicitly instead of reaching into globals.
package registry

import (
	"sync"

	"github.com/openvault/notechat-mcp/internal/domain/project"
)

// Register tracks the current project and the busy flag.
type Register struct {
	mu      sync.Mutex
	current *project.Project
	busy    bool
}

// New creates an empty register with no project selected.
func New() *Register {
	return &Register{}
}

// Current returns the selected project, if any.
func (r *Register) Current() (*project.Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, false
	}
	cp := *r.current
	return &cp, true
}

// SetCurrent selects a project.
func (r *Register) SetCurrent(proj *project.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if proj == nil {
		r.current = nil
		return
	}
	cp := *proj
	r.current = &cp
}

// Clear deselects the current project.
func (r *Register) Clear() {
	r.SetCurrent(nil)
}

// Busy reports whether a context operation is in flight.
func (r *Register) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// SetBusy sets the in-flight flag.
func (r *Register) SetBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = busy
}
