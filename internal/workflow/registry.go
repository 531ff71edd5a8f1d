package workflow

import (
	"sync"
	"time"

	"resumeiq/internal/shared/telemetry"
)

// Registry keeps one Workspace per session.
type Registry struct {
	mu      sync.Mutex
	items   map[string]*Workspace
	factory func() *Workspace
	now     func() time.Time
}

// NewRegistry builds a registry that creates workspaces with factory.
func NewRegistry(factory func() *Workspace) *Registry {
	return &Registry{
		items:   map[string]*Workspace{},
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the session's workspace, creating it on first use.
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[sessionID]
	if !ok {
		ws = r.factory()
		r.items[sessionID] = ws
	}
	ws.Touch()
	return ws
}

// Drop forgets the session's workspace.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.items, sessionID)
	r.mu.Unlock()
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep drops workspaces unused for longer than idle. Workspaces with a
// request in flight are kept.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.items {
		if ws.idleSince().Before(cutoff) && !ws.Busy() {
			delete(r.items, id)
			removed++
		}
	}
	if removed > 0 {
		telemetry.Info("workspace.sweep", map[string]any{"removed": removed, "remaining": len(r.items)})
	}
	return removed
}

// Wait blocks until every workspace's background requests return.
func (r *Registry) Wait() {
	r.mu.Lock()
	items := make([]*Workspace, 0, len(r.items))
	for _, ws := range r.items {
		items = append(items, ws)
	}
	r.mu.Unlock()
	for _, ws := range items {
		ws.Wait()
	}
}
