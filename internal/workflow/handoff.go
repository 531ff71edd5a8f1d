package workflow

import (
	"strings"
	"sync"
)

// Handoff carries the analyzed résumé text from the analyze workflow to the
// compare workflow. Last write wins.
type Handoff struct {
	mu   sync.RWMutex
	text string
	ok   bool
}

// Publish replaces the slot content.
func (h *Handoff) Publish(text string) {
	h.mu.Lock()
	h.text = text
	h.ok = true
	h.mu.Unlock()
}

// Latest returns the slot content. ok is false until non-blank text has
// been published.
func (h *Handoff) Latest() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.ok || strings.TrimSpace(h.text) == "" {
		return "", false
	}
	return h.text, true
}
