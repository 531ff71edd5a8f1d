package workflow

import (
	"strings"
	"sync"
	"time"

	"resumeiq/internal/upload"
)

// Tab is a dashboard view.
type Tab string

const (
	TabAnalyze Tab = "analyze"
	TabCompare Tab = "compare"
)

// ParseTab maps a query value to a tab, defaulting to analyze.
func ParseTab(s string) Tab {
	if Tab(strings.ToLower(strings.TrimSpace(s))) == TabCompare {
		return TabCompare
	}
	return TabAnalyze
}

// API is the external service both workflows talk to.
type API interface {
	Analyzer
	Comparer
}

// Workspace is one session's dashboard: both workflows, the handoff slot
// between them and the active tab.
type Workspace struct {
	Analyze *AnalyzeWorkflow
	Compare *CompareWorkflow
	Handoff *Handoff

	mu       sync.Mutex
	active   Tab
	lastSeen time.Time
	now      func() time.Time
}

// NewWorkspace builds a workspace on the analyze tab.
func NewWorkspace(api API, gate *upload.Gate) *Workspace {
	handoff := &Handoff{}
	return &Workspace{
		Analyze:  NewAnalyzeWorkflow(api, gate, handoff),
		Compare:  NewCompareWorkflow(api, handoff),
		Handoff:  handoff,
		active:   TabAnalyze,
		lastSeen: time.Now(),
		now:      time.Now,
	}
}

// Active returns the current tab.
func (w *Workspace) Active() Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Navigate switches tabs. The workflow being left is reset; entering the
// compare tab seeds its résumé text from the handoff slot.
func (w *Workspace) Navigate(tab Tab) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = w.now()
	if tab == w.active {
		return
	}
	switch w.active {
	case TabAnalyze:
		w.Analyze.Reset()
	case TabCompare:
		w.Compare.Reset()
	}
	if tab == TabCompare {
		w.Compare.Init()
	}
	w.active = tab
}

// Touch marks the workspace as used.
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = w.now()
	w.mu.Unlock()
}

// Busy reports whether either workflow has a request in flight.
func (w *Workspace) Busy() bool {
	return w.Analyze.Phase() == PhaseLoading || w.Compare.Phase() == PhaseLoading
}

// Wait blocks until all background requests return.
func (w *Workspace) Wait() {
	w.Analyze.Wait()
	w.Compare.Wait()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}
