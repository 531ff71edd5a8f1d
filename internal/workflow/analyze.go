package workflow

import (
	"context"
	"strings"
	"sync"

	"resumeiq/internal/aitext"
	"resumeiq/internal/apiclient"
	"resumeiq/internal/resume"
	"resumeiq/internal/shared/metrics"
	"resumeiq/internal/upload"
)

// Analyzer sends a résumé file to the analysis API.
type Analyzer interface {
	Analyze(ctx context.Context, file upload.File) (resume.AnalyzeResult, error)
}

// AnalyzeState is a point-in-time copy of the analyze workflow.
type AnalyzeState struct {
	Phase Phase
	// File is the selected file without its payload.
	File        *upload.File
	Result      *resume.AnalyzeResult
	Error       string
	GateMessage string
}

// AnalyzeWorkflow holds the selected file and the latest analysis.
type AnalyzeWorkflow struct {
	api     Analyzer
	gate    *upload.Gate
	handoff *Handoff

	mu      sync.Mutex
	phase   Phase
	file    *upload.File
	result  *resume.AnalyzeResult
	message string
	gen     uint64
	running sync.WaitGroup
}

// NewAnalyzeWorkflow wires the workflow. handoff receives the résumé text of
// every successful analysis.
func NewAnalyzeWorkflow(api Analyzer, gate *upload.Gate, handoff *Handoff) *AnalyzeWorkflow {
	if gate == nil {
		gate = upload.NewGate(0, "")
	}
	return &AnalyzeWorkflow{api: api, gate: gate, handoff: handoff, phase: PhaseIdle}
}

// Gate returns the upload gate used by Select.
func (w *AnalyzeWorkflow) Gate() *upload.Gate { return w.gate }

// Select offers f to the gate. An accepted file replaces the previous one
// and clears the prior error and result.
func (w *AnalyzeWorkflow) Select(f upload.File) error {
	return w.gate.Offer(f, func(f upload.File) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.file = &f
		w.message = ""
		w.result = nil
		if w.phase != PhaseLoading {
			w.setPhase(PhaseIdle)
		}
	})
}

// Submit analyzes the selected file and blocks until the API answers.
func (w *AnalyzeWorkflow) Submit(ctx context.Context) error {
	file, gen, err := w.begin()
	if err != nil {
		return err
	}
	res, err := w.api.Analyze(ctx, file)
	return w.finish(gen, res, err)
}

// Start is Submit without waiting: local validation happens before it
// returns and the request runs in the background.
func (w *AnalyzeWorkflow) Start(ctx context.Context) error {
	file, gen, err := w.begin()
	if err != nil {
		return err
	}
	w.running.Add(1)
	go func() {
		defer w.running.Done()
		res, err := w.api.Analyze(ctx, file)
		_ = w.finish(gen, res, err)
	}()
	return nil
}

// Wait blocks until background requests started by Start return.
func (w *AnalyzeWorkflow) Wait() { w.running.Wait() }

// Reset returns the workflow to idle and drops the file, result and
// messages. A request in flight has its result ignored.
func (w *AnalyzeWorkflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.file = nil
	w.result = nil
	w.message = ""
	w.setPhase(PhaseIdle)
	w.gate.Clear()
}

// Phase returns the current phase.
func (w *AnalyzeWorkflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// State returns a copy of the workflow state.
func (w *AnalyzeWorkflow) State() AnalyzeState {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := AnalyzeState{
		Phase:       w.phase,
		Error:       w.message,
		GateMessage: w.gate.Message(),
	}
	if w.file != nil {
		f := *w.file
		f.Data = nil
		st.File = &f
	}
	if w.result != nil {
		res := *w.result
		st.Result = &res
	}
	return st
}

func (w *AnalyzeWorkflow) begin() (upload.File, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseLoading {
		return upload.File{}, 0, ErrInFlight
	}
	w.message = ""
	w.result = nil
	if w.file == nil {
		w.message = MsgNoFile
		w.setPhase(PhaseFailed)
		metrics.IncWorkflowFailed(metrics.WorkflowAnalyze)
		return upload.File{}, 0, ErrNoFile
	}
	w.setPhase(PhaseLoading)
	metrics.IncWorkflowStarted(metrics.WorkflowAnalyze)
	return *w.file, w.gen, nil
}

func (w *AnalyzeWorkflow) finish(gen uint64, res resume.AnalyzeResult, err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return ErrSuperseded
	}
	if err != nil {
		w.message = userMessage(err, apiclient.FallbackAnalyzeMessage)
		w.setPhase(PhaseFailed)
		metrics.IncWorkflowFailed(metrics.WorkflowAnalyze)
		return err
	}
	w.result = &res
	w.setPhase(PhaseSuccess)
	metrics.IncWorkflowSucceeded(metrics.WorkflowAnalyze)
	if w.handoff != nil {
		w.handoff.Publish(res.ResumeText)
	}
	if strings.TrimSpace(res.RawSuggestions) != "" {
		if _, ok := aitext.ParseSuggestions(res.RawSuggestions); !ok {
			metrics.IncRawFallback(metrics.FallbackSuggestions)
		}
	}
	return nil
}

// setPhase must be called with mu held.
func (w *AnalyzeWorkflow) setPhase(p Phase) {
	logTransition(metrics.WorkflowAnalyze, w.phase, p)
	w.phase = p
}
