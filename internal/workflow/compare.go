package workflow

import (
	"context"
	"strings"
	"sync"

	"resumeiq/internal/aitext"
	"resumeiq/internal/apiclient"
	"resumeiq/internal/resume"
	"resumeiq/internal/shared/metrics"
)

// Comparer sends a résumé and a job description to the comparison API.
type Comparer interface {
	Compare(ctx context.Context, resumeText, jobDescription string) (resume.CompareResult, error)
}

// CompareState is a point-in-time copy of the compare workflow.
type CompareState struct {
	Phase          Phase
	ResumeText     string
	JobDescription string
	Result         *resume.CompareResult
	Error          string
	// HandoffAvailable reports whether an analyzed résumé can be pulled in.
	HandoffAvailable bool
}

// CompareWorkflow holds the compare inputs and the latest comparison.
type CompareWorkflow struct {
	api     Comparer
	handoff *Handoff

	mu             sync.Mutex
	phase          Phase
	resumeText     string
	jobDescription string
	result         *resume.CompareResult
	message        string
	gen            uint64
	running        sync.WaitGroup
}

// NewCompareWorkflow wires the workflow. handoff is only read.
func NewCompareWorkflow(api Comparer, handoff *Handoff) *CompareWorkflow {
	if handoff == nil {
		handoff = &Handoff{}
	}
	return &CompareWorkflow{api: api, handoff: handoff, phase: PhaseIdle}
}

// Init seeds the résumé text from the handoff slot. It is called when the
// compare workflow is entered.
func (w *CompareWorkflow) Init() {
	text, ok := w.handoff.Latest()
	if !ok {
		return
	}
	w.mu.Lock()
	w.resumeText = text
	w.mu.Unlock()
}

// UseAnalyzed copies the handoff text into the résumé field. It reports
// false when nothing has been analyzed yet.
func (w *CompareWorkflow) UseAnalyzed() bool {
	text, ok := w.handoff.Latest()
	if !ok {
		return false
	}
	w.mu.Lock()
	w.resumeText = text
	w.mu.Unlock()
	return true
}

// Submit compares the trimmed inputs and blocks until the API answers.
func (w *CompareWorkflow) Submit(ctx context.Context, resumeText, jobDescription string) error {
	rt, jd, gen, err := w.begin(resumeText, jobDescription)
	if err != nil {
		return err
	}
	res, err := w.api.Compare(ctx, rt, jd)
	return w.finish(gen, res, err)
}

// Start is Submit without waiting for the API.
func (w *CompareWorkflow) Start(ctx context.Context, resumeText, jobDescription string) error {
	rt, jd, gen, err := w.begin(resumeText, jobDescription)
	if err != nil {
		return err
	}
	w.running.Add(1)
	go func() {
		defer w.running.Done()
		res, err := w.api.Compare(ctx, rt, jd)
		_ = w.finish(gen, res, err)
	}()
	return nil
}

// Wait blocks until background requests started by Start return.
func (w *CompareWorkflow) Wait() { w.running.Wait() }

// Reset returns the workflow to idle and clears inputs, result and error.
func (w *CompareWorkflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.resumeText = ""
	w.jobDescription = ""
	w.result = nil
	w.message = ""
	w.setPhase(PhaseIdle)
}

// Phase returns the current phase.
func (w *CompareWorkflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// State returns a copy of the workflow state.
func (w *CompareWorkflow) State() CompareState {
	_, avail := w.handoff.Latest()
	w.mu.Lock()
	defer w.mu.Unlock()
	st := CompareState{
		Phase:            w.phase,
		ResumeText:       w.resumeText,
		JobDescription:   w.jobDescription,
		Error:            w.message,
		HandoffAvailable: avail,
	}
	if w.result != nil {
		res := *w.result
		st.Result = &res
	}
	return st
}

func (w *CompareWorkflow) begin(resumeText, jobDescription string) (string, string, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseLoading {
		return "", "", 0, ErrInFlight
	}
	// Keep what the user typed so the form re-renders with it.
	w.resumeText = resumeText
	w.jobDescription = jobDescription
	w.message = ""
	w.result = nil

	rt := strings.TrimSpace(resumeText)
	jd := strings.TrimSpace(jobDescription)
	if rt == "" || jd == "" {
		w.message = MsgMissingInput
		w.setPhase(PhaseFailed)
		metrics.IncWorkflowFailed(metrics.WorkflowCompare)
		return "", "", 0, ErrMissingInput
	}
	w.setPhase(PhaseLoading)
	metrics.IncWorkflowStarted(metrics.WorkflowCompare)
	return rt, jd, w.gen, nil
}

func (w *CompareWorkflow) finish(gen uint64, res resume.CompareResult, err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return ErrSuperseded
	}
	if err != nil {
		w.message = userMessage(err, apiclient.FallbackCompareMessage)
		w.setPhase(PhaseFailed)
		metrics.IncWorkflowFailed(metrics.WorkflowCompare)
		return err
	}
	w.result = &res
	w.setPhase(PhaseSuccess)
	metrics.IncWorkflowSucceeded(metrics.WorkflowCompare)
	if _, ok := aitext.ParseComparison(res.ComparisonText); !ok {
		metrics.IncRawFallback(metrics.FallbackComparison)
	}
	return nil
}

// setPhase must be called with mu held.
func (w *CompareWorkflow) setPhase(p Phase) {
	logTransition(metrics.WorkflowCompare, w.phase, p)
	w.phase = p
}
