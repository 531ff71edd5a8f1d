// Package workflow owns the analyze and compare request lifecycles for one
// signed-in session.
package workflow

import (
	"errors"
	"strings"

	"resumeiq/internal/shared/telemetry"
)

// Phase is a workflow lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// Local validation messages.
const (
	MsgNoFile       = "Please select a resume file first"
	MsgMissingInput = "Please fill in both resume text and job description"
)

var (
	ErrInFlight     = errors.New("workflow: request already in flight")
	ErrNoFile       = errors.New("workflow: no resume file selected")
	ErrMissingInput = errors.New("workflow: resume text or job description missing")
	// ErrSuperseded is returned when the workflow was reset while its request
	// was in flight. The result is dropped.
	ErrSuperseded = errors.New("workflow: result superseded")
)

type userMessager interface {
	UserMessage() string
}

// userMessage picks the message shown in the error banner.
func userMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}

func logTransition(workflow string, from, to Phase) {
	if from == to {
		return
	}
	telemetry.Info("workflow.transition", map[string]any{
		"workflow": workflow,
		"from":     string(from),
		"to":       string(to),
	})
}
