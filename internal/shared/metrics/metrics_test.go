package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesWorkflowCounters(t *testing.T) {
	IncWorkflowStarted(WorkflowAnalyze)
	IncWorkflowSucceeded(WorkflowAnalyze)
	IncWorkflowFailed(WorkflowCompare)
	IncRawFallback(FallbackComparison)
	ObserveUpstreamDurationMs("compare", 120)

	out := Render()
	for _, want := range []string{
		`workflow_started_total{workflow="analyze"}`,
		`workflow_succeeded_total{workflow="analyze"}`,
		`workflow_failed_total{workflow="compare"}`,
		`ai_output_raw_fallback_total{kind="comparison"}`,
		`upstream_request_duration_ms_bucket{op="compare",le="250"}`,
		`upstream_request_duration_ms_count{op="compare"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)
	snap := h.Snapshot()
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
}
