package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Workflow names used as label values.
const (
	WorkflowAnalyze = "analyze"
	WorkflowCompare = "compare"
)

// Raw fallback kinds.
const (
	FallbackSuggestions = "suggestions"
	FallbackComparison  = "comparison"
)

var (
	workflowStarted   = newCounterVec()
	workflowSucceeded = newCounterVec()
	workflowFailed    = newCounterVec()
	rawFallbacks      = newCounterVec()

	upstreamBuckets  = []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000}
	upstreamMu       sync.Mutex
	upstreamDuration = map[string]*histogram{}
)

// IncWorkflowStarted counts a submission that reached the external API.
func IncWorkflowStarted(workflow string) {
	workflowStarted.inc(workflow)
}

// IncWorkflowSucceeded counts a successful workflow run.
func IncWorkflowSucceeded(workflow string) {
	workflowSucceeded.inc(workflow)
}

// IncWorkflowFailed counts a failed workflow run, including local validation failures.
func IncWorkflowFailed(workflow string) {
	workflowFailed.inc(workflow)
}

// IncRawFallback counts AI output that had no usable structure.
func IncRawFallback(kind string) {
	rawFallbacks.inc(kind)
}

// ObserveUpstreamDurationMs records an external API call duration in milliseconds.
func ObserveUpstreamDurationMs(op string, value float64) {
	if value < 0 {
		value = 0
	}
	upstreamMu.Lock()
	h, ok := upstreamDuration[op]
	if !ok {
		h = newHistogram(upstreamBuckets)
		upstreamDuration[op] = h
	}
	upstreamMu.Unlock()
	h.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "workflow_started_total", "Workflow submissions sent upstream", "workflow", workflowStarted)
	writeCounterVec(&buf, "workflow_succeeded_total", "Workflow runs that succeeded", "workflow", workflowSucceeded)
	writeCounterVec(&buf, "workflow_failed_total", "Workflow runs that failed", "workflow", workflowFailed)
	writeCounterVec(&buf, "ai_output_raw_fallback_total", "AI output shown as raw text", "kind", rawFallbacks)

	upstreamMu.Lock()
	ops := make([]string, 0, len(upstreamDuration))
	for op := range upstreamDuration {
		ops = append(ops, op)
	}
	upstreamMu.Unlock()
	sort.Strings(ops)
	if len(ops) > 0 {
		fmt.Fprintf(&buf, "# HELP upstream_request_duration_ms External API request duration in milliseconds\n")
		fmt.Fprintf(&buf, "# TYPE upstream_request_duration_ms histogram\n")
	}
	for _, op := range ops {
		upstreamMu.Lock()
		h := upstreamDuration[op]
		upstreamMu.Unlock()
		writeHistogram(&buf, "upstream_request_duration_ms", fmt.Sprintf("op=%q", op), h.Snapshot())
	}
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]*atomic.Uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: map[string]*atomic.Uint64{}}
}

func (v *counterVec) inc(label string) {
	v.mu.Lock()
	c, ok := v.values[label]
	if !ok {
		c = new(atomic.Uint64)
		v.values[label] = c
	}
	v.mu.Unlock()
	c.Add(1)
}

func (v *counterVec) snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, c := range v.values {
		out[k] = c.Load()
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounterVec(buf *bytes.Buffer, name, help, label string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	snap := v.snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, snap[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, labels string, snap histogramSnapshot) {
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{%s,le=\"%s\"} %d\n", name, labels, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{%s,le=\"+Inf\"} %d\n", name, labels, snap.count)
	fmt.Fprintf(buf, "%s_sum{%s} %s\n", name, labels, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count{%s} %d\n", name, labels, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
