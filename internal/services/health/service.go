package health

import (
	"context"
	"database/sql"
	"time"

	"resumeiq/internal/resume"
)

const defaultProbeTimeout = 5 * time.Second

// UpstreamProber calls the analysis API liveness endpoint.
type UpstreamProber interface {
	Health(ctx context.Context) (resume.HealthStatus, error)
}

// Service encapsulates health-related checks.
type Service struct {
	Upstream UpstreamProber
	// DB is nil when the in-memory stores are in use.
	DB           *sql.DB
	ProbeTimeout time.Duration
}

// Report is the local liveness payload.
type Report struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// UpstreamReport is the external API liveness payload.
type UpstreamReport struct {
	OK        bool    `json:"ok"`
	Status    string  `json:"status,omitempty"`
	Error     string  `json:"error,omitempty"`
	LatencyMs float64 `json:"latencyMs"`
}

// NewService constructs a new health service.
func NewService(upstream UpstreamProber, db *sql.DB) *Service {
	return &Service{Upstream: upstream, DB: db, ProbeTimeout: defaultProbeTimeout}
}

// Status checks the process and, when configured, the database.
func (s *Service) Status(ctx context.Context) Report {
	if s.DB == nil {
		return Report{OK: true, Database: "memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return Report{OK: false, Database: "unreachable"}
	}
	return Report{OK: true, Database: "ok"}
}

// UpstreamStatus probes GET /health on the analysis API.
func (s *Service) UpstreamStatus(ctx context.Context) UpstreamReport {
	if s.Upstream == nil {
		return UpstreamReport{Error: "upstream not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	start := time.Now()
	st, err := s.Upstream.Health(ctx)
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		return UpstreamReport{Error: err.Error(), LatencyMs: latency}
	}
	return UpstreamReport{OK: true, Status: st.Status, LatencyMs: latency}
}

func (s *Service) timeout() time.Duration {
	if s.ProbeTimeout <= 0 {
		return defaultProbeTimeout
	}
	return s.ProbeTimeout
}
