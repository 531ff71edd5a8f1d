package main

import (
	"context"
	"time"

	"resumeiq/internal/bootstrap"
	"resumeiq/internal/shared/telemetry"
)

// runJanitor sweeps expired sessions, idle workspaces and stale rate
// buckets until ctx is done.
func runJanitor(ctx context.Context, app *bootstrap.App, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, app)
		}
	}
}

type sweepResult struct {
	Sessions    int64
	Workspaces  int
	RateBuckets int
}

func sweepOnce(ctx context.Context, app *bootstrap.App) sweepResult {
	var res sweepResult
	n, err := app.SessionsService.Sweep(ctx)
	if err != nil {
		telemetry.Error("janitor.sessions_failed", map[string]any{"error": err})
	}
	res.Sessions = n
	res.Workspaces = app.Workspaces.Sweep(app.Config.WorkspaceIdleTTL)
	res.RateBuckets = app.RateLimiter.Prune(rateBucketIdle)
	if res.Sessions > 0 || res.Workspaces > 0 || res.RateBuckets > 0 {
		telemetry.Info("janitor.sweep", map[string]any{
			"sessions":     res.Sessions,
			"workspaces":   res.Workspaces,
			"rate_buckets": res.RateBuckets,
		})
	}
	return res
}
