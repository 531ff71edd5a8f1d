package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeiq/internal/bootstrap"
	"resumeiq/internal/resume"
	"resumeiq/internal/shared/config"
)

type stubProber struct {
	err error
}

func (s stubProber) Health(ctx context.Context) (resume.HealthStatus, error) {
	return resume.HealthStatus{Status: "ok"}, s.err
}

func TestProbe(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, probe(context.Background(), cmd, stubProber{}, time.Second))
	assert.Contains(t, out.String(), "status=ok")

	err := probe(context.Background(), cmd, stubProber{err: errors.New("refused")}, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "probe"} {
		assert.True(t, names[want], want)
	}
}

func TestSweepOnce(t *testing.T) {
	app, err := bootstrap.Build(context.Background(), config.Config{
		Env:              "dev",
		APIBaseURL:       "http://localhost:5000",
		SessionSecret:    "dev-secret-123",
		SessionTTL:       time.Hour,
		SessionCookie:    "resumeiq_session",
		WorkspaceIdleTTL: time.Nanosecond,
		MaxUploadBytes:   5 << 20,
		UploadAccept:     "application/pdf",
	})
	require.NoError(t, err)
	defer app.Close()

	app.Workspaces.Get("sess-1")
	time.Sleep(time.Millisecond)
	res := sweepOnce(context.Background(), app)
	assert.Equal(t, 1, res.Workspaces)
	assert.Zero(t, app.Workspaces.Len())
}
