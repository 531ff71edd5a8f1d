package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"resumeiq/internal/apiclient"
	"resumeiq/internal/services/health"
	"resumeiq/internal/shared/config"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the analysis API is reachable",
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 5*time.Second, "Probe timeout")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	return probe(cmd.Context(), cmd, apiclient.New(cfg.APIBaseURL, nil, 0), probeTimeout)
}

func probe(ctx context.Context, cmd *cobra.Command, api health.UpstreamProber, timeout time.Duration) error {
	svc := health.NewService(api, nil)
	svc.ProbeTimeout = timeout
	report := svc.UpstreamStatus(ctx)
	if !report.OK {
		return fmt.Errorf("analysis API unreachable: %s", report.Error)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "status=%s latency=%.1fms\n", report.Status, report.LatencyMs)
	return nil
}
