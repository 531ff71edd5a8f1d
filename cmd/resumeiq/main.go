// Package main is the ResumeIQ dashboard binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "resumeiq",
	Short:         "ResumeIQ resume analysis dashboard",
	Long:          "ResumeIQ serves a signed-in dashboard that sends resumes to the analysis API and renders scores, suggestions and job match results.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
