// Package apiclient talks to the external résumé analysis API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"resumeiq/internal/resume"
	"resumeiq/internal/shared/metrics"
	"resumeiq/internal/shared/util"
	"resumeiq/internal/upload"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:5000"

	analyzePath = "/api/resume/analyze"
	comparePath = "/api/resume/compare"
	healthPath  = "/health"

	// ResumeField is the multipart field carrying the résumé file.
	ResumeField = "resume"

	FallbackAnalyzeMessage = "Failed to analyze resume"
	FallbackCompareMessage = "Failed to compare resume"
	FallbackHealthMessage  = "Health check failed"

	maxErrorBody = 1 << 20
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// APIError is a non-2xx response from the analysis API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resume api: status %d: %s", e.StatusCode, e.Message)
}

// UserMessage is the message to show in the dashboard.
func (e *APIError) UserMessage() string { return e.Message }

// Client calls the analysis API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client. An empty baseURL falls back to DefaultBaseURL and a
// nil httpClient to one with the given timeout (zero means none).
func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// BaseURL returns the configured API base.
func (c *Client) BaseURL() string { return c.baseURL }

// Analyze uploads the résumé as multipart field "resume".
func (c *Client) Analyze(ctx context.Context, file upload.File) (resume.AnalyzeResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	name, err := util.SanitizeFileName(file.Name)
	if err != nil {
		name = "resume.pdf"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, ResumeField, quoteEscaper.Replace(name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return resume.AnalyzeResult{}, fmt.Errorf("resume api: build multipart: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return resume.AnalyzeResult{}, fmt.Errorf("resume api: build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return resume.AnalyzeResult{}, fmt.Errorf("resume api: build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, &body)
	if err != nil {
		return resume.AnalyzeResult{}, fmt.Errorf("resume api: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out resume.AnalyzeResult
	if err := c.do(req, "analyze", FallbackAnalyzeMessage, &out); err != nil {
		return resume.AnalyzeResult{}, err
	}
	return out, nil
}

// Compare sends the résumé text and job description.
func (c *Client) Compare(ctx context.Context, resumeText, jobDescription string) (resume.CompareResult, error) {
	payload, err := json.Marshal(resume.CompareRequest{ResumeText: resumeText, JobDescription: jobDescription})
	if err != nil {
		return resume.CompareResult{}, fmt.Errorf("resume api: encode compare: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+comparePath, bytes.NewReader(payload))
	if err != nil {
		return resume.CompareResult{}, fmt.Errorf("resume api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out resume.CompareResult
	if err := c.do(req, "compare", FallbackCompareMessage, &out); err != nil {
		return resume.CompareResult{}, err
	}
	return out, nil
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) (resume.HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return resume.HealthStatus{}, fmt.Errorf("resume api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var out resume.HealthStatus
	if err := c.do(req, "health", FallbackHealthMessage, &out); err != nil {
		return resume.HealthStatus{}, err
	}
	return out, nil
}

func (c *Client) do(req *http.Request, op, fallback string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveUpstreamDurationMs(op, float64(time.Since(start).Microseconds())/1000.0)
	if err != nil {
		return fmt.Errorf("resume api %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw, fallback)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("resume api %s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage pulls a readable message out of an error body. It accepts
// {"error":"..."}, {"error":{"message":"..."}} and {"message":"..."}.
func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message any             `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	if len(body.Error) > 0 {
		var s string
		if err := json.Unmarshal(body.Error, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
			return nested.Message
		}
	}
	if s, ok := body.Message.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
