package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resumeiq/internal/shared/auth"
	"resumeiq/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		SetIdentity(c, auth.Identity{SessionID: "sess-1", UserID: "google:1"})
		c.Next()
	}, Logging())
	router.POST("/compare", func(c *gin.Context) {
		c.Set(WorkflowKey, "compare")
		c.Status(http.StatusSeeOther)
	})

	req := httptest.NewRequest(http.MethodPost, "/compare", nil)
	req.Header.Set("X-Request-Id", "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	for _, key := range []string{"request_id", "user_id", "session_id", "workflow", "duration_ms", "status"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["request_id"] != "req-42" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["user_id"] != "google:1" || payload["session_id"] != "sess-1" {
		t.Fatalf("unexpected identity fields: %v", payload)
	}
	if payload["workflow"] != "compare" {
		t.Fatalf("unexpected workflow: %v", payload["workflow"])
	}
}
