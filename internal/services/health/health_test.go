package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeiq/internal/resume"
)

type fakeProber struct {
	status string
	err    error
}

func (f fakeProber) Health(ctx context.Context) (resume.HealthStatus, error) {
	return resume.HealthStatus{Status: f.status}, f.err
}

func router(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	h.RegisterRoutes(r)
	h.RegisterAPIRoutes(r.Group("/api"))
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLocalStatusWithoutDatabase(t *testing.T) {
	rec := get(router(NewService(nil, nil)), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"database":"memory"}`, rec.Body.String())
}

func TestLocalStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	rec := get(router(NewService(nil, db)), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"database":"ok"}`, rec.Body.String())

	mock.ExpectPing().WillReturnError(errors.New("down"))
	rec = get(router(NewService(nil, db)), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpstreamProbe(t *testing.T) {
	rec := get(router(NewService(fakeProber{status: "ok"}, nil)), "/api/upstream/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = get(router(NewService(fakeProber{err: errors.New("connection refused")}, nil)), "/api/upstream/health")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream_unavailable")
	assert.Contains(t, rec.Body.String(), "connection refused")
}
