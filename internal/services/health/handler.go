package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeiq/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the public liveness route.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.local)
}

// RegisterAPIRoutes attaches the authenticated upstream probe.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/upstream/health", h.upstream)
}

func (h *Handler) local(c *gin.Context) {
	report := h.Svc.Status(c.Request.Context())
	status := http.StatusOK
	if !report.OK {
		status = http.StatusServiceUnavailable
	}
	respond.JSON(c, status, report)
}

func (h *Handler) upstream(c *gin.Context) {
	report := h.Svc.UpstreamStatus(c.Request.Context())
	if !report.OK {
		respond.Error(c, http.StatusBadGateway, "upstream_unavailable", report.Error, report)
		return
	}
	respond.OK(c, report)
}
