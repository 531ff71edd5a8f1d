// Package dashboard serves the analyze and compare views.
package dashboard

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeiq/internal/apiclient"
	"resumeiq/internal/extract"
	"resumeiq/internal/shared/metrics"
	"resumeiq/internal/shared/server/middleware"
	"resumeiq/internal/shared/server/respond"
	"resumeiq/internal/shared/telemetry"
	"resumeiq/internal/upload"
	"resumeiq/internal/workflow"
)

// Inspector reads local details of an accepted PDF.
type Inspector func(ctx context.Context, data []byte) (extract.Info, error)

// Handler wires the dashboard routes to the session workspaces.
type Handler struct {
	Registry *workflow.Registry
	Inspect  Inspector
	// BaseContext outlives single requests; workflow calls run under it.
	BaseContext context.Context
}

// NewHandler constructs a Handler.
func NewHandler(registry *workflow.Registry, base context.Context) *Handler {
	if base == nil {
		base = context.Background()
	}
	return &Handler{Registry: registry, Inspect: extract.Inspect, BaseContext: base}
}

// RegisterRoutes attaches the HTML routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.index)
	r.POST("/analyze/select", h.selectFile)
	r.POST("/analyze", h.analyze)
	r.POST("/compare", h.compare)
	r.POST("/compare/use-analyzed", h.useAnalyzed)
}

// RegisterAPIRoutes attaches the JSON routes.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/workspace", h.workspace)
}

// IsSubmitRoute reports whether the request starts or changes a workflow.
// The router uses it to pick the SUBMIT rate limit group.
func IsSubmitRoute(c *gin.Context) bool {
	if c.Request.Method != http.MethodPost {
		return false
	}
	switch c.Request.URL.Path {
	case "/analyze", "/analyze/select", "/compare":
		return true
	}
	return false
}

func (h *Handler) session(c *gin.Context) *workflow.Workspace {
	return h.Registry.Get(middleware.SessionIDFromContext(c))
}

func (h *Handler) index(c *gin.Context) {
	ws := h.session(c)
	tab := ws.Active()
	if q := c.Query("tab"); q != "" {
		tab = workflow.ParseTab(q)
	}
	ws.Navigate(tab)

	ident, _ := middleware.IdentityFromContext(c)
	c.HTML(http.StatusOK, "dashboard", buildPage(ws, tab, ident))
}

func (h *Handler) selectFile(c *gin.Context) {
	c.Set(middleware.WorkflowKey, metrics.WorkflowAnalyze)
	ws := h.session(c)
	ws.Navigate(workflow.TabAnalyze)
	gate := ws.Analyze.Gate()

	// Leave room for the multipart envelope and let the gate reject
	// anything over its own limit with the proper message.
	bodyLimit := 2*gate.MaxSize() + 64<<10
	if c.Request.ContentLength > bodyLimit {
		_ = ws.Analyze.Select(upload.File{Size: c.Request.ContentLength})
		redirectTo(c, workflow.TabAnalyze)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)

	fileHeader, err := c.FormFile(apiclient.ResumeField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = ws.Analyze.Select(upload.File{Size: tooLarge.Limit + 1})
		}
		redirectTo(c, workflow.TabAnalyze)
		return
	}

	f := upload.File{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	if f.Size <= gate.MaxSize() {
		data, err := readFile(fileHeader)
		if err != nil {
			telemetry.Warn("upload.read_failed", map[string]any{"error": err})
			redirectTo(c, workflow.TabAnalyze)
			return
		}
		f.Data = data
		f.ContentType = upload.DetectContentType(f.ContentType, data)
		if h.Inspect != nil {
			if info, err := h.Inspect(c.Request.Context(), data); err == nil {
				f.Pages = info.Pages
				if !info.HasText() {
					telemetry.Warn("upload.no_text", map[string]any{"pages": info.Pages})
				}
			}
		}
	}

	if err := ws.Analyze.Select(f); err != nil {
		var verr *upload.ValidationError
		if errors.As(err, &verr) {
			telemetry.Info("upload.rejected", map[string]any{
				"reason": string(verr.Reason),
				"size":   f.Size,
				"type":   f.ContentType,
			})
		}
	}
	redirectTo(c, workflow.TabAnalyze)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Set(middleware.WorkflowKey, metrics.WorkflowAnalyze)
	ws := h.session(c)
	ws.Navigate(workflow.TabAnalyze)
	if err := ws.Analyze.Start(h.BaseContext); err != nil && !errors.Is(err, workflow.ErrNoFile) {
		telemetry.Info("workflow.submit_ignored", map[string]any{"workflow": metrics.WorkflowAnalyze, "error": err})
	}
	redirectTo(c, workflow.TabAnalyze)
}

func (h *Handler) compare(c *gin.Context) {
	c.Set(middleware.WorkflowKey, metrics.WorkflowCompare)
	ws := h.session(c)
	ws.Navigate(workflow.TabCompare)
	err := ws.Compare.Start(h.BaseContext, c.PostForm("resumeText"), c.PostForm("jobDescription"))
	if err != nil && !errors.Is(err, workflow.ErrMissingInput) {
		telemetry.Info("workflow.submit_ignored", map[string]any{"workflow": metrics.WorkflowCompare, "error": err})
	}
	redirectTo(c, workflow.TabCompare)
}

func (h *Handler) useAnalyzed(c *gin.Context) {
	c.Set(middleware.WorkflowKey, metrics.WorkflowCompare)
	ws := h.session(c)
	ws.Navigate(workflow.TabCompare)
	ws.Compare.UseAnalyzed()
	redirectTo(c, workflow.TabCompare)
}

func (h *Handler) workspace(c *gin.Context) {
	respond.OK(c, toWorkspaceResponse(h.session(c)))
}

func redirectTo(c *gin.Context, tab workflow.Tab) {
	c.Redirect(http.StatusSeeOther, "/?tab="+string(tab))
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
