package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeiq/internal/shared/server/middleware"
	"resumeiq/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me returns the session object: {"user": {"name", "email", "id"}}.
func (h *Handler) me(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	if h.Svc != nil {
		user, err := h.Svc.GetByID(c.Request.Context(), ident.UserID)
		switch {
		case err == nil:
			ident.Name = user.DisplayName()
			ident.Email = user.Email
			ident.Picture = user.PictureURL
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
			return
		}
	}
	respond.OK(c, gin.H{"user": ident})
}
