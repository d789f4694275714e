package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/account/summary", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	employerID := middleware.UserIDFromContext(c)
	summary, err := h.Svc.Summary(c.Request.Context(), employerID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build summary", nil)
		return
	}
	respond.JSON(c, http.StatusOK, summary)
}
