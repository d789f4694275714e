package candidates

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

const maxResumeSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the candidates service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates", h.create)
	rg.GET("/candidates", h.list)
	rg.GET("/candidates/:id", h.get)
	rg.PUT("/candidates/:id", h.update)
	rg.POST("/candidates/:id/resume", h.uploadResume)
	rg.GET("/candidates/:id/resume-text", h.resumeText)
}

type candidateRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	ExperienceLevel string   `json:"experienceLevel"`
	Skills          []string `json:"skills"`
	Qualifications  []string `json:"qualifications"`
}

func (h *Handler) create(c *gin.Context) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	candidate, err := h.Svc.Create(c.Request.Context(), Candidate{
		EmployerID:      middleware.UserIDFromContext(c),
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          req.Skills,
		Qualifications:  req.Qualifications,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "name, role and a valid email are required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create candidate", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, candidate)
}

func (h *Handler) get(c *gin.Context) {
	candidate, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCandidateError(c, err, "failed to load candidate")
		return
	}
	respond.JSON(c, http.StatusOK, candidate)
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	candidates, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list candidates", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"candidates": candidates,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *Handler) update(c *gin.Context) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	candidate, err := h.Svc.Update(c.Request.Context(), Candidate{
		ID:              c.Param("id"),
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          req.Skills,
		Qualifications:  req.Qualifications,
	})
	if err != nil {
		respondCandidateError(c, err, "failed to update candidate")
		return
	}

	respond.JSON(c, http.StatusOK, candidate)
}

func (h *Handler) uploadResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	name := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(name, ".pdf") && !strings.HasSuffix(name, ".docx") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF and DOCX resumes are supported", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer file.Close()

	candidate, err := h.Svc.UploadResume(c.Request.Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		respondCandidateError(c, err, "failed to store resume")
		return
	}

	respond.JSON(c, http.StatusCreated, candidate)
}

func (h *Handler) resumeText(c *gin.Context) {
	text, err := h.Svc.ResumeText(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNoResume) {
			respond.Error(c, http.StatusNotFound, "not_found", "candidate has no resume", nil)
			return
		}
		respondCandidateError(c, err, "failed to load resume text")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"text": text})
}

func respondCandidateError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "name, role and a valid email are required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
