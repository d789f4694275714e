package interviews

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/llm"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
	"interview-backend/internal/shared/storage/object"
	"interview-backend/internal/stages"
	"interview-backend/internal/usage"
)

const maxRecordingBytes = 100 << 20

// Handler wires HTTP handlers to the interview service.
type Handler struct {
	Svc        *Service
	Recordings object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, recordings object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Recordings: recordings}
}

// RegisterRoutes attaches session and interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/:id/sessions", h.startSession)
	rg.GET("/candidates/:id/sessions", h.listSessions)
	rg.GET("/sessions/:id", h.getSession)
	rg.GET("/sessions/:id/results", h.listResults)
	rg.POST("/sessions/:id/recordings", h.uploadRecording)
	rg.POST("/interview", h.interview)
}

type interviewRequest struct {
	Action           string            `json:"action"`
	SessionID        string            `json:"sessionId"`
	StageOrder       int               `json:"stageOrder"`
	CandidateProfile *CandidateProfile `json:"candidateProfile,omitempty"`
	Answers          []string          `json:"answers,omitempty"`
	RecordingKey     string            `json:"recordingKey,omitempty"`
}

func (h *Handler) startSession(c *gin.Context) {
	candidateID := c.Param("id")
	if candidateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidate id is required", nil)
		return
	}

	session, err := h.Svc.StartSession(c.Request.Context(), candidateID, middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, usage.ErrLimitReached) {
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your interview session limit. Upgrade your plan to continue.", []map[string]string{
				{"field": "usage", "issue": "limit_reached"},
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start session", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, session)
}

func (h *Handler) getSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session id is required", nil)
		return
	}

	session, err := h.Svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load session", nil)
		return
	}

	respond.JSON(c, http.StatusOK, session)
}

func (h *Handler) listSessions(c *gin.Context) {
	candidateID := c.Param("id")
	if candidateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidate id is required", nil)
		return
	}
	limit := parseIntDefault(c.Query("limit"), 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := parseIntDefault(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	sessions, err := h.Svc.List(c.Request.Context(), candidateID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list sessions", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) listResults(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session id is required", nil)
		return
	}

	results, err := h.Svc.Results(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list results", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"results": results})
}

// interview is the single action endpoint driving the stage pipeline.
func (h *Handler) interview(c *gin.Context) {
	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.SessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sessionId is required", nil)
		return
	}

	switch req.Action {
	case "generate_questions":
		h.generateQuestions(c, req)
	case "evaluate_answers":
		h.evaluateAnswers(c, req)
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "action must be generate_questions or evaluate_answers", nil)
	}
}

func (h *Handler) generateQuestions(c *gin.Context, req interviewRequest) {
	profile := CandidateProfile{}
	if req.CandidateProfile != nil {
		profile = *req.CandidateProfile
	}

	questions, def, err := h.Svc.GenerateQuestions(c.Request.Context(), req.SessionID, req.StageOrder, profile)
	if err != nil {
		respondInterviewError(c, err, "failed to generate questions")
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"stage":     def,
		"questions": questions,
	})
}

func (h *Handler) evaluateAnswers(c *gin.Context, req interviewRequest) {
	if len(req.Answers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "answers are required", nil)
		return
	}

	outcome, err := h.Svc.SubmitAnswers(c.Request.Context(), req.SessionID, req.StageOrder, req.Answers, req.RecordingKey)
	if err != nil {
		respondInterviewError(c, err, "failed to evaluate answers")
		return
	}

	respond.JSON(c, http.StatusOK, outcome)
}

func (h *Handler) uploadRecording(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "session id is required", nil)
		return
	}
	if h.Recordings == nil {
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "recording storage is not configured", nil)
		return
	}

	if _, err := h.Svc.Get(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load session", nil)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if file.Size > maxRecordingBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "recording exceeds the 100MB limit", nil)
		return
	}
	ext := strings.ToLower(path.Ext(file.Filename))
	switch ext {
	case ".webm", ".mp4", ".mp3", ".wav", ".m4a":
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported recording format", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer src.Close()

	key, size, mimeType, err := h.Recordings.Save(c.Request.Context(), sessionID, file.Filename, src)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store recording", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"recordingKey": key,
		"sizeBytes":    size,
		"mimeType":     mimeType,
	})
}

// respondInterviewError maps pipeline errors onto the HTTP surface.
func respondInterviewError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, stages.ErrUnknownStage):
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown stage order", nil)
	case errors.Is(err, ErrSessionNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, ErrSessionCompleted):
		respond.Error(c, http.StatusBadRequest, "validation_error", "session is already completed", nil)
	case errors.Is(err, ErrStageNotCurrent):
		respond.Error(c, http.StatusBadRequest, "validation_error", "stage is not the session's current stage", nil)
	case errors.Is(err, ErrStageNotStarted):
		respond.Error(c, http.StatusNotFound, "stage_not_started", "stage questions have not been generated", nil)
	case errors.Is(err, ErrStageEvaluated):
		respond.Error(c, http.StatusConflict, "stage_already_evaluated", "stage has already been evaluated", nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusTooManyRequests, "ai_rate_limited", "The AI service is rate limited. Try again shortly.", nil)
	case errors.Is(err, llm.ErrQuotaExhausted):
		respond.Error(c, http.StatusPaymentRequired, "ai_quota_exhausted", "The AI service quota is exhausted.", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "not_configured", "AI service is not configured", nil)
	case errors.Is(err, ErrAIService):
		respond.Error(c, http.StatusBadGateway, "ai_service_error", "The AI service returned an unexpected response.", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

