package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/candidates"
	"interview-backend/internal/interviews"
)

func TestAccountSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)

	candidatesRepo := candidates.NewMemoryRepo()
	sessionsRepo := interviews.NewMemoryRepo()
	svc := NewService(candidatesRepo, sessionsRepo, nil)
	handler := NewHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	now := time.Now().UTC()
	seed := []struct {
		id       string
		employer string
	}{
		{"cand-1", "user-1"},
		{"cand-2", "user-1"},
		{"cand-other", "user-2"},
	}
	for _, s := range seed {
		err := candidatesRepo.Create(context.Background(), candidates.Candidate{
			ID:         s.id,
			EmployerID: s.employer,
			Name:       "Candidate " + s.id,
			Email:      s.id + "@example.com",
			Role:       "Backend Engineer",
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			t.Fatalf("create candidate: %v", err)
		}
	}

	score := 82.0
	completedAt := now
	sessions := []interviews.Session{
		{ID: "s-1", CandidateID: "cand-1", CurrentStage: 2, Status: interviews.StatusInProgress, CreatedAt: now, UpdatedAt: now},
		{ID: "s-2", CandidateID: "cand-2", CurrentStage: 3, Status: interviews.StatusCompleted, OverallScore: &score, CompletedAt: &completedAt, CreatedAt: now, UpdatedAt: now},
		{ID: "s-3", CandidateID: "cand-2", CurrentStage: 1, Status: interviews.StatusPending, CreatedAt: now, UpdatedAt: now},
		{ID: "s-4", CandidateID: "cand-other", CurrentStage: 1, Status: interviews.StatusPending, CreatedAt: now, UpdatedAt: now},
	}
	for _, session := range sessions {
		if err := sessionsRepo.CreateSession(context.Background(), session); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/summary", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var summary Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Candidates != 2 {
		t.Errorf("candidates = %d, want 2 (other employers excluded)", summary.Candidates)
	}
	if summary.Sessions != 3 {
		t.Errorf("sessions = %d, want 3 (other employers excluded)", summary.Sessions)
	}
	if summary.SessionsPending != 1 || summary.SessionsActive != 1 || summary.SessionsCompleted != 1 {
		t.Errorf("status tallies = %d/%d/%d", summary.SessionsPending, summary.SessionsActive, summary.SessionsCompleted)
	}
	if summary.AverageScore == nil || *summary.AverageScore != 82.0 {
		t.Errorf("average score = %v, want 82.0", summary.AverageScore)
	}
}
