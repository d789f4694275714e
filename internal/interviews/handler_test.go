package interviews

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/llm"
)

func newTestRouter(client llm.Client) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(client)
	h := NewHandler(svc, nil)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v (body %s)", err, w.Body.String())
	}
	return payload.Error.Code
}

func TestStartSessionEndpoint(t *testing.T) {
	r, _ := newTestRouter(&fakeLLM{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/candidates/cand-1/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var session Session
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.CandidateID != "cand-1" || session.CurrentStage != 1 || session.Status != StatusPending {
		t.Errorf("session = %+v", session)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	r, _ := newTestRouter(&fakeLLM{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if code := errorCode(t, w); code != "not_found" {
		t.Errorf("code = %q", code)
	}
}

func TestInterviewActionValidation(t *testing.T) {
	r, _ := newTestRouter(&fakeLLM{})

	cases := []struct {
		name string
		body map[string]any
	}{
		{"unknown action", map[string]any{"action": "launch", "sessionId": "s"}},
		{"missing session", map[string]any{"action": "generate_questions"}},
		{"missing answers", map[string]any{"action": "evaluate_answers", "sessionId": "s", "stageOrder": 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/interview", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if code := errorCode(t, w); code != "validation_error" {
				t.Errorf("code = %q", code)
			}
		})
	}
}

func TestInterviewGenerateAndEvaluate(t *testing.T) {
	client := &fakeLLM{responses: []json.RawMessage{
		questionsJSON(t, 10), evaluationJSON(t, 85, true),
	}}
	r, svc := newTestRouter(client)
	session := mustStart(t, svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/interview", map[string]any{
		"action":     "generate_questions",
		"sessionId":  session.ID,
		"stageOrder": 1,
		"candidateProfile": map[string]any{
			"name": "Ada", "role": "Backend Engineer",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body %s", w.Code, w.Body.String())
	}
	var genResp struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &genResp); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}
	if len(genResp.Questions) != 10 {
		t.Fatalf("got %d questions", len(genResp.Questions))
	}

	answers := make([]string, 10)
	for i := range answers {
		answers[i] = fmt.Sprintf("answer %d", i+1)
	}
	w = doJSON(t, r, http.MethodPost, "/api/v1/interview", map[string]any{
		"action":     "evaluate_answers",
		"sessionId":  session.ID,
		"stageOrder": 1,
		"answers":    answers,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("evaluate status = %d, body %s", w.Code, w.Body.String())
	}
	var outcome Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if outcome.Evaluation.OverallScore != 85 || !outcome.Evaluation.Passed {
		t.Errorf("evaluation = %+v", outcome.Evaluation)
	}
	if outcome.Session.CurrentStage != 2 {
		t.Errorf("currentStage = %d, want 2", outcome.Session.CurrentStage)
	}
}

func TestInterviewRepeatEvaluationConflict(t *testing.T) {
	client := &fakeLLM{responses: []json.RawMessage{
		questionsJSON(t, 10), evaluationJSON(t, 85, true),
	}}
	r, svc := newTestRouter(client)
	session := mustStart(t, svc)
	runStage(t, svc, session.ID, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/interview", map[string]any{
		"action":     "evaluate_answers",
		"sessionId":  session.ID,
		"stageOrder": 1,
		"answers":    []string{"again"},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != "stage_already_evaluated" {
		t.Errorf("code = %q", code)
	}
}

func TestEvaluateBeforeGenerationNotFound(t *testing.T) {
	r, svc := newTestRouter(&fakeLLM{})
	session := mustStart(t, svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/interview", map[string]any{
		"action":     "evaluate_answers",
		"sessionId":  session.ID,
		"stageOrder": 1,
		"answers":    []string{"a"},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != "stage_not_started" {
		t.Fatalf("code = %q, want stage_not_started", code)
	}
}

func TestInterviewErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"rate limited", llm.ErrRateLimited, http.StatusTooManyRequests},
		{"quota exhausted", llm.ErrQuotaExhausted, http.StatusPaymentRequired},
		{"generic ai failure", fmt.Errorf("inference: status 500"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeLLM{
				responses: []json.RawMessage{questionsJSON(t, 10), nil},
				errs:      []error{nil, tc.err},
			}
			r, svc := newTestRouter(client)
			session := mustStart(t, svc)
			if _, _, err := svc.GenerateQuestions(context.Background(), session.ID, 1, CandidateProfile{}); err != nil {
				t.Fatalf("GenerateQuestions: %v", err)
			}

			w := doJSON(t, r, http.MethodPost, "/api/v1/interview", map[string]any{
				"action":     "evaluate_answers",
				"sessionId":  session.ID,
				"stageOrder": 1,
				"answers":    []string{"a"},
			})
			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestInterviewUnknownStageOrder(t *testing.T) {
	r, svc := newTestRouter(&fakeLLM{})
	session := mustStart(t, svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/interview", map[string]any{
		"action":     "generate_questions",
		"sessionId":  session.ID,
		"stageOrder": 99,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUploadRecordingUnconfigured(t *testing.T) {
	r, svc := newTestRouter(&fakeLLM{})
	session := mustStart(t, svc)

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+session.ID+"/recordings", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestListSessionsEndpoint(t *testing.T) {
	r, svc := newTestRouter(&fakeLLM{})
	mustStart(t, svc)
	mustStart(t, svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/candidates/cand-1/sessions?limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Sessions []Session `json:"sessions"`
		Limit    int       `json:"limit"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Sessions) != 1 || resp.Limit != 1 {
		t.Errorf("sessions = %d, limit = %d", len(resp.Sessions), resp.Limit)
	}
}
