package candidates

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(store))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
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

func createCandidate(t *testing.T, r *gin.Engine) Candidate {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/candidates", gin.H{
		"name":  "Jordan Lee",
		"email": "jordan@example.com",
		"role":  "Backend Engineer",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var candidate Candidate
	if err := json.Unmarshal(w.Body.Bytes(), &candidate); err != nil {
		t.Fatalf("decode candidate: %v", err)
	}
	return candidate
}

func TestCreateCandidateEndpoint(t *testing.T) {
	r := newTestRouter(newFakeStore(extractDocxMime))
	candidate := createCandidate(t, r)
	if candidate.ID == "" || candidate.Name != "Jordan Lee" {
		t.Fatalf("unexpected candidate: %+v", candidate)
	}
}

func TestCreateCandidateValidation(t *testing.T) {
	r := newTestRouter(newFakeStore(extractDocxMime))

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "jordan@example.com", "role": "Engineer"}},
		{"bad email", gin.H{"name": "Jordan", "email": "nope", "role": "Engineer"}},
		{"missing role", gin.H{"name": "Jordan", "email": "jordan@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/candidates", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if code := errorCode(t, w); code != "validation_error" {
				t.Fatalf("code = %q", code)
			}
		})
	}
}

func TestGetCandidateNotFound(t *testing.T) {
	r := newTestRouter(newFakeStore(extractDocxMime))
	w := doJSON(t, r, http.MethodGet, "/api/v1/candidates/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if code := errorCode(t, w); code != "not_found" {
		t.Fatalf("code = %q", code)
	}
}

func TestUpdateCandidateEndpoint(t *testing.T) {
	r := newTestRouter(newFakeStore(extractDocxMime))
	candidate := createCandidate(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/v1/candidates/"+candidate.ID, gin.H{
		"name":  "Jordan Lee",
		"email": "jordan@example.com",
		"role":  "Staff Engineer",
		"skills": []string{
			"Go", "PostgreSQL",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var updated Candidate
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode candidate: %v", err)
	}
	if updated.Role != "Staff Engineer" || len(updated.Skills) != 2 {
		t.Fatalf("unexpected candidate: %+v", updated)
	}
}

func uploadResume(t *testing.T, r *gin.Engine, candidateID, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/"+candidateID+"/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadResumeEndpoint(t *testing.T) {
	store := newFakeStore(extractDocxMime)
	r := newTestRouter(store)
	candidate := createCandidate(t, r)

	w := uploadResume(t, r, candidate.ID, "resume.docx", docxBytes(t, "Ran the data platform."))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var updated Candidate
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode candidate: %v", err)
	}
	if updated.ResumeKey == "" {
		t.Fatalf("expected resume key, got %+v", updated)
	}

	text := doJSON(t, r, http.MethodGet, "/api/v1/candidates/"+candidate.ID+"/resume-text", nil)
	if text.Code != http.StatusOK {
		t.Fatalf("resume-text status = %d, body %s", text.Code, text.Body.String())
	}
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(text.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode text payload: %v", err)
	}
	if payload.Text == "" {
		t.Fatal("expected extracted text")
	}
}

func TestUploadResumeRejectsExtension(t *testing.T) {
	r := newTestRouter(newFakeStore(extractDocxMime))
	candidate := createCandidate(t, r)

	w := uploadResume(t, r, candidate.ID, "resume.exe", []byte("not a resume"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if code := errorCode(t, w); code != "validation_error" {
		t.Fatalf("code = %q", code)
	}
}

func TestResumeTextBeforeUpload(t *testing.T) {
	r := newTestRouter(newFakeStore(extractDocxMime))
	candidate := createCandidate(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/v1/candidates/"+candidate.ID+"/resume-text", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
