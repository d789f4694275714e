package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEmailDispatcherSendsInvitation(t *testing.T) {
	var got emailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d, err := NewEmailDispatcher(srv.URL, "key-123", "talent@example.com")
	if err != nil {
		t.Fatalf("NewEmailDispatcher: %v", err)
	}

	err = d.SendStageInvitation(context.Background(), Invitation{
		CandidateEmail:   "jordan@example.com",
		CandidateName:    "Jordan",
		SessionID:        "sess-1",
		StageOrder:       2,
		StageName:        "Demo Round",
		StageDescription: "Walk through a project you shipped.",
	})
	if err != nil {
		t.Fatalf("SendStageInvitation: %v", err)
	}

	if auth != "Bearer key-123" {
		t.Fatalf("auth header = %q", auth)
	}
	if got.To != "jordan@example.com" || got.From != "talent@example.com" {
		t.Fatalf("unexpected addressing: %+v", got)
	}
	if !strings.Contains(got.Subject, "Demo Round") {
		t.Fatalf("subject = %q", got.Subject)
	}
	if !strings.Contains(got.Text, "Walk through a project you shipped.") {
		t.Fatalf("body = %q", got.Text)
	}
	if !strings.Contains(got.Text, "sess-1") {
		t.Fatalf("expected session id in body, got %q", got.Text)
	}
}

func TestEmailDispatcherCompletionNotice(t *testing.T) {
	var got emailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d, err := NewEmailDispatcher(srv.URL, "key-123", "")
	if err != nil {
		t.Fatalf("NewEmailDispatcher: %v", err)
	}

	err = d.SendStageInvitation(context.Background(), Invitation{
		CandidateEmail: "jordan@example.com",
		SessionID:      "sess-2",
		Completed:      true,
	})
	if err != nil {
		t.Fatalf("SendStageInvitation: %v", err)
	}

	if got.Subject != "Your interview is complete" {
		t.Fatalf("subject = %q", got.Subject)
	}
	if got.From != "no-reply@interviews.local" {
		t.Fatalf("expected default from address, got %q", got.From)
	}
	if !strings.Contains(got.Text, "completed all interview stages") {
		t.Fatalf("body = %q", got.Text)
	}
}

func TestEmailDispatcherNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d, err := NewEmailDispatcher(srv.URL, "key-123", "talent@example.com")
	if err != nil {
		t.Fatalf("NewEmailDispatcher: %v", err)
	}

	err = d.SendStageInvitation(context.Background(), Invitation{CandidateEmail: "jordan@example.com"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestEmailDispatcherEmptyRecipient(t *testing.T) {
	d, err := NewEmailDispatcher("http://localhost:0", "key-123", "talent@example.com")
	if err != nil {
		t.Fatalf("NewEmailDispatcher: %v", err)
	}
	if err := d.SendStageInvitation(context.Background(), Invitation{}); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}

func TestNewEmailDispatcherRequiresConfig(t *testing.T) {
	if _, err := NewEmailDispatcher("", "key", "from@example.com"); err == nil {
		t.Fatal("expected error for missing api url")
	}
	if _, err := NewEmailDispatcher("http://localhost", "", "from@example.com"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
