package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EmailDispatcher sends invitations through a transactional email HTTP API.
type EmailDispatcher struct {
	apiURL     string
	apiKey     string
	fromAddr   string
	httpClient *http.Client
}

// NewEmailDispatcher constructs an EmailDispatcher.
func NewEmailDispatcher(apiURL, apiKey, fromAddr string) (*EmailDispatcher, error) {
	if strings.TrimSpace(apiURL) == "" {
		return nil, fmt.Errorf("EMAIL_API_URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("EMAIL_API_KEY is required")
	}
	if strings.TrimSpace(fromAddr) == "" {
		fromAddr = "no-reply@interviews.local"
	}
	return &EmailDispatcher{
		apiURL:   apiURL,
		apiKey:   apiKey,
		fromAddr: fromAddr,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type emailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendStageInvitation posts one email to the transactional API. Non-2xx
// responses surface as errors; the caller decides whether to log or retry.
func (d *EmailDispatcher) SendStageInvitation(ctx context.Context, inv Invitation) error {
	if strings.TrimSpace(inv.CandidateEmail) == "" {
		return fmt.Errorf("candidate email is empty")
	}

	payload, err := json.Marshal(emailRequest{
		From:    d.fromAddr,
		To:      inv.CandidateEmail,
		Subject: subjectFor(inv),
		Text:    bodyFor(inv),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("email send status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func subjectFor(inv Invitation) string {
	if inv.Completed {
		return "Your interview is complete"
	}
	return fmt.Sprintf("Next interview stage: %s", inv.StageName)
}

func bodyFor(inv Invitation) string {
	name := strings.TrimSpace(inv.CandidateName)
	if name == "" {
		name = "there"
	}
	if inv.Completed {
		return fmt.Sprintf(
			"Hi %s,\n\nYou have completed all interview stages. Our team will review your results and be in touch.\n",
			name,
		)
	}
	return fmt.Sprintf(
		"Hi %s,\n\nYou have advanced to the next interview stage: %s.\n\n%s\n\nLog in to continue your interview (session %s).\n",
		name,
		inv.StageName,
		inv.StageDescription,
		inv.SessionID,
	)
}

var _ Dispatcher = (*EmailDispatcher)(nil)
