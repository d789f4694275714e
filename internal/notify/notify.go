package notify

import (
	"context"
	"errors"
)

// Invitation is the payload for a stage invitation or completion email.
type Invitation struct {
	CandidateEmail   string `json:"candidateEmail"`
	CandidateName    string `json:"candidateName"`
	SessionID        string `json:"sessionId"`
	StageOrder       int    `json:"stageOrder"`
	StageName        string `json:"stageName"`
	StageDescription string `json:"stageDescription"`
	// Completed marks the pipeline-finished notice instead of a stage invite.
	Completed bool `json:"completed"`
}

// Dispatcher delivers candidate notifications. Dispatch is fire-and-forget
// from the progression controller's perspective; failures are logged by the
// caller and never block session advancement.
type Dispatcher interface {
	SendStageInvitation(ctx context.Context, inv Invitation) error
}

// ErrNotConfigured is returned by the placeholder dispatcher.
var ErrNotConfigured = errors.New("notification dispatch not configured")

// PlaceholderDispatcher is a stub for environments without email wiring.
type PlaceholderDispatcher struct{}

// SendStageInvitation returns ErrNotConfigured.
func (PlaceholderDispatcher) SendStageInvitation(ctx context.Context, inv Invitation) error {
	_ = ctx
	_ = inv
	return ErrNotConfigured
}
