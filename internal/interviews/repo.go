package interviews

import (
	"context"
	"time"
)

// StageCompletion carries everything persisted when a stage evaluation lands.
// The repository applies it atomically together with the session advance.
type StageCompletion struct {
	StageName       string
	Answers         []string
	Evaluation      Evaluation
	RecordingKey    string
	CompletedAt     time.Time
	LastStage       bool
	ClosingFeedback string
}

// Repo defines persistence operations for interview sessions and stage results.
type Repo interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	ListSessionsByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]Session, error)
	MarkSessionInProgress(ctx context.Context, sessionID string) error

	CreateStageResult(ctx context.Context, result StageResult) error
	GetStageResult(ctx context.Context, sessionID string, stageOrder int) (StageResult, error)
	ListStageResults(ctx context.Context, sessionID string) ([]StageResult, error)

	// CompleteStage updates the stage result and advances the session in a
	// single transaction. It fails with ErrStageEvaluated if the stage result
	// already has a completion timestamp, and with ErrSessionCompleted if the
	// session is already closed. On the last stage it computes the overall
	// score as the mean of all stage scores and completes the session.
	CompleteStage(ctx context.Context, sessionID string, stageOrder int, completion StageCompletion) (Session, error)
}
