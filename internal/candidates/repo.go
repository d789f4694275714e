package candidates

import (
	"context"
	"time"
)

// CandidatesRepo defines persistence operations for candidates.
type CandidatesRepo interface {
	Create(ctx context.Context, candidate Candidate) error
	GetByID(ctx context.Context, candidateID string) (Candidate, error)
	List(ctx context.Context, limit, offset int) ([]Candidate, error)
	UpdateProfile(ctx context.Context, candidate Candidate) error
	UpdateResume(ctx context.Context, candidateID, resumeKey, mimeType, textKey string, parsedAt time.Time) error
}
