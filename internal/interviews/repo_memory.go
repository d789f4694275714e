package interviews

import (
	"context"
	"sort"
	"sync"
	"time"
)

type stageKey struct {
	sessionID  string
	stageOrder int
}

// MemoryRepo stores sessions and stage results in memory and is safe for
// concurrent use.
type MemoryRepo struct {
	mu          sync.RWMutex
	sessions    map[string]Session
	byCandidate map[string][]string
	results     map[stageKey]StageResult
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sessions:    make(map[string]Session),
		byCandidate: make(map[string][]string),
		results:     make(map[stageKey]StageResult),
	}
}

// CreateSession stores the session.
func (r *MemoryRepo) CreateSession(ctx context.Context, session Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	r.byCandidate[session.CandidateID] = append(r.byCandidate[session.CandidateID], session.ID)
	return nil
}

// GetSession returns a session by ID.
func (r *MemoryRepo) GetSession(ctx context.Context, sessionID string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// ListSessionsByCandidate returns sessions for a candidate, newest first.
func (r *MemoryRepo) ListSessionsByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byCandidate[candidateID]
	sessions := make([]Session, 0, len(ids))
	for _, id := range ids {
		sessions = append(sessions, r.sessions[id])
	}
	r.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	if offset >= len(sessions) {
		return []Session{}, nil
	}
	sessions = sessions[offset:]
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// MarkSessionInProgress transitions a pending session to in_progress.
func (r *MemoryRepo) MarkSessionInProgress(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if session.Status == StatusPending {
		session.Status = StatusInProgress
		session.UpdatedAt = time.Now().UTC()
		r.sessions[sessionID] = session
	}
	return nil
}

// CreateStageResult stores a stage result keyed by (session, stage order).
func (r *MemoryRepo) CreateStageResult(ctx context.Context, result StageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[result.SessionID]; !ok {
		return ErrSessionNotFound
	}
	r.results[stageKey{result.SessionID, result.StageOrder}] = result
	return nil
}

// GetStageResult returns the stage result for (session, stage order).
func (r *MemoryRepo) GetStageResult(ctx context.Context, sessionID string, stageOrder int) (StageResult, error) {
	if err := ctx.Err(); err != nil {
		return StageResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[stageKey{sessionID, stageOrder}]
	if !ok {
		return StageResult{}, ErrStageNotStarted
	}
	return result, nil
}

// ListStageResults returns all stage results for a session ordered by stage.
func (r *MemoryRepo) ListStageResults(ctx context.Context, sessionID string) ([]StageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []StageResult
	for key, result := range r.results {
		if key.sessionID == sessionID {
			out = append(out, result)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StageOrder < out[j].StageOrder })
	return out, nil
}

// CompleteStage applies the evaluation and advances the session under one lock,
// mirroring the transactional PG implementation.
func (r *MemoryRepo) CompleteStage(ctx context.Context, sessionID string, stageOrder int, completion StageCompletion) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if session.Status == StatusCompleted {
		return Session{}, ErrSessionCompleted
	}

	key := stageKey{sessionID, stageOrder}
	result, ok := r.results[key]
	if !ok {
		return Session{}, ErrStageNotStarted
	}
	if result.CompletedAt != nil {
		return Session{}, ErrStageEvaluated
	}

	eval := completion.Evaluation
	score := eval.OverallScore
	passed := eval.Passed
	completedAt := completion.CompletedAt

	result.Answers = completion.Answers
	result.AIScore = &score
	result.AIFeedback = eval.Feedback
	result.Passed = &passed
	result.Strengths = eval.Strengths
	result.Improvements = eval.Improvements
	result.QuestionScores = eval.QuestionScores
	result.RecordingKey = completion.RecordingKey
	result.CompletedAt = &completedAt
	r.results[key] = result

	session.StagesCompleted = append(session.StagesCompleted, completion.StageName)
	session.UpdatedAt = completedAt
	if completion.LastStage {
		var sum float64
		var n int
		for k, sr := range r.results {
			if k.sessionID == sessionID && sr.AIScore != nil {
				sum += *sr.AIScore
				n++
			}
		}
		overall := 0.0
		if n > 0 {
			overall = sum / float64(n)
		}
		session.Status = StatusCompleted
		session.OverallScore = &overall
		session.OverallFeedback = completion.ClosingFeedback
		session.CompletedAt = &completedAt
	} else {
		session.Status = StatusInProgress
		session.CurrentStage = stageOrder + 1
	}
	r.sessions[sessionID] = session

	return session, nil
}

var _ Repo = (*MemoryRepo)(nil)
