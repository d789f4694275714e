package interviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateSession inserts a new session.
func (r *PGRepo) CreateSession(ctx context.Context, session Session) error {
	const query = `
INSERT INTO interview_sessions (
	id, candidate_id, current_stage, stages_completed, status,
	overall_score, overall_feedback, completed_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	stagesCompleted, err := marshalJSONB(session.StagesCompleted)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		session.ID,
		session.CandidateID,
		session.CurrentStage,
		stagesCompleted,
		session.Status,
		session.OverallScore,
		nullString(session.OverallFeedback),
		session.CompletedAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

// GetSession returns a session by ID.
func (r *PGRepo) GetSession(ctx context.Context, sessionID string) (Session, error) {
	const query = `
SELECT id, candidate_id, current_stage, stages_completed, status,
       overall_score, overall_feedback, completed_at, created_at, updated_at
FROM interview_sessions
WHERE id = $1
LIMIT 1`
	return scanSession(r.DB.QueryRowContext(ctx, query, sessionID))
}

// ListSessionsByCandidate returns sessions for a candidate ordered newest-first.
func (r *PGRepo) ListSessionsByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]Session, error) {
	const query = `
SELECT id, candidate_id, current_stage, stages_completed, status,
       overall_score, overall_feedback, completed_at, created_at, updated_at
FROM interview_sessions
WHERE candidate_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, candidateID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

// MarkSessionInProgress transitions a pending session to in_progress.
func (r *PGRepo) MarkSessionInProgress(ctx context.Context, sessionID string) error {
	const query = `
UPDATE interview_sessions
SET status = $1, updated_at = $2
WHERE id = $3 AND status = $4`
	_, err := r.DB.ExecContext(ctx, query, StatusInProgress, time.Now().UTC(), sessionID, StatusPending)
	return err
}

// CreateStageResult inserts a stage result with evaluation fields left null.
func (r *PGRepo) CreateStageResult(ctx context.Context, result StageResult) error {
	const query = `
INSERT INTO stage_results (
	session_id, stage_order, stage_name, questions, answers,
	ai_score, ai_feedback, passed, strengths, improvements,
	question_scores, recording_key, completed_at, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	questions, err := marshalJSONB(result.Questions)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		result.SessionID,
		result.StageOrder,
		result.StageName,
		questions,
		nil,
		nil,
		nil,
		nil,
		nil,
		nil,
		nil,
		nullString(result.RecordingKey),
		nil,
		result.CreatedAt,
	)
	return err
}

// GetStageResult returns the stage result for (session, stage order).
func (r *PGRepo) GetStageResult(ctx context.Context, sessionID string, stageOrder int) (StageResult, error) {
	const query = `
SELECT session_id, stage_order, stage_name, questions, answers,
       ai_score, ai_feedback, passed, strengths, improvements,
       question_scores, recording_key, completed_at, created_at
FROM stage_results
WHERE session_id = $1 AND stage_order = $2
LIMIT 1`
	result, err := scanStageResult(r.DB.QueryRowContext(ctx, query, sessionID, stageOrder))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StageResult{}, ErrStageNotStarted
		}
		return StageResult{}, err
	}
	return result, nil
}

// ListStageResults returns all stage results for a session in stage order.
func (r *PGRepo) ListStageResults(ctx context.Context, sessionID string) ([]StageResult, error) {
	const query = `
SELECT session_id, stage_order, stage_name, questions, answers,
       ai_score, ai_feedback, passed, strengths, improvements,
       question_scores, recording_key, completed_at, created_at
FROM stage_results
WHERE session_id = $1
ORDER BY stage_order ASC`
	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StageResult
	for rows.Next() {
		result, err := scanStageResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

// CompleteStage persists the evaluation and advances the session inside one
// transaction. The session row is locked first so duplicate submissions
// serialize; the loser observes completed_at and gets ErrStageEvaluated.
func (r *PGRepo) CompleteStage(ctx context.Context, sessionID string, stageOrder int, completion StageCompletion) (Session, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	session, err := scanSession(tx.QueryRowContext(ctx, `
SELECT id, candidate_id, current_stage, stages_completed, status,
       overall_score, overall_feedback, completed_at, created_at, updated_at
FROM interview_sessions
WHERE id = $1
FOR UPDATE`, sessionID))
	if err != nil {
		return Session{}, err
	}
	if session.Status == StatusCompleted {
		return Session{}, ErrSessionCompleted
	}

	var alreadyCompleted sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT completed_at FROM stage_results WHERE session_id = $1 AND stage_order = $2`,
		sessionID, stageOrder,
	).Scan(&alreadyCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrStageNotStarted
		}
		return Session{}, err
	}
	if alreadyCompleted.Valid {
		return Session{}, ErrStageEvaluated
	}

	eval := completion.Evaluation
	answers, err := marshalJSONB(completion.Answers)
	if err != nil {
		return Session{}, err
	}
	strengths, err := marshalJSONB(eval.Strengths)
	if err != nil {
		return Session{}, err
	}
	improvements, err := marshalJSONB(eval.Improvements)
	if err != nil {
		return Session{}, err
	}
	questionScores, err := marshalJSONB(eval.QuestionScores)
	if err != nil {
		return Session{}, err
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE stage_results
SET answers = $1, ai_score = $2, ai_feedback = $3, passed = $4,
    strengths = $5, improvements = $6, question_scores = $7,
    recording_key = $8, completed_at = $9
WHERE session_id = $10 AND stage_order = $11`,
		answers,
		eval.OverallScore,
		eval.Feedback,
		eval.Passed,
		strengths,
		improvements,
		questionScores,
		nullString(completion.RecordingKey),
		completion.CompletedAt,
		sessionID,
		stageOrder,
	); err != nil {
		return Session{}, err
	}

	session.StagesCompleted = append(session.StagesCompleted, completion.StageName)
	stagesCompleted, err := marshalJSONB(session.StagesCompleted)
	if err != nil {
		return Session{}, err
	}
	session.UpdatedAt = completion.CompletedAt

	if completion.LastStage {
		var overall sql.NullFloat64
		if err := tx.QueryRowContext(ctx,
			`SELECT AVG(ai_score) FROM stage_results WHERE session_id = $1 AND ai_score IS NOT NULL`,
			sessionID,
		).Scan(&overall); err != nil {
			return Session{}, err
		}
		mean := 0.0
		if overall.Valid {
			mean = overall.Float64
		}
		completedAt := completion.CompletedAt
		session.Status = StatusCompleted
		session.OverallScore = &mean
		session.OverallFeedback = completion.ClosingFeedback
		session.CompletedAt = &completedAt

		if _, err := tx.ExecContext(ctx, `
UPDATE interview_sessions
SET stages_completed = $1, status = $2, overall_score = $3,
    overall_feedback = $4, completed_at = $5, updated_at = $6
WHERE id = $7`,
			stagesCompleted,
			StatusCompleted,
			mean,
			completion.ClosingFeedback,
			completion.CompletedAt,
			session.UpdatedAt,
			sessionID,
		); err != nil {
			return Session{}, err
		}
	} else {
		session.Status = StatusInProgress
		session.CurrentStage = stageOrder + 1

		if _, err := tx.ExecContext(ctx, `
UPDATE interview_sessions
SET stages_completed = $1, status = $2, current_stage = $3, updated_at = $4
WHERE id = $5`,
			stagesCompleted,
			StatusInProgress,
			session.CurrentStage,
			session.UpdatedAt,
			sessionID,
		); err != nil {
			return Session{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Session{}, err
	}
	return session, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var s Session
	var stagesCompleted sql.NullString
	var overallScore sql.NullFloat64
	var overallFeedback sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&s.ID,
		&s.CandidateID,
		&s.CurrentStage,
		&stagesCompleted,
		&s.Status,
		&overallScore,
		&overallFeedback,
		&completedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	if stagesCompleted.Valid {
		if err := json.Unmarshal([]byte(stagesCompleted.String), &s.StagesCompleted); err != nil {
			s.StagesCompleted = nil
		}
	}
	if overallScore.Valid {
		s.OverallScore = &overallScore.Float64
	}
	if overallFeedback.Valid {
		s.OverallFeedback = overallFeedback.String
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	return s, nil
}

func scanStageResult(row rowScanner) (StageResult, error) {
	var sr StageResult
	var questions sql.NullString
	var answers sql.NullString
	var aiScore sql.NullFloat64
	var aiFeedback sql.NullString
	var passed sql.NullBool
	var strengths sql.NullString
	var improvements sql.NullString
	var questionScores sql.NullString
	var recordingKey sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&sr.SessionID,
		&sr.StageOrder,
		&sr.StageName,
		&questions,
		&answers,
		&aiScore,
		&aiFeedback,
		&passed,
		&strengths,
		&improvements,
		&questionScores,
		&recordingKey,
		&completedAt,
		&sr.CreatedAt,
	)
	if err != nil {
		return StageResult{}, err
	}
	unmarshalNullJSON(questions, &sr.Questions)
	unmarshalNullJSON(answers, &sr.Answers)
	unmarshalNullJSON(strengths, &sr.Strengths)
	unmarshalNullJSON(improvements, &sr.Improvements)
	unmarshalNullJSON(questionScores, &sr.QuestionScores)
	if aiScore.Valid {
		sr.AIScore = &aiScore.Float64
	}
	if aiFeedback.Valid {
		sr.AIFeedback = aiFeedback.String
	}
	if passed.Valid {
		sr.Passed = &passed.Bool
	}
	if recordingKey.Valid {
		sr.RecordingKey = recordingKey.String
	}
	if completedAt.Valid {
		sr.CompletedAt = &completedAt.Time
	}
	return sr, nil
}

func unmarshalNullJSON[T any](raw sql.NullString, dest *T) {
	if !raw.Valid {
		return
	}
	_ = json.Unmarshal([]byte(raw.String), dest)
}

func marshalJSONB(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
