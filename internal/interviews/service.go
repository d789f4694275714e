package interviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/llm"
	"interview-backend/internal/notify"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
	"interview-backend/internal/stages"
	"interview-backend/internal/usage"
)

// ClosingFeedback is the fixed message recorded when a session completes.
const ClosingFeedback = "Thank you for completing the interview process. Our team will review your results and be in touch."

// CandidateContact resolves candidate identity for notifications.
type CandidateContact struct {
	ID    string
	Name  string
	Email string
}

// CandidateDirectory looks up candidate details. Implemented by the
// candidates service through an adapter in bootstrap.
type CandidateDirectory interface {
	ContactByID(ctx context.Context, candidateID string) (CandidateContact, error)
	ProfileByID(ctx context.Context, candidateID string) (CandidateProfile, error)
}

// Outcome is returned after a successful answer submission. NextStage is nil
// when the session just completed.
type Outcome struct {
	Evaluation Evaluation         `json:"evaluation"`
	Session    Session            `json:"session"`
	NextStage  *stages.Definition `json:"nextStage,omitempty"`
}

// Service drives a candidate through the stage pipeline: question generation,
// answer evaluation and session progression.
type Service struct {
	Repo       Repo
	LLM        llm.Client
	Usage      *usage.Service
	Candidates CandidateDirectory
	Notifier   notify.Dispatcher
}

// StartSession creates a new session pointing at the first stage.
func (s *Service) StartSession(ctx context.Context, candidateID, employerID string) (Session, error) {
	if candidateID == "" {
		return Session{}, errors.New("candidateID is required")
	}

	// Consume quota before persisting anything so a session can never be
	// created past the employer's limit.
	if s.Usage != nil && employerID != "" {
		if _, err := s.Usage.Consume(ctx, employerID, 1); err != nil {
			return Session{}, err
		}
	}

	now := time.Now().UTC()
	session := Session{
		ID:              uuid.NewString(),
		CandidateID:     candidateID,
		CurrentStage:    1,
		StagesCompleted: []string{},
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.CreateSession(ctx, session); err != nil {
		return Session{}, err
	}

	metrics.IncSessionStarted()
	return session, nil
}

// Get returns a session by ID.
func (s *Service) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.New("sessionID is required")
	}
	return s.Repo.GetSession(ctx, sessionID)
}

// List returns sessions for a candidate ordered newest-first.
func (s *Service) List(ctx context.Context, candidateID string, limit, offset int) ([]Session, error) {
	if candidateID == "" {
		return nil, errors.New("candidateID is required")
	}
	return s.Repo.ListSessionsByCandidate(ctx, candidateID, limit, offset)
}

// Results returns all stage results for a session.
func (s *Service) Results(ctx context.Context, sessionID string) ([]StageResult, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID is required")
	}
	if _, err := s.Repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.Repo.ListStageResults(ctx, sessionID)
}

// GenerateQuestions asks the external endpoint for stage-appropriate questions
// and persists them as a new stage result. Re-requesting an already-generated
// stage returns the stored questions without another inference call.
func (s *Service) GenerateQuestions(ctx context.Context, sessionID string, stageOrder int, profile CandidateProfile) ([]Question, stages.Definition, error) {
	def, err := stages.ForOrder(stageOrder)
	if err != nil {
		return nil, stages.Definition{}, err
	}

	session, err := s.Repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, stages.Definition{}, err
	}
	if session.Status == StatusCompleted {
		return nil, stages.Definition{}, ErrSessionCompleted
	}
	if stageOrder != session.CurrentStage {
		return nil, stages.Definition{}, ErrStageNotCurrent
	}

	existing, err := s.Repo.GetStageResult(ctx, sessionID, stageOrder)
	if err == nil {
		return existing.Questions, def, nil
	}
	if !errors.Is(err, ErrStageNotStarted) {
		return nil, stages.Definition{}, err
	}

	if s.LLM == nil {
		return nil, stages.Definition{}, llm.ErrNotConfigured
	}

	// Requests without an inline profile fall back to the stored candidate
	// record. A failed lookup only means a thinner prompt.
	if profile.isEmpty() && s.Candidates != nil {
		if stored, err := s.Candidates.ProfileByID(ctx, session.CandidateID); err == nil {
			profile = stored
		}
	}

	raw, err := s.LLM.Complete(ctx, llm.CompletionRequest{
		System: generationSystemPrompt,
		User:   buildGenerationPrompt(def, profile),
		Tool:   questionTool(),
	})
	if err != nil {
		return nil, stages.Definition{}, wrapAIError("generate questions", stageOrder, err)
	}

	questions, err := parseGeneratedQuestions(raw, def.QuestionCount)
	if err != nil {
		return nil, stages.Definition{}, wrapAIError("generate questions", stageOrder, err)
	}

	result := StageResult{
		SessionID:  sessionID,
		StageName:  def.Name,
		StageOrder: stageOrder,
		Questions:  questions,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.CreateStageResult(ctx, result); err != nil {
		return nil, stages.Definition{}, err
	}
	if session.Status == StatusPending {
		if err := s.Repo.MarkSessionInProgress(ctx, sessionID); err != nil {
			return nil, stages.Definition{}, err
		}
	}

	metrics.IncQuestionsGenerated()
	telemetry.Info("session.questions_generated", map[string]any{
		"session_id":  sessionID,
		"stage_order": stageOrder,
		"stage_name":  def.Name,
		"questions":   len(questions),
	})
	return questions, def, nil
}

// SubmitAnswers scores the stage with the external endpoint and advances the
// session. The session advances on both pass and fail; every candidate runs
// the full pipeline and is judged holistically at the end. A stage that has
// already been evaluated is rejected without any mutation.
func (s *Service) SubmitAnswers(ctx context.Context, sessionID string, stageOrder int, answers []string, recordingKey string) (Outcome, error) {
	def, err := stages.ForOrder(stageOrder)
	if err != nil {
		return Outcome{}, err
	}

	if _, err := s.Repo.GetSession(ctx, sessionID); err != nil {
		return Outcome{}, err
	}

	result, err := s.Repo.GetStageResult(ctx, sessionID, stageOrder)
	if err != nil {
		return Outcome{}, err
	}
	if result.CompletedAt != nil {
		return Outcome{}, ErrStageEvaluated
	}

	if s.LLM == nil {
		return Outcome{}, llm.ErrNotConfigured
	}
	startedAt := time.Now().UTC()
	raw, err := s.LLM.Complete(ctx, llm.CompletionRequest{
		System: evaluationSystemPrompt,
		User:   buildEvaluationPrompt(def, result.Questions, answers),
		Tool:   evaluationTool(),
	})
	if err != nil {
		metrics.IncEvaluationFailed()
		return Outcome{}, wrapAIError("evaluate answers", stageOrder, err)
	}

	eval, err := parseEvaluation(raw)
	if err != nil {
		metrics.IncEvaluationFailed()
		return Outcome{}, wrapAIError("evaluate answers", stageOrder, err)
	}
	// The endpoint's own pass judgment is advisory; the catalog threshold is
	// the contract.
	eval.Passed = eval.OverallScore >= float64(def.PassingScorePercent)

	completedAt := time.Now().UTC()
	session, err := s.Repo.CompleteStage(ctx, sessionID, stageOrder, StageCompletion{
		StageName:       def.Name,
		Answers:         answers,
		Evaluation:      eval,
		RecordingKey:    recordingKey,
		CompletedAt:     completedAt,
		LastStage:       stages.IsLast(stageOrder),
		ClosingFeedback: ClosingFeedback,
	})
	if err != nil {
		return Outcome{}, err
	}

	metrics.IncEvaluation()
	metrics.ObserveEvaluationDurationMs(float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0)

	outcome := Outcome{Evaluation: eval, Session: session}
	transition := "in_progress->in_progress"
	if session.Status == StatusCompleted {
		metrics.IncSessionCompleted()
		transition = "in_progress->completed"
	} else {
		next, err := stages.ForOrder(session.CurrentStage)
		if err == nil {
			outcome.NextStage = &next
		}
	}
	telemetry.Info("session.status", map[string]any{
		"session_id":        sessionID,
		"stage_order":       stageOrder,
		"stage_name":        def.Name,
		"score":             eval.OverallScore,
		"passed":            eval.Passed,
		"status":            session.Status,
		"status_transition": transition,
	})

	s.dispatchNotification(session, outcome.NextStage)

	return outcome, nil
}

// wrapAIError keeps transport sentinels visible to errors.Is and folds
// everything else under ErrAIService.
func wrapAIError(op string, stageOrder int, err error) error {
	if errors.Is(err, llm.ErrRateLimited) || errors.Is(err, llm.ErrQuotaExhausted) || errors.Is(err, llm.ErrNotConfigured) {
		return fmt.Errorf("%s stage=%d: %w", op, stageOrder, err)
	}
	return fmt.Errorf("%s stage=%d: %w: %v", op, stageOrder, ErrAIService, err)
}

// dispatchNotification emails the candidate about the next stage (or the
// completed pipeline) without blocking or failing the progression.
func (s *Service) dispatchNotification(session Session, next *stages.Definition) {
	if s.Notifier == nil || s.Candidates == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		contact, err := s.Candidates.ContactByID(ctx, session.CandidateID)
		if err != nil {
			metrics.IncNotifyFailed()
			telemetry.Error("notify.candidate_lookup", map[string]any{
				"session_id":   session.ID,
				"candidate_id": session.CandidateID,
				"error":        err.Error(),
			})
			return
		}

		inv := notify.Invitation{
			CandidateEmail: contact.Email,
			CandidateName:  contact.Name,
			SessionID:      session.ID,
			Completed:      next == nil,
		}
		if next != nil {
			inv.StageOrder = next.Order
			inv.StageName = next.Name
			inv.StageDescription = next.Description
		}
		if err := s.Notifier.SendStageInvitation(ctx, inv); err != nil {
			metrics.IncNotifyFailed()
			telemetry.Error("notify.dispatch", map[string]any{
				"session_id": session.ID,
				"completed":  inv.Completed,
				"error":      err.Error(),
			})
		}
	}()
}
