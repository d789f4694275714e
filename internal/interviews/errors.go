package interviews

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrStageNotCurrent  = errors.New("stage is not the session's current stage")
	ErrStageNotStarted  = errors.New("stage questions have not been generated")
	ErrStageEvaluated   = errors.New("stage already evaluated")
	ErrAIService        = errors.New("ai service error")
)
