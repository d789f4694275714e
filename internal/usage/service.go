package usage

import "context"

type store interface {
	Get(ctx context.Context, employerID string) (Usage, error)
	EnsurePeriod(ctx context.Context, employerID string) (Usage, error)
	Consume(ctx context.Context, employerID string, n int) (Usage, error)
	Reset(ctx context.Context, employerID string) (Usage, error)
}

// Service manages quota data via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the current usage for an employer, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, employerID string) (Usage, error) {
	return s.store.Get(ctx, employerID)
}

// CanConsume reports whether the employer can start n more sessions.
func (s *Service) CanConsume(ctx context.Context, employerID string, n int) (bool, Usage, error) {
	u, err := s.store.EnsurePeriod(ctx, employerID)
	if err != nil {
		return false, Usage{}, err
	}
	if n <= 0 {
		return true, u, nil
	}
	if u.Used+n > u.Limit {
		return false, u, nil
	}
	return true, u, nil
}

// Consume increments usage by n if within limit.
func (s *Service) Consume(ctx context.Context, employerID string, n int) (Usage, error) {
	return s.store.Consume(ctx, employerID, n)
}

// Reset sets usage to zero and resets the window.
func (s *Service) Reset(ctx context.Context, employerID string) (Usage, error) {
	return s.store.Reset(ctx, employerID)
}
