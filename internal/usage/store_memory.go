package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.Mutex
	usage map[string]Usage
}

func newMemoryStore() *memoryStore {
	return &memoryStore{usage: make(map[string]Usage)}
}

func (s *memoryStore) Get(ctx context.Context, employerID string) (Usage, error) {
	return s.EnsurePeriod(ctx, employerID)
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, employerID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usage[employerID]
	if !ok {
		u = defaultUsage()
		s.usage[employerID] = u
		return u, nil
	}
	if time.Now().UTC().After(u.ResetsAt) {
		fresh := defaultUsage()
		fresh.Plan = u.Plan
		fresh.Limit = u.Limit
		s.usage[employerID] = fresh
		return fresh, nil
	}
	return u, nil
}

func (s *memoryStore) Consume(ctx context.Context, employerID string, n int) (Usage, error) {
	u, err := s.EnsurePeriod(ctx, employerID)
	if err != nil {
		return Usage{}, err
	}
	if n <= 0 {
		return u, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u = s.usage[employerID]
	if u.Used+n > u.Limit {
		return u, ErrLimitReached
	}
	u.Used += n
	s.usage[employerID] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, employerID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usage[employerID]
	if !ok {
		u = defaultUsage()
	}
	u.Used = 0
	u.ResetsAt = defaultUsage().ResetsAt
	s.usage[employerID] = u
	return u, nil
}
