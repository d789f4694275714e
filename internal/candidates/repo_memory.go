package candidates

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory CandidatesRepo for tests and local development.
type MemoryRepo struct {
	mu         sync.RWMutex
	candidates map[string]Candidate
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{candidates: make(map[string]Candidate)}
}

func (r *MemoryRepo) Create(ctx context.Context, candidate Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[candidate.ID] = candidate
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, candidateID string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	candidate, ok := r.candidates[candidateID]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return candidate, nil
}

func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepo) UpdateProfile(ctx context.Context, candidate Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.candidates[candidate.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = candidate.Name
	existing.Email = candidate.Email
	existing.Role = candidate.Role
	existing.ExperienceLevel = candidate.ExperienceLevel
	existing.Skills = candidate.Skills
	existing.Qualifications = candidate.Qualifications
	existing.UpdatedAt = candidate.UpdatedAt
	r.candidates[candidate.ID] = existing
	return nil
}

func (r *MemoryRepo) UpdateResume(ctx context.Context, candidateID, resumeKey, mimeType, textKey string, parsedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.candidates[candidateID]
	if !ok {
		return ErrNotFound
	}
	existing.ResumeKey = resumeKey
	existing.ResumeMimeType = mimeType
	existing.ResumeTextKey = textKey
	existing.ResumeParsedAt = &parsedAt
	existing.UpdatedAt = parsedAt
	r.candidates[candidateID] = existing
	return nil
}

var _ CandidatesRepo = (*MemoryRepo)(nil)
