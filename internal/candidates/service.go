package candidates

import (
	"context"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/extract"
	"interview-backend/internal/shared/storage/object"
)

// Service contains business logic for candidates.
type Service struct {
	Repo  CandidatesRepo
	Store object.ObjectStore
}

// Create validates the profile and records a new candidate.
func (s *Service) Create(ctx context.Context, candidate Candidate) (Candidate, error) {
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.Email = strings.TrimSpace(candidate.Email)
	candidate.Role = strings.TrimSpace(candidate.Role)
	if candidate.Name == "" || candidate.Role == "" {
		return Candidate{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(candidate.Email); err != nil {
		return Candidate{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	candidate.ID = uuid.NewString()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	if err := s.Repo.Create(ctx, candidate); err != nil {
		return Candidate{}, err
	}
	return candidate, nil
}

// Get returns a candidate by ID.
func (s *Service) Get(ctx context.Context, candidateID string) (Candidate, error) {
	if candidateID == "" {
		return Candidate{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, candidateID)
}

// List returns candidates newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Candidate, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Update replaces the candidate's profile fields.
func (s *Service) Update(ctx context.Context, candidate Candidate) (Candidate, error) {
	existing, err := s.Repo.GetByID(ctx, candidate.ID)
	if err != nil {
		return Candidate{}, err
	}
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.Email = strings.TrimSpace(candidate.Email)
	candidate.Role = strings.TrimSpace(candidate.Role)
	if candidate.Name == "" || candidate.Role == "" {
		return Candidate{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(candidate.Email); err != nil {
		return Candidate{}, ErrInvalidInput
	}
	candidate.UpdatedAt = time.Now().UTC()
	if err := s.Repo.UpdateProfile(ctx, candidate); err != nil {
		return Candidate{}, err
	}
	existing.Name = candidate.Name
	existing.Email = candidate.Email
	existing.Role = candidate.Role
	existing.ExperienceLevel = candidate.ExperienceLevel
	existing.Skills = candidate.Skills
	existing.Qualifications = candidate.Qualifications
	existing.UpdatedAt = candidate.UpdatedAt
	return existing, nil
}

// UploadResume stores the resume, extracts its text for later review and
// links both keys to the candidate.
func (s *Service) UploadResume(ctx context.Context, candidateID, fileName string, r io.Reader) (Candidate, error) {
	candidate, err := s.Repo.GetByID(ctx, candidateID)
	if err != nil {
		return Candidate{}, err
	}
	if fileName == "" {
		return Candidate{}, ErrInvalidInput
	}

	storageKey, _, mimeType, err := s.Store.Save(ctx, candidateID, fileName, r)
	if err != nil {
		return Candidate{}, err
	}

	if _, err := extract.ExtractText(ctx, s.Store, storageKey, mimeType, fileName); err != nil {
		return Candidate{}, err
	}
	textKey := storageKey + ".extracted.txt"

	parsedAt := time.Now().UTC()
	if err := s.Repo.UpdateResume(ctx, candidateID, storageKey, mimeType, textKey, parsedAt); err != nil {
		return Candidate{}, err
	}

	candidate.ResumeKey = storageKey
	candidate.ResumeMimeType = mimeType
	candidate.ResumeTextKey = textKey
	candidate.ResumeParsedAt = &parsedAt
	candidate.UpdatedAt = parsedAt
	return candidate, nil
}

// ResumeText returns the extracted text of the candidate's resume.
func (s *Service) ResumeText(ctx context.Context, candidateID string) (string, error) {
	candidate, err := s.Repo.GetByID(ctx, candidateID)
	if err != nil {
		return "", err
	}
	if candidate.ResumeTextKey == "" {
		return "", ErrNoResume
	}
	body, err := s.Store.Open(ctx, candidate.ResumeTextKey)
	if err != nil {
		return "", err
	}
	defer body.Close()
	text, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
