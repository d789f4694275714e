package account

import (
	"context"

	"interview-backend/internal/candidates"
	"interview-backend/internal/interviews"
	"interview-backend/internal/usage"
)

const summaryPageSize = 100

// Summary aggregates pipeline state for the recruiter dashboard.
type Summary struct {
	Candidates        int          `json:"candidates"`
	Sessions          int          `json:"sessions"`
	SessionsPending   int          `json:"sessionsPending"`
	SessionsActive    int          `json:"sessionsActive"`
	SessionsCompleted int          `json:"sessionsCompleted"`
	AverageScore      *float64     `json:"averageScore,omitempty"`
	Usage             *usage.Usage `json:"usage,omitempty"`
}

// Service aggregates candidate and session state across repositories.
type Service struct {
	Candidates candidates.CandidatesRepo
	Sessions   interviews.Repo
	Usage      *usage.Service
}

// NewService constructs a Service.
func NewService(candidatesRepo candidates.CandidatesRepo, sessionsRepo interviews.Repo, usageSvc *usage.Service) *Service {
	return &Service{Candidates: candidatesRepo, Sessions: sessionsRepo, Usage: usageSvc}
}

// Summary walks the candidate list and tallies their sessions. Only
// candidates belonging to employerID are counted.
func (s *Service) Summary(ctx context.Context, employerID string) (Summary, error) {
	var summary Summary
	var scoreSum float64
	var scored int

	for offset := 0; ; offset += summaryPageSize {
		page, err := s.Candidates.List(ctx, summaryPageSize, offset)
		if err != nil {
			return Summary{}, err
		}
		if len(page) == 0 {
			break
		}

		for _, candidate := range page {
			if candidate.EmployerID != employerID {
				continue
			}
			summary.Candidates++
			sessions, err := s.Sessions.ListSessionsByCandidate(ctx, candidate.ID, summaryPageSize, 0)
			if err != nil {
				return Summary{}, err
			}
			summary.Sessions += len(sessions)
			for _, session := range sessions {
				switch session.Status {
				case interviews.StatusPending:
					summary.SessionsPending++
				case interviews.StatusInProgress:
					summary.SessionsActive++
				case interviews.StatusCompleted:
					summary.SessionsCompleted++
					if session.OverallScore != nil {
						scoreSum += *session.OverallScore
						scored++
					}
				}
			}
		}
		if len(page) < summaryPageSize {
			break
		}
	}

	if scored > 0 {
		mean := scoreSum / float64(scored)
		summary.AverageScore = &mean
	}

	if s.Usage != nil && employerID != "" {
		if u, err := s.Usage.Get(ctx, employerID); err == nil {
			summary.Usage = &u
		}
	}

	return summary, nil
}
