package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStore persists usage rows in Postgres.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a PGStore.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Get(ctx context.Context, employerID string) (Usage, error) {
	return s.EnsurePeriod(ctx, employerID)
}

// EnsurePeriod returns the employer's usage row, creating it with defaults or
// rolling the window forward when the period expired.
func (s *PGStore) EnsurePeriod(ctx context.Context, employerID string) (Usage, error) {
	u, err := s.get(ctx, employerID)
	if errors.Is(err, sql.ErrNoRows) {
		u = defaultUsage()
		if err := s.insert(ctx, employerID, u); err != nil {
			return Usage{}, err
		}
		return u, nil
	}
	if err != nil {
		return Usage{}, err
	}
	if time.Now().UTC().After(u.ResetsAt) {
		fresh := defaultUsage()
		fresh.Plan = u.Plan
		fresh.Limit = u.Limit
		if err := s.update(ctx, employerID, fresh); err != nil {
			return Usage{}, err
		}
		return fresh, nil
	}
	return u, nil
}

// Consume increments used atomically, failing when the quota would be exceeded.
func (s *PGStore) Consume(ctx context.Context, employerID string, n int) (Usage, error) {
	u, err := s.EnsurePeriod(ctx, employerID)
	if err != nil {
		return Usage{}, err
	}
	if n <= 0 {
		return u, nil
	}
	const query = `
UPDATE session_usage
SET used = used + $1
WHERE employer_id = $2 AND used + $1 <= usage_limit
RETURNING plan, usage_limit, used, resets_at`
	row := s.DB.QueryRowContext(ctx, query, n, employerID)
	var out Usage
	if err := row.Scan(&out.Plan, &out.Limit, &out.Used, &out.ResetsAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrLimitReached
		}
		return Usage{}, err
	}
	return out, nil
}

func (s *PGStore) Reset(ctx context.Context, employerID string) (Usage, error) {
	u, err := s.EnsurePeriod(ctx, employerID)
	if err != nil {
		return Usage{}, err
	}
	u.Used = 0
	u.ResetsAt = defaultUsage().ResetsAt
	if err := s.update(ctx, employerID, u); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *PGStore) get(ctx context.Context, employerID string) (Usage, error) {
	const query = `
SELECT plan, usage_limit, used, resets_at
FROM session_usage
WHERE employer_id = $1
LIMIT 1`
	var u Usage
	err := s.DB.QueryRowContext(ctx, query, employerID).Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *PGStore) insert(ctx context.Context, employerID string, u Usage) error {
	const query = `
INSERT INTO session_usage (employer_id, plan, usage_limit, used, resets_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (employer_id) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query, employerID, u.Plan, u.Limit, u.Used, u.ResetsAt)
	return err
}

func (s *PGStore) update(ctx context.Context, employerID string, u Usage) error {
	const query = `
UPDATE session_usage
SET plan = $1, usage_limit = $2, used = $3, resets_at = $4
WHERE employer_id = $5`
	_, err := s.DB.ExecContext(ctx, query, u.Plan, u.Limit, u.Used, u.ResetsAt, employerID)
	return err
}
