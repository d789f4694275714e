package candidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements CandidatesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, candidate Candidate) error {
	const query = `
INSERT INTO candidates (
	id, employer_id, name, email, role, experience_level, skills, qualifications,
	resume_key, resume_mime_type, resume_text_key, resume_parsed_at,
	created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	skills, err := marshalList(candidate.Skills)
	if err != nil {
		return err
	}
	qualifications, err := marshalList(candidate.Qualifications)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		candidate.ID,
		emptyToNull(candidate.EmployerID),
		candidate.Name,
		candidate.Email,
		candidate.Role,
		emptyToNull(candidate.ExperienceLevel),
		skills,
		qualifications,
		emptyToNull(candidate.ResumeKey),
		emptyToNull(candidate.ResumeMimeType),
		emptyToNull(candidate.ResumeTextKey),
		candidate.ResumeParsedAt,
		candidate.CreatedAt,
		candidate.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, candidateID string) (Candidate, error) {
	const query = `
SELECT id, employer_id, name, email, role, experience_level, skills, qualifications,
       resume_key, resume_mime_type, resume_text_key, resume_parsed_at,
       created_at, updated_at
FROM candidates
WHERE id = $1
LIMIT 1`
	candidate, err := scanCandidate(r.DB.QueryRowContext(ctx, query, candidateID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	return candidate, nil
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Candidate, error) {
	const query = `
SELECT id, employer_id, name, email, role, experience_level, skills, qualifications,
       resume_key, resume_mime_type, resume_text_key, resume_parsed_at,
       created_at, updated_at
FROM candidates
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, candidate)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateProfile(ctx context.Context, candidate Candidate) error {
	const query = `
UPDATE candidates
SET name = $1, email = $2, role = $3, experience_level = $4,
    skills = $5, qualifications = $6, updated_at = $7
WHERE id = $8`
	skills, err := marshalList(candidate.Skills)
	if err != nil {
		return err
	}
	qualifications, err := marshalList(candidate.Qualifications)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		candidate.Name,
		candidate.Email,
		candidate.Role,
		emptyToNull(candidate.ExperienceLevel),
		skills,
		qualifications,
		candidate.UpdatedAt,
		candidate.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpdateResume(ctx context.Context, candidateID, resumeKey, mimeType, textKey string, parsedAt time.Time) error {
	const query = `
UPDATE candidates
SET resume_key = $1, resume_mime_type = $2, resume_text_key = $3,
    resume_parsed_at = $4, updated_at = $5
WHERE id = $6`
	res, err := r.DB.ExecContext(ctx, query,
		resumeKey, mimeType, emptyToNull(textKey), parsedAt, parsedAt, candidateID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (Candidate, error) {
	var c Candidate
	var employerID sql.NullString
	var experienceLevel sql.NullString
	var skills sql.NullString
	var qualifications sql.NullString
	var resumeKey sql.NullString
	var resumeMime sql.NullString
	var resumeTextKey sql.NullString
	var resumeParsedAt sql.NullTime
	err := row.Scan(
		&c.ID,
		&employerID,
		&c.Name,
		&c.Email,
		&c.Role,
		&experienceLevel,
		&skills,
		&qualifications,
		&resumeKey,
		&resumeMime,
		&resumeTextKey,
		&resumeParsedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Candidate{}, err
	}
	if employerID.Valid {
		c.EmployerID = employerID.String
	}
	if experienceLevel.Valid {
		c.ExperienceLevel = experienceLevel.String
	}
	if skills.Valid {
		_ = json.Unmarshal([]byte(skills.String), &c.Skills)
	}
	if qualifications.Valid {
		_ = json.Unmarshal([]byte(qualifications.String), &c.Qualifications)
	}
	if resumeKey.Valid {
		c.ResumeKey = resumeKey.String
	}
	if resumeMime.Valid {
		c.ResumeMimeType = resumeMime.String
	}
	if resumeTextKey.Valid {
		c.ResumeTextKey = resumeTextKey.String
	}
	if resumeParsedAt.Valid {
		c.ResumeParsedAt = &resumeParsedAt.Time
	}
	return c, nil
}

func marshalList(values []string) (any, error) {
	if values == nil {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func emptyToNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ CandidatesRepo = (*PGRepo)(nil)
