package candidates

import "time"

// Candidate is a person moving through the hiring pipeline.
type Candidate struct {
	ID              string     `json:"id"`
	EmployerID      string     `json:"employerId,omitempty"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	ExperienceLevel string     `json:"experienceLevel,omitempty"`
	Skills          []string   `json:"skills,omitempty"`
	Qualifications  []string   `json:"qualifications,omitempty"`
	ResumeKey       string     `json:"resumeKey,omitempty"`
	ResumeMimeType  string     `json:"resumeMimeType,omitempty"`
	ResumeTextKey   string     `json:"-"`
	ResumeParsedAt  *time.Time `json:"resumeParsedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
