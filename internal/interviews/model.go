package interviews

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Question types produced by the generator.
const (
	QuestionTypeText           = "text"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeScenario       = "scenario"
)

// Session represents one candidate's traversal of the stage pipeline.
type Session struct {
	ID              string     `json:"id"`
	CandidateID     string     `json:"candidateId"`
	CurrentStage    int        `json:"currentStage"`
	StagesCompleted []string   `json:"stagesCompleted"`
	Status          string     `json:"status"`
	OverallScore    *float64   `json:"overallScore,omitempty"`
	OverallFeedback string     `json:"overallFeedback,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// StageResult is the persisted record for one (session, stage) pair. Created
// when questions are generated; evaluation fields stay null until answers are
// scored, after which the row is immutable.
type StageResult struct {
	SessionID      string          `json:"sessionId"`
	StageName      string          `json:"stageName"`
	StageOrder     int             `json:"stageOrder"`
	Questions      []Question      `json:"questions"`
	Answers        []string        `json:"answers,omitempty"`
	AIScore        *float64        `json:"aiScore,omitempty"`
	AIFeedback     string          `json:"aiFeedback,omitempty"`
	Passed         *bool           `json:"passed,omitempty"`
	Strengths      []string        `json:"strengths,omitempty"`
	Improvements   []string        `json:"improvements,omitempty"`
	QuestionScores []QuestionScore `json:"questionScores,omitempty"`
	RecordingKey   string          `json:"recordingKey,omitempty"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Question is one generated interview question.
type Question struct {
	ID             int      `json:"id"`
	Question       string   `json:"question"`
	Type           string   `json:"type"`
	Options        []string `json:"options,omitempty"`
	ExpectedPoints []string `json:"expectedPoints,omitempty"`
	Category       string   `json:"category,omitempty"`
}

// QuestionScore is the per-question evaluation detail.
type QuestionScore struct {
	QuestionID int     `json:"questionId"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback,omitempty"`
}

// Evaluation is the scored outcome for one stage.
type Evaluation struct {
	OverallScore   float64         `json:"overallScore"`
	Passed         bool            `json:"passed"`
	Feedback       string          `json:"feedback"`
	Strengths      []string        `json:"strengths"`
	Improvements   []string        `json:"improvements"`
	QuestionScores []QuestionScore `json:"questionScores"`
}

// CandidateProfile is a loosely-structured bag of candidate attributes. Any
// field may be absent; prompt building substitutes "Not specified".
type CandidateProfile struct {
	Name            string   `json:"name,omitempty"`
	Role            string   `json:"role,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Qualifications  []string `json:"qualifications,omitempty"`
}

func (p CandidateProfile) isEmpty() bool {
	return p.Name == "" && p.Role == "" && p.ExperienceLevel == "" &&
		len(p.Skills) == 0 && len(p.Qualifications) == 0
}
