package stages

import "errors"

// ErrUnknownStage indicates the requested order is outside the catalog.
var ErrUnknownStage = errors.New("unknown stage")

// Definition describes one evaluation stage in the interview pipeline.
type Definition struct {
	Name                   string `json:"name"`
	Order                  int    `json:"order"`
	Description            string `json:"description"`
	QuestionCount          int    `json:"questionCount"`
	TimePerQuestionSeconds int    `json:"timePerQuestionSeconds"`
	PassingScorePercent    int    `json:"passingScorePercent"`
}

// catalog is the fixed traversal path. Stages cannot be skipped or reordered
// at runtime; order values are 1-based and contiguous.
var catalog = []Definition{
	{
		Name:                   "Technical Assessment",
		Order:                  1,
		Description:            "Role-specific technical screening covering core skills, fundamentals and applied problem solving.",
		QuestionCount:          10,
		TimePerQuestionSeconds: 120,
		PassingScorePercent:    70,
	},
	{
		Name:                   "Demo Round",
		Order:                  2,
		Description:            "Scenario and walkthrough round where the candidate presents work and reasons through realistic situations.",
		QuestionCount:          5,
		TimePerQuestionSeconds: 300,
		PassingScorePercent:    65,
	},
	{
		Name:                   "Final Review",
		Order:                  3,
		Description:            "Closing review covering collaboration, communication, motivation and fit for the role.",
		QuestionCount:          8,
		TimePerQuestionSeconds: 180,
		PassingScorePercent:    75,
	},
}

// ForOrder returns the stage definition for a 1-based order.
func ForOrder(order int) (Definition, error) {
	if order < 1 || order > len(catalog) {
		return Definition{}, ErrUnknownStage
	}
	return catalog[order-1], nil
}

// Count returns the number of stages in the pipeline.
func Count() int {
	return len(catalog)
}

// All returns a copy of the catalog in traversal order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// IsLast reports whether the given order is the final stage.
func IsLast(order int) bool {
	return order == len(catalog)
}
