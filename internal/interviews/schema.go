package interviews

import (
	"encoding/json"
	"fmt"

	"interview-backend/internal/llm"
)

// Tool schemas the external endpoint is constrained to. The generator and the
// evaluator share one endpoint but force different tools.
const questionToolSchema = `{
	"type": "object",
	"properties": {
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "integer"},
					"question": {"type": "string"},
					"type": {"type": "string", "enum": ["text", "multiple_choice", "scenario"]},
					"options": {"type": "array", "items": {"type": "string"}},
					"expectedPoints": {"type": "array", "items": {"type": "string"}},
					"category": {"type": "string"}
				},
				"required": ["id", "question", "type"]
			}
		}
	},
	"required": ["questions"]
}`

const evaluationToolSchema = `{
	"type": "object",
	"properties": {
		"overallScore": {"type": "number", "minimum": 0, "maximum": 100},
		"passed": {"type": "boolean"},
		"feedback": {"type": "string"},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"improvements": {"type": "array", "items": {"type": "string"}},
		"questionScores": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"questionId": {"type": "integer"},
					"score": {"type": "number", "minimum": 0, "maximum": 100},
					"feedback": {"type": "string"}
				},
				"required": ["questionId", "score"]
			}
		}
	},
	"required": ["overallScore", "passed", "feedback"]
}`

func questionTool() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "submit_questions",
		Description: "Return the generated interview questions.",
		Schema:      json.RawMessage(questionToolSchema),
	}
}

func evaluationTool() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "submit_evaluation",
		Description: "Return the scored evaluation of the candidate's answers.",
		Schema:      json.RawMessage(evaluationToolSchema),
	}
}

// parseGeneratedQuestions validates the endpoint's output and normalizes it to
// exactly want questions with sequential ids.
func parseGeneratedQuestions(raw json.RawMessage, want int) ([]Question, error) {
	var payload struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("question output parse: %w", err)
	}
	if len(payload.Questions) < want {
		return nil, fmt.Errorf("question output: got %d questions, want %d", len(payload.Questions), want)
	}
	questions := payload.Questions[:want]
	for i := range questions {
		q := &questions[i]
		q.ID = i + 1
		switch q.Type {
		case QuestionTypeText, QuestionTypeScenario:
			q.Options = nil
		case QuestionTypeMultipleChoice:
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("question %d: multiple_choice requires options", q.ID)
			}
		default:
			return nil, fmt.Errorf("question %d: unknown type %q", q.ID, q.Type)
		}
		if q.Question == "" {
			return nil, fmt.Errorf("question %d: empty question text", q.ID)
		}
	}
	return questions, nil
}

// parseEvaluation validates the endpoint's scoring output. Scores are clamped
// to the 0..100 range; passed is re-derived by the caller.
func parseEvaluation(raw json.RawMessage) (Evaluation, error) {
	var eval Evaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return Evaluation{}, fmt.Errorf("evaluation output parse: %w", err)
	}
	if eval.Feedback == "" {
		return Evaluation{}, fmt.Errorf("evaluation output: missing feedback")
	}
	eval.OverallScore = clampScore(eval.OverallScore)
	for i := range eval.QuestionScores {
		eval.QuestionScores[i].Score = clampScore(eval.QuestionScores[i].Score)
	}
	if eval.Strengths == nil {
		eval.Strengths = []string{}
	}
	if eval.Improvements == nil {
		eval.Improvements = []string{}
	}
	return eval, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
