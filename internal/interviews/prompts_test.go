package interviews

import (
	"strings"
	"testing"

	"interview-backend/internal/stages"
)

func TestBuildGenerationPromptDefaultsMissingProfile(t *testing.T) {
	def, err := stages.ForOrder(1)
	if err != nil {
		t.Fatalf("ForOrder: %v", err)
	}

	prompt := buildGenerationPrompt(def, CandidateProfile{Name: "Ada"})
	if !strings.Contains(prompt, "exactly 10 interview questions") {
		t.Errorf("prompt missing question count:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Name: Ada") {
		t.Errorf("prompt missing candidate name")
	}
	if strings.Count(prompt, "Not specified") != 4 {
		t.Errorf("absent profile fields should degrade to Not specified:\n%s", prompt)
	}
}

func TestBuildEvaluationPromptPairsByIndex(t *testing.T) {
	def, err := stages.ForOrder(2)
	if err != nil {
		t.Fatalf("ForOrder: %v", err)
	}
	questions := []Question{
		{ID: 1, Question: "Walk through your demo.", Type: QuestionTypeText},
		{ID: 2, Question: "Pick the best option.", Type: QuestionTypeMultipleChoice, Options: []string{"A", "B"}},
		{ID: 3, Question: "Handle an outage.", Type: QuestionTypeScenario},
	}
	answers := []string{"I built a CLI.", "  "}

	prompt := buildEvaluationPrompt(def, questions, answers)
	if !strings.Contains(prompt, "threshold for this stage is 65") {
		t.Errorf("prompt missing passing threshold:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Candidate answer: I built a CLI.") {
		t.Errorf("first answer not paired")
	}
	// Blank and absent answers both render as unanswered.
	if got := strings.Count(prompt, noAnswer); got != 2 {
		t.Errorf("got %d unanswered markers, want 2:\n%s", got, prompt)
	}
	if !strings.Contains(prompt, "Options: A | B") {
		t.Errorf("multiple choice options not rendered")
	}
}
