package interviews

import (
	"fmt"
	"strings"

	"interview-backend/internal/stages"
)

const (
	generationSystemPrompt = "You are an interview question engine for a hiring platform. " +
		"Produce stage-appropriate interview questions tailored to the candidate profile. " +
		"Always respond through the provided tool call; never answer in prose."

	evaluationSystemPrompt = "You are an interview answer evaluator for a hiring platform. " +
		"Score the candidate's answers against the questions and expected points, fairly and consistently. " +
		"Always respond through the provided tool call; never answer in prose."

	notSpecified = "Not specified"
	noAnswer     = "No answer provided"
)

// buildGenerationPrompt embeds the stage description and the candidate profile.
// Absent profile fields degrade to "Not specified" rather than failing.
func buildGenerationPrompt(def stages.Definition, profile CandidateProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d interview questions for the %q stage of a hiring pipeline.\n\n", def.QuestionCount, def.Name)
	fmt.Fprintf(&b, "Stage description: %s\n", def.Description)
	fmt.Fprintf(&b, "Time budget: %d seconds per question.\n\n", def.TimePerQuestionSeconds)

	b.WriteString("Candidate profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orNotSpecified(profile.Name))
	fmt.Fprintf(&b, "- Role applied for: %s\n", orNotSpecified(profile.Role))
	fmt.Fprintf(&b, "- Experience level: %s\n", orNotSpecified(profile.ExperienceLevel))
	fmt.Fprintf(&b, "- Skills: %s\n", orNotSpecifiedList(profile.Skills))
	fmt.Fprintf(&b, "- Qualifications: %s\n\n", orNotSpecifiedList(profile.Qualifications))

	b.WriteString("Each question must have a sequential id starting at 1, a type of text, multiple_choice or scenario, ")
	b.WriteString("options only for multiple_choice questions, the key points a strong answer should cover, and a short category label.")
	return b.String()
}

// buildEvaluationPrompt pairs each question with the candidate's answer by
// positional index. Missing answers are rendered as "No answer provided".
func buildEvaluationPrompt(def stages.Definition, questions []Question, answers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate the candidate's answers for the %q stage.\n", def.Name)
	fmt.Fprintf(&b, "Stage description: %s\n", def.Description)
	fmt.Fprintf(&b, "The passing threshold for this stage is %d out of 100.\n\n", def.PassingScorePercent)

	for i, q := range questions {
		fmt.Fprintf(&b, "Question %d (%s): %s\n", q.ID, q.Type, q.Question)
		if len(q.Options) > 0 {
			fmt.Fprintf(&b, "Options: %s\n", strings.Join(q.Options, " | "))
		}
		if len(q.ExpectedPoints) > 0 {
			fmt.Fprintf(&b, "Expected points: %s\n", strings.Join(q.ExpectedPoints, "; "))
		}
		answer := noAnswer
		if i < len(answers) && strings.TrimSpace(answers[i]) != "" {
			answer = answers[i]
		}
		fmt.Fprintf(&b, "Candidate answer: %s\n\n", answer)
	}

	b.WriteString("Score every question from 0 to 100 with brief feedback, then give an overall score from 0 to 100, ")
	b.WriteString("overall feedback, the candidate's strengths and the areas to improve.")
	return b.String()
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}
	return value
}

func orNotSpecifiedList(values []string) string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	if len(trimmed) == 0 {
		return notSpecified
	}
	return strings.Join(trimmed, ", ")
}
