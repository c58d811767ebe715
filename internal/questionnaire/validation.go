package questionnaire

import "strings"

// MissingRequired returns the ids of required questions in stage whose
// trimmed answer is empty, in declaration order.
func MissingRequired(stage Stage, answers *AnswerSet) []string {
	var missing []string
	for _, q := range stage.Questions {
		if !q.Required {
			continue
		}
		if strings.TrimSpace(answers.Get(stage.ID, q.ID)) == "" {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// IsComplete reports whether every required question of stage is answered.
// A stage without required questions is always complete.
func IsComplete(stage Stage, answers *AnswerSet) bool {
	return len(MissingRequired(stage, answers)) == 0
}

// Validate returns a *ValidationError when stage is incomplete.
func Validate(stage Stage, answers *AnswerSet) error {
	if missing := MissingRequired(stage, answers); len(missing) > 0 {
		return &ValidationError{StageID: stage.ID, Missing: missing}
	}
	return nil
}
