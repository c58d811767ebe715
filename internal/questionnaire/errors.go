package questionnaire

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownStage    = errors.New("unknown stage")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrInvalidOption   = errors.New("value is not one of the question options")
	ErrValidation      = errors.New("required fields incomplete")
	ErrFirstStage      = errors.New("already at the first stage")
	ErrTerminalStage   = errors.New("review stage advances by submission")
)

// ValidationError lists the required questions of a stage that are still empty.
type ValidationError struct {
	StageID string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stage %q: please fill in all required fields (%s)", e.StageID, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
