package utils

import "errors"

var (
	ErrNetwork            = errors.New("analysis service unreachable")
	ErrTimeout            = errors.New("analysis service timed out")
	ErrMissingPriorResult = errors.New("no analysis result found, please complete the questionnaire first")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionClosed      = errors.New("session closed")

	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted     = errors.New("questionnaire already submitted")
	ErrNothingToRetry       = errors.New("no failed submission to retry")
	ErrNotOnReview          = errors.New("submit from the review stage")
	ErrImproveInProgress    = errors.New("an improvement with a different target is already running")

	ErrInvalidEmail  = errors.New("invalid email address")
	ErrUnknownPlan   = errors.New("unknown plan")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrDatabaseError = errors.New("database error")
)
