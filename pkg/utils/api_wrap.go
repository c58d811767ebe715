package utils

import (
	"context"
	"errors"
	"net/http"

	"bizplan/internal/questionnaire"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationDetails is the data body of a 422 response.
type ValidationDetails struct {
	StageID string   `json:"stage_id"`
	Missing []string `json:"missing"`
}

// RedirectDetails tells the client where to send the user next.
type RedirectDetails struct {
	Redirect string `json:"redirect"`
}

// PendingDetails is returned when the caller stopped waiting on a call that
// keeps running. Poll the session until submission_state settles.
type PendingDetails struct {
	SubmissionState string `json:"submission_state"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, "success", message, data)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, "success", message, data)
}

func RespondError(c *gin.Context, code int, message string) {
	respond(c, code, "error", message, nil)
}

func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	respond(c, code, "error", message, data)
}

func respond(c *gin.Context, code int, status, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  status,
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var verr *questionnaire.ValidationError

	switch {
	case errors.As(err, &verr):
		RespondErrorWithData(c, http.StatusUnprocessableEntity, verr.Error(), ValidationDetails{
			StageID: verr.StageID,
			Missing: verr.Missing,
		})
	case errors.Is(err, questionnaire.ErrUnknownStage),
		errors.Is(err, questionnaire.ErrUnknownQuestion),
		errors.Is(err, questionnaire.ErrInvalidOption),
		errors.Is(err, questionnaire.ErrFirstStage),
		errors.Is(err, questionnaire.ErrTerminalStage),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrUnknownPlan):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTimeout):
		log.Warn().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("Analysis service timeout")
		RespondError(c, http.StatusGatewayTimeout, "The analysis service took too long to respond. Please try again.")
	case errors.Is(err, ErrNetwork):
		log.Warn().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("Analysis service failure")
		RespondError(c, http.StatusBadGateway, "Could not reach the analysis service. Please check your connection and try again.")
	case errors.Is(err, ErrMissingPriorResult):
		RespondErrorWithData(c, http.StatusConflict, err.Error(), RedirectDetails{Redirect: "/start"})
	case errors.Is(err, ErrSubmissionInProgress),
		errors.Is(err, ErrAlreadySubmitted),
		errors.Is(err, ErrNothingToRetry),
		errors.Is(err, ErrNotOnReview),
		errors.Is(err, ErrImproveInProgress):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionClosed):
		RespondError(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, ErrDatabaseError):
		log.Error().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("Database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond(c, http.StatusAccepted, "pending", "The analysis is still running, check the session for its result", PendingDetails{
			SubmissionState: "submitting",
		})
	default:
		log.Error().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("Unknown error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
