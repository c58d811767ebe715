package controllers

import (
	"net/http"

	"bizplan/internal/models/request_models"
	"bizplan/internal/services"
	"bizplan/pkg/utils"

	"github.com/gin-gonic/gin"
)

type WizardController struct {
	wizardService services.WizardServiceInterface
}

func NewWizardController(wizardService services.WizardServiceInterface) *WizardController {
	return &WizardController{
		wizardService: wizardService,
	}
}

// StartSessionHandler godoc
// @Summary Start a questionnaire session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body request_models.StartSessionRequest true "Selected plan and optional email"
// @Success 201 {object} utils.APIResponse
// @Router /sessions [post]
func (w *WizardController) StartSessionHandler(c *gin.Context) {
	var req request_models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "plan_type is required")
		return
	}
	resp, err := w.wizardService.StartSession(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, resp, "Session started")
}

func (w *WizardController) GetStateHandler(c *gin.Context) {
	resp, err := w.wizardService.GetState(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// SaveAnswersHandler godoc
// @Summary Save answers for one stage
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body request_models.SaveAnswersRequest true "Stage answers"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /sessions/{id}/answers [put]
func (w *WizardController) SaveAnswersHandler(c *gin.Context) {
	var req request_models.SaveAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "stage_id and answers are required")
		return
	}
	resp, err := w.wizardService.SaveAnswers(c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Answers saved")
}

func (w *WizardController) AdvanceHandler(c *gin.Context) {
	resp, err := w.wizardService.Advance(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

func (w *WizardController) RetreatHandler(c *gin.Context) {
	resp, err := w.wizardService.Retreat(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

func (w *WizardController) JumpHandler(c *gin.Context) {
	var req request_models.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "stage_id is required")
		return
	}
	resp, err := w.wizardService.JumpTo(c.Param("id"), req.StageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

func (w *WizardController) ReviewHandler(c *gin.Context) {
	resp, err := w.wizardService.Review(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// SubmitHandler godoc
// @Summary Submit the questionnaire for analysis
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /sessions/{id}/submit [post]
func (w *WizardController) SubmitHandler(c *gin.Context) {
	resp, err := w.wizardService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Analysis complete")
}

func (w *WizardController) RetryHandler(c *gin.Context) {
	resp, err := w.wizardService.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Analysis complete")
}

func (w *WizardController) StartOverHandler(c *gin.Context) {
	resp, err := w.wizardService.StartOver(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Session restarted")
}

func (w *WizardController) EndSessionHandler(c *gin.Context) {
	if err := w.wizardService.EndSession(c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Session ended")
}
