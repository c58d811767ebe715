package controllers

import (
	"net/http"

	"bizplan/internal/models/request_models"
	"bizplan/internal/services"
	"bizplan/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	resultsService services.ResultsServiceInterface
}

func NewResultsController(resultsService services.ResultsServiceInterface) *ResultsController {
	return &ResultsController{
		resultsService: resultsService,
	}
}

// GetResultsHandler godoc
// @Summary Stored analysis result for a session
// @Tags Results
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse "No result yet, data.redirect points at the wizard"
// @Security BearerAuth
// @Router /sessions/{id}/results [get]
func (r *ResultsController) GetResultsHandler(c *gin.Context) {
	resp, err := r.resultsService.GetResults(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

func (r *ResultsController) ImproveHandler(c *gin.Context) {
	var req request_models.ImproveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "target_score must be between 1 and 100")
			return
		}
	}
	resp, err := r.resultsService.Improve(c.Request.Context(), c.Param("id"), req.TargetScore)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Improvement suggestions ready")
}

func (r *ResultsController) GeneratePlanHandler(c *gin.Context) {
	resp, err := r.resultsService.GeneratePlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Business plan generated")
}
