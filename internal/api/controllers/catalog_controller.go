package controllers

import (
	"net/http"

	"bizplan/internal/services"
	"bizplan/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	planService services.PlanServiceInterface
}

func NewCatalogController(planService services.PlanServiceInterface) *CatalogController {
	return &CatalogController{
		planService: planService,
	}
}

func (p *CatalogController) GetCatalogHandler(c *gin.Context) {
	utils.RespondSuccess(c, p.planService.GetCatalog(), "")
}

func (p *CatalogController) ListPlansHandler(c *gin.Context) {
	utils.RespondSuccess(c, p.planService.GetPlans(), "")
}

func (p *CatalogController) GetPlanHandler(c *gin.Context) {
	plan, err := p.planService.GetPlanInfoByCode(c.Param("code"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Plan not found")
		return
	}
	utils.RespondSuccess(c, plan, "")
}
