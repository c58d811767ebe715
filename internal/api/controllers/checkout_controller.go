package controllers

import (
	"net/http"

	"bizplan/internal/models/request_models"
	"bizplan/internal/services"
	"bizplan/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService services.CheckoutServiceInterface
}

func NewCheckoutController(checkoutService services.CheckoutServiceInterface) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// CreateCheckoutHandler godoc
// @Summary Create a checkout session for a plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CheckoutRequest true "Plan and email"
// @Success 200 {object} utils.APIResponse
// @Router /checkout [post]
func (p *CheckoutController) CreateCheckoutHandler(c *gin.Context) {
	var request request_models.CheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := p.checkoutService.CreateCheckout(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message := "Checkout URL created successfully"
	if resp.Bypassed {
		message = "Payment skipped, continue to the questionnaire"
	}
	utils.RespondSuccess(c, resp, message)
}
