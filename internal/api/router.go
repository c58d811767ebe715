package api

import (
	"bizplan/internal/api/controllers"
	"bizplan/internal/config"
	"bizplan/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func NewRouter(
	cfg *config.Config,
	logger zerolog.Logger,
	wizardController *controllers.WizardController,
	resultsController *controllers.ResultsController,
	checkoutController *controllers.CheckoutController,
	catalogController *controllers.CatalogController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	RegisterRoutes(r, []byte(cfg.SessionSecret), wizardController, resultsController, checkoutController, catalogController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	secret []byte,
	wizardController *controllers.WizardController,
	resultsController *controllers.ResultsController,
	checkoutController *controllers.CheckoutController,
	catalogController *controllers.CatalogController) {

	r.GET("/catalog", catalogController.GetCatalogHandler)
	r.GET("/plans", catalogController.ListPlansHandler)
	r.GET("/plans/:code", catalogController.GetPlanHandler)
	r.POST("/checkout", checkoutController.CreateCheckoutHandler)
	r.POST("/sessions", wizardController.StartSessionHandler)

	sessionGroup := r.Group("/sessions/:id", middleware.SessionAuthMiddleware(secret))
	sessionGroup.GET("", wizardController.GetStateHandler)
	sessionGroup.DELETE("", wizardController.EndSessionHandler)
	sessionGroup.PUT("/answers", wizardController.SaveAnswersHandler)
	sessionGroup.POST("/advance", wizardController.AdvanceHandler)
	sessionGroup.POST("/retreat", wizardController.RetreatHandler)
	sessionGroup.POST("/jump", wizardController.JumpHandler)
	sessionGroup.GET("/review", wizardController.ReviewHandler)
	sessionGroup.POST("/submit", wizardController.SubmitHandler)
	sessionGroup.POST("/retry", wizardController.RetryHandler)
	sessionGroup.POST("/start-over", wizardController.StartOverHandler)
	sessionGroup.GET("/results", resultsController.GetResultsHandler)
	sessionGroup.POST("/improve", resultsController.ImproveHandler)
	sessionGroup.POST("/plan", resultsController.GeneratePlanHandler)
}
