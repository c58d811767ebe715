package controllers_fx

import (
	"bizplan/internal/api"
	"bizplan/internal/api/controllers"
	"bizplan/internal/services"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(services.NewPlanService),
	fx.Provide(controllers.NewCatalogController),
	fx.Provide(api.NewRouter))
