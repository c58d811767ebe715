package checkout_fx

import (
	"bizplan/internal/api/controllers"
	"bizplan/internal/config"
	"bizplan/internal/questionnaire"
	"bizplan/internal/services"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	provideCheckoutService, provideCheckoutController,
)

func provideCheckoutService(cfg *config.Config, catalog *questionnaire.Catalog, client services.AnalysisClient, logger zerolog.Logger) services.CheckoutServiceInterface {
	if cfg.CheckoutAllowBypass {
		logger.Warn().Msg("CHECKOUT_ALLOW_BYPASS=true, failed checkouts will skip payment")
	}
	return services.NewCheckoutService(catalog, client, cfg.CheckoutAllowBypass, logger)
}

func provideCheckoutController(checkoutService services.CheckoutServiceInterface) *controllers.CheckoutController {
	return controllers.NewCheckoutController(checkoutService)
}
