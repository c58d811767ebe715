package analysis_fx

import (
	"bizplan/internal/config"
	"bizplan/internal/services"

	"go.uber.org/fx"
)

var Module = fx.Provide(provideAnalysisClient)

func provideAnalysisClient(cfg *config.Config) services.AnalysisClient {
	return services.NewHTTPAnalysisClient(cfg.AnalysisBaseURL, cfg.AnalysisTimeout)
}
