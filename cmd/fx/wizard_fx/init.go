package wizard_fx

import (
	"bizplan/internal/api/controllers"
	"bizplan/internal/config"
	"bizplan/internal/questionnaire"
	"bizplan/internal/services"
	"bizplan/internal/storage"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	questionnaire.Default,
	ProvideWizardService,
	ProvideResultsService,
	ProvideWizardController,
	ProvideResultsController)

func ProvideWizardService(
	cfg *config.Config,
	catalog *questionnaire.Catalog,
	sessions *services.SessionManager,
	store storage.KeyValueStore,
	client services.AnalysisClient,
	logger zerolog.Logger,
) (services.WizardServiceInterface, error) {
	policy, err := services.ParseFallbackPolicy(cfg.AnalysisFallback)
	if err != nil {
		return nil, err
	}
	if policy == services.FallbackDemo {
		logger.Warn().Msg("ANALYSIS_FALLBACK=demo, failed analyses will be replaced by a demo result")
	}
	return services.NewWizardService(catalog, sessions, store, client, services.WizardOptions{
		Secret:     []byte(cfg.SessionSecret),
		SessionTTL: cfg.SessionTTL,
		Submission: services.SubmissionOptions{
			Policy:  policy,
			Timeout: cfg.AnalysisTimeout,
		},
	}, logger), nil
}

func ProvideResultsService(
	cfg *config.Config,
	store storage.KeyValueStore,
	client services.AnalysisClient,
	sessions *services.SessionManager,
	logger zerolog.Logger,
) services.ResultsServiceInterface {
	return services.NewResultsService(store, client, sessions, cfg.ImproveTargetScore, logger)
}

func ProvideWizardController(wizardService services.WizardServiceInterface) *controllers.WizardController {
	return controllers.NewWizardController(wizardService)
}

func ProvideResultsController(resultsService services.ResultsServiceInterface) *controllers.ResultsController {
	return controllers.NewResultsController(resultsService)
}
