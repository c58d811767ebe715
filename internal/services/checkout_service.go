package services

import (
	"context"
	"strings"

	"bizplan/internal/models/request_models"
	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
	"bizplan/pkg/utils"

	"github.com/rs/zerolog"
)

type CheckoutServiceInterface interface {
	CreateCheckout(ctx context.Context, req request_models.CheckoutRequest) (*response_models.CheckoutResponse, error)
}

type CheckoutService struct {
	catalog     *questionnaire.Catalog
	client      AnalysisClient
	allowBypass bool
	logger      zerolog.Logger
}

func NewCheckoutService(catalog *questionnaire.Catalog, client AnalysisClient, allowBypass bool, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		catalog:     catalog,
		client:      client,
		allowBypass: allowBypass,
		logger:      logger,
	}
}

// CreateCheckout asks the analysis service for a payment URL. When that
// fails and bypass is enabled the caller is told to continue unpaid.
func (s *CheckoutService) CreateCheckout(ctx context.Context, req request_models.CheckoutRequest) (*response_models.CheckoutResponse, error) {
	plan := strings.TrimSpace(req.Plan)
	if _, ok := s.catalog.Plan(plan); !ok {
		return nil, utils.ErrUnknownPlan
	}
	email := strings.TrimSpace(req.Email)
	if !ValidEmail(email) {
		return nil, utils.ErrInvalidEmail
	}

	out, err := s.client.CreateCheckoutSession(ctx, plan, email)
	if err != nil {
		if !s.allowBypass {
			return nil, err
		}
		s.logger.Warn().Err(err).Str("plan", plan).Msg("Checkout failed, bypassing payment")
		return &response_models.CheckoutResponse{Bypassed: true}, nil
	}
	return &response_models.CheckoutResponse{URL: out.URL}, nil
}
