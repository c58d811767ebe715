package services

import (
	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
	"bizplan/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlans() []response_models.PlanOffer
	GetPlanInfoByCode(code string) (response_models.PlanOffer, error)
	GetCatalog() response_models.CatalogResponse
}

func NewPlanService(catalog *questionnaire.Catalog) PlanServiceInterface {
	return &PlanService{
		catalog: catalog,
	}
}

type PlanService struct {
	catalog *questionnaire.Catalog
}

func (p *PlanService) GetPlans() []response_models.PlanOffer {
	plans := p.catalog.Plans()
	out := make([]response_models.PlanOffer, 0, len(plans))
	for _, plan := range plans {
		out = append(out, PlanOfferView(plan))
	}
	return out
}

func (p *PlanService) GetPlanInfoByCode(code string) (response_models.PlanOffer, error) {
	plan, ok := p.catalog.Plan(code)
	if !ok {
		return response_models.PlanOffer{}, utils.ErrUnknownPlan
	}
	return PlanOfferView(plan), nil
}

func (p *PlanService) GetCatalog() response_models.CatalogResponse {
	stages := p.catalog.Stages()
	resp := response_models.CatalogResponse{
		Stages: make([]response_models.StageView, 0, len(stages)),
		Plans:  p.GetPlans(),
	}
	for _, s := range stages {
		resp.Stages = append(resp.Stages, StageView(s, nil))
	}
	return resp
}

func PlanOfferView(plan questionnaire.Plan) response_models.PlanOffer {
	return response_models.PlanOffer{
		Code:     plan.Code,
		Name:     plan.Name,
		Price:    plan.Price,
		Currency: plan.Currency,
		Features: plan.Features,
	}
}
