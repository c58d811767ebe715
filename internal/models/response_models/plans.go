package response_models

type PlanOffer struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Currency string   `json:"currency"`
	Features []string `json:"features,omitempty"`
}

type CatalogResponse struct {
	Stages []StageView `json:"stages"`
	Plans  []PlanOffer `json:"plans"`
}
