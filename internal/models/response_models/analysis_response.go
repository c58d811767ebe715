package response_models

import "encoding/json"

// AnalysisResult is what the analysis service returns from /analyze. The
// market, competitor and scoring sections are kept as raw JSON because their
// inner shape belongs to the service.
type AnalysisResult struct {
	AnalysisID           string          `json:"analysis_id,omitempty"`
	SuccessProbability   int             `json:"success_probability"`
	RiskLevel            string          `json:"risk_level"`
	Summary              string          `json:"summary"`
	MarketAnalysis       json.RawMessage `json:"market_analysis,omitempty"`
	CompetitorAnalysis   json.RawMessage `json:"competitor_analysis,omitempty"`
	ScoringBreakdown     json.RawMessage `json:"scoring_breakdown,omitempty"`
	Recommendations      []string        `json:"recommendations"`
	ImprovementAvailable bool            `json:"improvement_available"`
	Disclaimer           string          `json:"disclaimer"`
}

type ImprovementSuggestion struct {
	Area            string `json:"area"`
	Suggestion      string `json:"suggestion"`
	PotentialImpact string `json:"potential_impact"`
}

type Improvements struct {
	Suggestions []ImprovementSuggestion `json:"suggestions"`
	Note        string                  `json:"note,omitempty"`
}

type ImprovementResponse struct {
	CurrentScore      int          `json:"current_score"`
	EstimatedNewScore int          `json:"estimated_new_score"`
	Improvements      Improvements `json:"improvements"`
}

type PlanSection struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"key_points"`
}

type BusinessPlan struct {
	Sections map[string]PlanSection `json:"sections"`
}

type BusinessPlanResponse struct {
	BusinessPlan BusinessPlan `json:"business_plan"`
	Disclaimer   string       `json:"disclaimer"`
}

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

type CheckoutResponse struct {
	URL      string `json:"url,omitempty"`
	Bypassed bool   `json:"bypassed"`
}
