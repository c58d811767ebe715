package request_models

type CheckoutRequest struct {
	Plan  string `json:"plan" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// ImprovementRequest is the body of the analysis service's /improve call.
type ImprovementRequest struct {
	AnalysisID   string `json:"analysis_id"`
	CurrentScore int    `json:"current_score"`
	TargetScore  int    `json:"target_score"`
}
