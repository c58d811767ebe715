package request_models

type StartSessionRequest struct {
	PlanType string `json:"plan_type" binding:"required"`
	Email    string `json:"email,omitempty"`
}

type SaveAnswersRequest struct {
	StageID string            `json:"stage_id" binding:"required"`
	Answers map[string]string `json:"answers" binding:"required"`
}

type JumpRequest struct {
	StageID string `json:"stage_id" binding:"required"`
}

type ImproveRequest struct {
	TargetScore *int `json:"target_score,omitempty" binding:"omitempty,min=1,max=100"`
}
