package response_models

import "bizplan/internal/questionnaire"

type QuestionView struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Value       string   `json:"value"`
}

type StageView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Questions []QuestionView `json:"questions"`
}

type WizardStateResponse struct {
	SessionID       string    `json:"session_id"`
	PlanType        string    `json:"plan_type"`
	Stage           StageView `json:"stage"`
	CurrentStep     int       `json:"current_step"`
	TotalSteps      int       `json:"total_steps"`
	Progress        float64   `json:"progress"`
	CanProceed      bool      `json:"can_proceed"`
	IsReview        bool      `json:"is_review"`
	SubmissionState string    `json:"submission_state"`
	LastError       string    `json:"last_error,omitempty"`
}

type SessionCreatedResponse struct {
	SessionID string              `json:"session_id"`
	Token     string              `json:"token"`
	ExpiresIn int64               `json:"expires_in"`
	State     WizardStateResponse `json:"state"`
}

type PreviewItemView struct {
	QuestionID string `json:"question_id"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	Truncated  bool   `json:"truncated"`
}

type StagePreviewView struct {
	StageID     string            `json:"stage_id"`
	Title       string            `json:"title"`
	Items       []PreviewItemView `json:"items"`
	EditStageID string            `json:"edit_stage_id"`
}

type ReviewResponse struct {
	Plan   PlanOffer          `json:"plan"`
	Stages []StagePreviewView `json:"stages"`
}

type SubmissionResponse struct {
	State  string          `json:"state"`
	Demo   bool            `json:"demo"`
	Result *AnalysisResult `json:"result,omitempty"`
}

type ResultsResponse struct {
	Result             AnalysisResult                  `json:"result"`
	Inputs             questionnaire.SubmissionPayload `json:"inputs"`
	ScoreLabel         string                          `json:"score_label"`
	ImprovementOffered bool                            `json:"improvement_offered"`
}
