package services

import (
	"context"
	"strings"
	"time"

	"bizplan/internal/models/request_models"
	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
	"bizplan/internal/storage"
	"bizplan/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type WizardServiceInterface interface {
	StartSession(ctx context.Context, req request_models.StartSessionRequest) (*response_models.SessionCreatedResponse, error)
	GetState(sessionID string) (*response_models.WizardStateResponse, error)
	SaveAnswers(sessionID string, req request_models.SaveAnswersRequest) (*response_models.WizardStateResponse, error)
	Advance(sessionID string) (*response_models.WizardStateResponse, error)
	Retreat(sessionID string) (*response_models.WizardStateResponse, error)
	JumpTo(sessionID, stageID string) (*response_models.WizardStateResponse, error)
	Review(sessionID string) (*response_models.ReviewResponse, error)
	Submit(ctx context.Context, sessionID string) (*response_models.SubmissionResponse, error)
	Retry(ctx context.Context, sessionID string) (*response_models.SubmissionResponse, error)
	StartOver(sessionID string) (*response_models.WizardStateResponse, error)
	EndSession(sessionID string) error
}

type WizardOptions struct {
	Secret     []byte
	SessionTTL time.Duration
	Submission SubmissionOptions
}

type WizardService struct {
	catalog  *questionnaire.Catalog
	sessions *SessionManager
	store    storage.KeyValueStore
	client   AnalysisClient
	opts     WizardOptions
	logger   zerolog.Logger
}

func NewWizardService(catalog *questionnaire.Catalog, sessions *SessionManager, store storage.KeyValueStore, client AnalysisClient, opts WizardOptions, logger zerolog.Logger) *WizardService {
	return &WizardService{
		catalog:  catalog,
		sessions: sessions,
		store:    store,
		client:   client,
		opts:     opts,
		logger:   logger,
	}
}

func (w *WizardService) StartSession(ctx context.Context, req request_models.StartSessionRequest) (*response_models.SessionCreatedResponse, error) {
	if _, ok := w.catalog.Plan(req.PlanType); !ok {
		return nil, utils.ErrUnknownPlan
	}
	if req.Email != "" && !ValidEmail(req.Email) {
		return nil, utils.ErrInvalidEmail
	}

	id := uuid.NewString()
	keys := storage.KeysFor(id)
	if err := w.store.Set(ctx, keys.SelectedPlan, req.PlanType); err != nil {
		return nil, utils.ErrDatabaseError
	}

	token, err := utils.CreateSessionToken(w.opts.Secret, id, req.PlanType, w.opts.SessionTTL)
	if err != nil {
		return nil, err
	}

	s := newSession(id, req.PlanType, req.Email, w.catalog, w.newCoordinator(id, keys))
	w.sessions.Put(s)
	w.logger.Info().Str("session_id", id).Str("plan_type", req.PlanType).Msg("Session started")

	s.mu.Lock()
	state := w.stateLocked(s)
	s.mu.Unlock()

	return &response_models.SessionCreatedResponse{
		SessionID: id,
		Token:     token,
		ExpiresIn: int64(w.opts.SessionTTL / time.Second),
		State:     *state,
	}, nil
}

func (w *WizardService) GetState(sessionID string) (*response_models.WizardStateResponse, error) {
	return w.withSession(sessionID, func(s *Session) error { return nil })
}

func (w *WizardService) SaveAnswers(sessionID string, req request_models.SaveAnswersRequest) (*response_models.WizardStateResponse, error) {
	return w.withSession(sessionID, func(s *Session) error {
		return s.answers.SetStage(req.StageID, req.Answers)
	})
}

func (w *WizardService) Advance(sessionID string) (*response_models.WizardStateResponse, error) {
	return w.withSession(sessionID, func(s *Session) error { return s.nav.Advance() })
}

func (w *WizardService) Retreat(sessionID string) (*response_models.WizardStateResponse, error) {
	return w.withSession(sessionID, func(s *Session) error { return s.nav.Retreat() })
}

func (w *WizardService) JumpTo(sessionID, stageID string) (*response_models.WizardStateResponse, error) {
	return w.withSession(sessionID, func(s *Session) error { return s.nav.JumpTo(stageID) })
}

func (w *WizardService) Review(sessionID string) (*response_models.ReviewResponse, error) {
	s, err := w.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	previews := questionnaire.BuildReview(w.catalog, s.answers)
	s.mu.Unlock()

	plan, _ := w.catalog.Plan(s.PlanType)
	resp := &response_models.ReviewResponse{
		Plan:   PlanOfferView(plan),
		Stages: make([]response_models.StagePreviewView, 0, len(previews)),
	}
	for _, p := range previews {
		view := response_models.StagePreviewView{
			StageID:     p.StageID,
			Title:       p.Title,
			EditStageID: p.EditStageID,
			Items:       make([]response_models.PreviewItemView, 0, len(p.Items)),
		}
		for _, it := range p.Items {
			view.Items = append(view.Items, response_models.PreviewItemView{
				QuestionID: it.QuestionID,
				Label:      it.Label,
				Value:      it.Value,
				Truncated:  it.Truncated,
			})
		}
		resp.Stages = append(resp.Stages, view)
	}
	return resp, nil
}

// Submit is the forward action of the review stage. It validates every data
// stage, builds the payload and hands it to the session's coordinator.
func (w *WizardService) Submit(ctx context.Context, sessionID string) (*response_models.SubmissionResponse, error) {
	s, err := w.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if !s.nav.IsTerminal() {
		s.mu.Unlock()
		return nil, utils.ErrNotOnReview
	}
	for _, stage := range w.catalog.DataStages() {
		if err := questionnaire.Validate(stage, s.answers); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	payload := questionnaire.BuildPayload(w.catalog, s.answers, s.PlanType, s.Email)
	sub := s.submission
	s.mu.Unlock()

	outcome, err := sub.Submit(ctx, payload)
	if err != nil {
		return nil, err
	}
	return submissionView(sub.State(), outcome), nil
}

func (w *WizardService) Retry(ctx context.Context, sessionID string) (*response_models.SubmissionResponse, error) {
	s, err := w.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sub := s.Submission()
	outcome, err := sub.Retry(ctx)
	if err != nil {
		return nil, err
	}
	return submissionView(sub.State(), outcome), nil
}

// StartOver clears answers and position and gives the session a fresh
// coordinator. An in-flight submission is aborted.
func (w *WizardService) StartOver(sessionID string) (*response_models.WizardStateResponse, error) {
	return w.withSession(sessionID, func(s *Session) error {
		s.submission.Abort()
		s.submission = w.newCoordinator(s.ID, s.Keys)
		s.answers.Clear()
		s.nav.Reset()
		w.logger.Info().Str("session_id", s.ID).Msg("Session restarted")
		return nil
	})
}

func (w *WizardService) EndSession(sessionID string) error {
	if err := w.sessions.Remove(sessionID); err != nil {
		return err
	}
	w.logger.Info().Str("session_id", sessionID).Msg("Session ended")
	return nil
}

func (w *WizardService) newCoordinator(sessionID string, keys storage.SessionKeys) *SubmissionCoordinator {
	opts := w.opts.Submission
	opts.Logger = w.logger.With().Str("session_id", sessionID).Logger()
	return NewSubmissionCoordinator(w.client, w.store, keys, opts)
}

// withSession runs fn under the session lock and returns the resulting
// state. The state is returned even when fn fails so callers keep their
// position.
func (w *WizardService) withSession(sessionID string, fn func(s *Session) error) (*response_models.WizardStateResponse, error) {
	s, err := w.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s); err != nil {
		return w.stateLocked(s), err
	}
	return w.stateLocked(s), nil
}

func (w *WizardService) stateLocked(s *Session) *response_models.WizardStateResponse {
	state := &response_models.WizardStateResponse{
		SessionID:       s.ID,
		PlanType:        s.PlanType,
		Stage:           StageView(s.nav.Current(), s.answers),
		CurrentStep:     s.nav.Index() + 1,
		TotalSteps:      s.nav.Total(),
		Progress:        s.nav.Progress(),
		CanProceed:      s.nav.CanProceed(),
		IsReview:        s.nav.IsTerminal(),
		SubmissionState: string(s.submission.State()),
	}
	if err := s.submission.LastError(); err != nil {
		state.LastError = err.Error()
	}
	return state
}

// StageView renders a stage with the session's current answers. Pass a nil
// AnswerSet for a blank form.
func StageView(stage questionnaire.Stage, answers *questionnaire.AnswerSet) response_models.StageView {
	view := response_models.StageView{
		ID:        stage.ID,
		Title:     stage.Title,
		Subtitle:  stage.Subtitle,
		Questions: make([]response_models.QuestionView, 0, len(stage.Questions)),
	}
	for _, q := range stage.Questions {
		qv := response_models.QuestionView{
			ID:          q.ID,
			Label:       q.Label,
			Type:        string(q.Type),
			Required:    q.Required,
			Options:     q.Options,
			Placeholder: q.Placeholder,
		}
		if answers != nil {
			qv.Value = answers.Get(stage.ID, q.ID)
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

func submissionView(state SubmissionState, o *Outcome) *response_models.SubmissionResponse {
	resp := &response_models.SubmissionResponse{State: string(state)}
	if o != nil {
		result := o.Result
		resp.Result = &result
		resp.Demo = o.Demo
	}
	return resp
}

// ValidEmail is the same loose check the checkout form applies.
func ValidEmail(email string) bool {
	return strings.Contains(strings.TrimSpace(email), "@")
}
