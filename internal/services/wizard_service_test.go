package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizplan/internal/models/request_models"
	"bizplan/internal/questionnaire"
	"bizplan/internal/storage"
	"bizplan/pkg/utils"

	"github.com/rs/zerolog"
)

type wizardFixture struct {
	catalog  *questionnaire.Catalog
	client   *fakeClient
	store    *storage.MemoryStore
	sessions *SessionManager
	wizard   *WizardService
	results  *ResultsService
}

func newWizardFixture(policy FallbackPolicy) *wizardFixture {
	f := &wizardFixture{
		catalog:  questionnaire.Default(),
		client:   &fakeClient{},
		store:    storage.NewMemoryStore(),
		sessions: NewSessionManager(time.Hour),
	}
	f.wizard = NewWizardService(f.catalog, f.sessions, f.store, f.client, WizardOptions{
		Secret:     []byte("secret"),
		SessionTTL: time.Hour,
		Submission: SubmissionOptions{Policy: policy, Timeout: time.Second},
	}, zerolog.Nop())
	f.results = NewResultsService(f.store, f.client, f.sessions, 75, zerolog.Nop())
	return f
}

// requiredAnswers returns a valid value for every required question of stage.
func requiredAnswers(stage questionnaire.Stage) map[string]string {
	out := map[string]string{}
	for _, q := range stage.Questions {
		if !q.Required {
			continue
		}
		if q.Type == questionnaire.TypeSelect {
			out[q.ID] = q.Options[0]
		} else {
			out[q.ID] = "answer for " + q.ID
		}
	}
	return out
}

func (f *wizardFixture) completeWizard(t *testing.T, id string) {
	t.Helper()
	for _, stage := range f.catalog.DataStages() {
		if _, err := f.wizard.SaveAnswers(id, request_models.SaveAnswersRequest{StageID: stage.ID, Answers: requiredAnswers(stage)}); err != nil {
			t.Fatalf("SaveAnswers(%s): %v", stage.ID, err)
		}
		if _, err := f.wizard.Advance(id); err != nil {
			t.Fatalf("Advance from %s: %v", stage.ID, err)
		}
	}
}

func TestStartSessionRejectsBadInput(t *testing.T) {
	f := newWizardFixture(FallbackFail)
	ctx := context.Background()

	if _, err := f.wizard.StartSession(ctx, request_models.StartSessionRequest{PlanType: "gold"}); !errors.Is(err, utils.ErrUnknownPlan) {
		t.Errorf("unknown plan: %v", err)
	}
	if _, err := f.wizard.StartSession(ctx, request_models.StartSessionRequest{PlanType: "pro", Email: "nope"}); !errors.Is(err, utils.ErrInvalidEmail) {
		t.Errorf("bad email: %v", err)
	}
	if f.sessions.Len() != 0 {
		t.Errorf("rejected starts created %d sessions", f.sessions.Len())
	}
}

func TestStartSessionStoresPlanAndIssuesToken(t *testing.T) {
	f := newWizardFixture(FallbackFail)
	created, err := f.wizard.StartSession(context.Background(), request_models.StartSessionRequest{PlanType: "pro", Email: "a@b.co"})
	if err != nil {
		t.Fatal(err)
	}

	plan, ok, _ := f.store.Get(context.Background(), storage.KeysFor(created.SessionID).SelectedPlan)
	if !ok || plan != "pro" {
		t.Errorf("selected plan = %q, %v", plan, ok)
	}
	claims, err := utils.ValidateSessionToken([]byte("secret"), created.Token)
	if err != nil || claims.SessionID != created.SessionID {
		t.Errorf("token claims = %+v, %v", claims, err)
	}
	st := created.State
	if st.CurrentStep != 1 || st.TotalSteps != 9 || st.Stage.ID != "basics" || st.CanProceed || st.SubmissionState != string(StateIdle) {
		t.Errorf("initial state = %+v", st)
	}
}

func TestWizardNavigationErrorsKeepPosition(t *testing.T) {
	f := newWizardFixture(FallbackFail)
	created, _ := f.wizard.StartSession(context.Background(), request_models.StartSessionRequest{PlanType: "standard"})
	id := created.SessionID

	st, err := f.wizard.Advance(id)
	var verr *questionnaire.ValidationError
	if !errors.As(err, &verr) || st.Stage.ID != "basics" {
		t.Fatalf("Advance on empty stage = %v, stage %q", err, st.Stage.ID)
	}
	if _, err := f.wizard.Retreat(id); !errors.Is(err, questionnaire.ErrFirstStage) {
		t.Errorf("Retreat at first stage = %v", err)
	}
	st, err = f.wizard.SaveAnswers(id, request_models.SaveAnswersRequest{StageID: "basics", Answers: map[string]string{"stage": "bogus"}})
	if !errors.Is(err, questionnaire.ErrInvalidOption) {
		t.Errorf("bad option = %v", err)
	}
	st, err = f.wizard.JumpTo(id, "finances")
	if err != nil || st.Stage.ID != "finances" || st.CurrentStep != 7 {
		t.Errorf("JumpTo = %+v, %v", st, err)
	}
	if _, err := f.wizard.GetState("missing"); !errors.Is(err, utils.ErrSessionNotFound) {
		t.Errorf("GetState(missing) = %v", err)
	}
}

func TestWizardEndToEnd(t *testing.T) {
	f := newWizardFixture(FallbackFail)
	ctx := context.Background()
	created, _ := f.wizard.StartSession(ctx, request_models.StartSessionRequest{PlanType: "pro", Email: "a@b.co"})
	id := created.SessionID

	if _, err := f.results.GetResults(ctx, id); !errors.Is(err, utils.ErrMissingPriorResult) {
		t.Fatalf("results before submit = %v", err)
	}

	f.completeWizard(t, id)
	st, _ := f.wizard.GetState(id)
	if !st.IsReview || st.Progress != 100 || !st.CanProceed {
		t.Fatalf("state after completing = %+v", st)
	}

	review, err := f.wizard.Review(id)
	if err != nil {
		t.Fatal(err)
	}
	if review.Plan.Code != "pro" || review.Plan.Price != 199 || len(review.Stages) != 8 {
		t.Errorf("review plan %+v, %d stages", review.Plan, len(review.Stages))
	}
	if len(review.Stages[0].Items) != 3 || review.Stages[0].EditStageID != "basics" {
		t.Errorf("basics preview = %+v", review.Stages[0])
	}

	sub, err := f.wizard.Submit(ctx, id)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.State != string(StateSuccess) || sub.Result == nil || sub.Demo {
		t.Errorf("submission = %+v", sub)
	}
	if _, err := f.wizard.Submit(ctx, id); !errors.Is(err, utils.ErrAlreadySubmitted) {
		t.Errorf("second Submit = %v", err)
	}

	res, err := f.results.GetResults(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if res.ScoreLabel != LabelModerate || !res.ImprovementOffered || res.Inputs.PlanType != "pro" || res.Inputs.Email != "a@b.co" {
		t.Errorf("results = %+v", res)
	}

	imp, err := f.results.Improve(ctx, id, nil)
	if err != nil {
		t.Fatal(err)
	}
	if imp.EstimatedNewScore != 75 {
		t.Errorf("improve = %+v", imp)
	}
	if r := f.client.improveReqs[0]; r.AnalysisID != "an-1" || r.CurrentScore != 58 || r.TargetScore != 75 {
		t.Errorf("improve request = %+v", r)
	}
	target := 90
	if _, err := f.results.Improve(ctx, id, &target); err != nil || f.client.improveReqs[1].TargetScore != 90 {
		t.Errorf("improve with target = %v, %+v", err, f.client.improveReqs)
	}

	// The plan is generated from the stored payload even after the live
	// answers change.
	if _, err := f.wizard.StartOver(id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.results.GeneratePlan(ctx, id); err != nil {
		t.Fatal(err)
	}
	if got := f.client.planInputs[0].Answer("basics", "name"); got != "answer for name" {
		t.Errorf("plan payload basics.name = %q", got)
	}
}

func TestSubmitRequiresEveryStage(t *testing.T) {
	f := newWizardFixture(FallbackFail)
	created, _ := f.wizard.StartSession(context.Background(), request_models.StartSessionRequest{PlanType: "pro"})
	id := created.SessionID
	_, _ = f.wizard.JumpTo(id, "review")

	_, err := f.wizard.Submit(context.Background(), id)
	var verr *questionnaire.ValidationError
	if !errors.As(err, &verr) || verr.StageID != "basics" {
		t.Fatalf("Submit = %v, want basics validation error", err)
	}
	if f.client.calls() != 0 {
		t.Errorf("outbound calls = %d", f.client.calls())
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	f := newWizardFixture(FallbackFail)
	created, _ := f.wizard.StartSession(context.Background(), request_models.StartSessionRequest{PlanType: "pro"})
	id := created.SessionID
	f.completeWizard(t, id)
	_, _ = f.wizard.JumpTo(id, "finances")

	if _, err := f.wizard.Submit(context.Background(), id); !errors.Is(err, utils.ErrNotOnReview) {
		t.Fatalf("Submit from finances = %v", err)
	}
	if f.client.calls() != 0 {
		t.Errorf("outbound calls = %d", f.client.calls())
	}

	_, _ = f.wizard.JumpTo(id, "review")
	if _, err := f.wizard.Submit(context.Background(), id); err != nil {
		t.Errorf("Submit from review = %v", err)
	}
}

func TestStartOverAndEndSession(t *testing.T) {
	f := newWizardFixture(FallbackFail)
	f.client.analyzeErrs = []error{errUnreachable}
	created, _ := f.wizard.StartSession(context.Background(), request_models.StartSessionRequest{PlanType: "pro"})
	id := created.SessionID
	f.completeWizard(t, id)

	if _, err := f.wizard.Submit(context.Background(), id); !errors.Is(err, utils.ErrNetwork) {
		t.Fatalf("Submit = %v", err)
	}
	st, _ := f.wizard.GetState(id)
	if st.SubmissionState != string(StateFailed) || st.LastError == "" || !st.IsReview {
		t.Errorf("state after failure = %+v", st)
	}

	st, err := f.wizard.StartOver(id)
	if err != nil {
		t.Fatal(err)
	}
	if st.CurrentStep != 1 || st.SubmissionState != string(StateIdle) || st.Stage.Questions[0].Value != "" {
		t.Errorf("state after StartOver = %+v", st)
	}
	if _, err := f.wizard.Retry(context.Background(), id); !errors.Is(err, utils.ErrNothingToRetry) {
		t.Errorf("Retry after StartOver = %v", err)
	}

	s, _ := f.sessions.Get(id)
	if err := f.wizard.EndSession(id); err != nil {
		t.Fatal(err)
	}
	if s.Context().Err() == nil {
		t.Error("session context still live after EndSession")
	}
	if err := f.wizard.EndSession(id); !errors.Is(err, utils.ErrSessionNotFound) {
		t.Errorf("second EndSession = %v", err)
	}
}

func TestCheckoutService(t *testing.T) {
	catalog := questionnaire.Default()
	ctx := context.Background()

	tests := []struct {
		name     string
		client   *fakeClient
		bypass   bool
		req      request_models.CheckoutRequest
		wantErr  error
		wantURL  string
		bypassed bool
	}{
		{"success", &fakeClient{checkoutURL: "https://pay.test/1"}, false, request_models.CheckoutRequest{Plan: "pro", Email: "a@b.co"}, nil, "https://pay.test/1", false},
		{"unknown plan", &fakeClient{}, false, request_models.CheckoutRequest{Plan: "gold", Email: "a@b.co"}, utils.ErrUnknownPlan, "", false},
		{"bad email", &fakeClient{}, true, request_models.CheckoutRequest{Plan: "pro", Email: "ab.co"}, utils.ErrInvalidEmail, "", false},
		{"failure surfaces", &fakeClient{checkoutErr: errUnreachable}, false, request_models.CheckoutRequest{Plan: "pro", Email: "a@b.co"}, utils.ErrNetwork, "", false},
		{"failure bypassed", &fakeClient{checkoutErr: errUnreachable}, true, request_models.CheckoutRequest{Plan: "standard", Email: "a@b.co"}, nil, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCheckoutService(catalog, tc.client, tc.bypass, zerolog.Nop())
			out, err := svc.CreateCheckout(ctx, tc.req)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if out.URL != tc.wantURL || out.Bypassed != tc.bypassed {
				t.Errorf("out = %+v", out)
			}
		})
	}
}

func TestScoreLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, LabelGood}, {75, LabelGood}, {74, LabelModerate}, {50, LabelModerate}, {49, LabelHigh}, {0, LabelHigh},
	}
	for _, tc := range tests {
		if got := ScoreLabel(tc.score); got != tc.want {
			t.Errorf("ScoreLabel(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestPlanServiceCatalog(t *testing.T) {
	svc := NewPlanService(questionnaire.Default())
	cat := svc.GetCatalog()
	if len(cat.Stages) != 9 || len(cat.Plans) != 2 {
		t.Errorf("catalog has %d stages, %d plans", len(cat.Stages), len(cat.Plans))
	}
	if _, err := svc.GetPlanInfoByCode("gold"); !errors.Is(err, utils.ErrUnknownPlan) {
		t.Errorf("GetPlanInfoByCode(gold) = %v", err)
	}
}
