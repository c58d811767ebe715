package services

import (
	"context"
	"errors"
	"sync"

	"bizplan/internal/models/request_models"
	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
	"bizplan/internal/storage"
)

var errUnreachable = &NetworkError{Op: opAnalyze, Kind: KindTransport, Err: errors.New("connection refused")}

// fakeClient records calls. Analyze blocks on gate when it is set and fails
// with the next entry of analyzeErrs while any remain. Improve and
// GeneratePlan block on followGate the same way and track how many of them
// run at once.
type fakeClient struct {
	mu           sync.Mutex
	gate         chan struct{}
	started      chan struct{}
	followGate   chan struct{}
	followStart  chan struct{}
	followActive int
	followPeak   int
	analyzeErrs  []error
	analyzeCalls int
	payloads     []questionnaire.SubmissionPayload
	improveReqs  []request_models.ImprovementRequest
	planInputs   []questionnaire.SubmissionPayload
	checkoutErr  error
	checkoutURL  string
}

func (f *fakeClient) Analyze(ctx context.Context, payload questionnaire.SubmissionPayload) (*response_models.AnalysisResult, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.payloads = append(f.payloads, payload)
	var err error
	if len(f.analyzeErrs) > 0 {
		err = f.analyzeErrs[0]
		f.analyzeErrs = f.analyzeErrs[1:]
	}
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, classifyTransport(opAnalyze, ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}
	return &response_models.AnalysisResult{
		AnalysisID:           "an-1",
		SuccessProbability:   58,
		RiskLevel:            "moderate",
		Summary:              "ok",
		Recommendations:      []string{"validate demand"},
		ImprovementAvailable: true,
	}, nil
}

// follow blocks a follow-up call on followGate and records concurrency.
func (f *fakeClient) follow(ctx context.Context) error {
	f.mu.Lock()
	f.followActive++
	if f.followActive > f.followPeak {
		f.followPeak = f.followActive
	}
	gate, started := f.followGate, f.followStart
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.followActive--
		f.mu.Unlock()
	}()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeClient) peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.followPeak
}

func (f *fakeClient) Improve(ctx context.Context, req request_models.ImprovementRequest) (*response_models.ImprovementResponse, error) {
	f.mu.Lock()
	f.improveReqs = append(f.improveReqs, req)
	f.mu.Unlock()
	if err := f.follow(ctx); err != nil {
		return nil, err
	}
	return &response_models.ImprovementResponse{
		CurrentScore:      req.CurrentScore,
		EstimatedNewScore: req.TargetScore,
		Improvements: response_models.Improvements{
			Suggestions: []response_models.ImprovementSuggestion{{Area: "budget", Suggestion: "raise more", PotentialImpact: "+5"}},
		},
	}, nil
}

func (f *fakeClient) GeneratePlan(ctx context.Context, payload questionnaire.SubmissionPayload) (*response_models.BusinessPlanResponse, error) {
	f.mu.Lock()
	f.planInputs = append(f.planInputs, payload)
	f.mu.Unlock()
	if err := f.follow(ctx); err != nil {
		return nil, err
	}
	return &response_models.BusinessPlanResponse{
		BusinessPlan: response_models.BusinessPlan{Sections: map[string]response_models.PlanSection{
			"executive_summary": {Title: "Executive Summary", Content: "...", KeyPoints: []string{"a"}},
		}},
	}, nil
}

func (f *fakeClient) CreateCheckoutSession(ctx context.Context, plan, email string) (*response_models.CheckoutSessionResponse, error) {
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &response_models.CheckoutSessionResponse{URL: f.checkoutURL}, nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analyzeCalls
}

// failingStore rejects every batch write.
type failingStore struct {
	*storage.MemoryStore
}

func (failingStore) SetMany(context.Context, map[string]string) error {
	return errors.New("disk full")
}
