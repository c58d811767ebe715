package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"bizplan/internal/models/request_models"
	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
	"bizplan/internal/storage"
	"bizplan/pkg/utils"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	LabelGood     = "Good Probability"
	LabelModerate = "Moderate Risk"
	LabelHigh     = "High Risk"

	goodScore     = 75
	moderateScore = 50
)

type ResultsServiceInterface interface {
	GetResults(ctx context.Context, sessionID string) (*response_models.ResultsResponse, error)
	Improve(ctx context.Context, sessionID string, targetScore *int) (*response_models.ImprovementResponse, error)
	GeneratePlan(ctx context.Context, sessionID string) (*response_models.BusinessPlanResponse, error)
}

// ResultsService serves stored analysis results and the follow-up calls
// built on them. Each session has at most one Improve and one GeneratePlan
// call outstanding; concurrent callers share it.
type ResultsService struct {
	store         storage.KeyValueStore
	client        AnalysisClient
	sessions      *SessionManager
	defaultTarget int
	logger        zerolog.Logger

	flights singleflight.Group

	mu        sync.Mutex
	improving map[string]*improveFlight
}

// improveFlight is the target of a session's running Improve call and the
// number of callers waiting on it.
type improveFlight struct {
	target  int
	callers int
}

func NewResultsService(store storage.KeyValueStore, client AnalysisClient, sessions *SessionManager, defaultTarget int, logger zerolog.Logger) *ResultsService {
	if defaultTarget <= 0 {
		defaultTarget = goodScore
	}
	return &ResultsService{
		store:         store,
		client:        client,
		sessions:      sessions,
		defaultTarget: defaultTarget,
		logger:        logger,
		improving:     make(map[string]*improveFlight),
	}
}

func ScoreLabel(score int) string {
	switch {
	case score >= goodScore:
		return LabelGood
	case score >= moderateScore:
		return LabelModerate
	default:
		return LabelHigh
	}
}

func (r *ResultsService) GetResults(ctx context.Context, sessionID string) (*response_models.ResultsResponse, error) {
	result, err := r.loadResult(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	inputs, err := r.loadInputs(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &response_models.ResultsResponse{
		Result:             *result,
		Inputs:             *inputs,
		ScoreLabel:         ScoreLabel(result.SuccessProbability),
		ImprovementOffered: result.ImprovementAvailable && result.SuccessProbability < goodScore,
	}, nil
}

func (r *ResultsService) Improve(ctx context.Context, sessionID string, targetScore *int) (*response_models.ImprovementResponse, error) {
	result, err := r.loadResult(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	target := r.defaultTarget
	if targetScore != nil {
		target = *targetScore
	}

	req := request_models.ImprovementRequest{
		AnalysisID:   result.AnalysisID,
		CurrentScore: result.SuccessProbability,
		TargetScore:  target,
	}
	if err := r.joinImprove(sessionID, target); err != nil {
		return nil, err
	}
	defer r.leaveImprove(sessionID)

	v, err, shared := r.flights.Do(sessionID+"/"+opImprove, func() (interface{}, error) {
		return r.client.Improve(r.sessions.Context(sessionID), req)
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Improve call failed")
		return nil, err
	}
	r.logger.Debug().Str("session_id", sessionID).Bool("shared", shared).Msg("Improve call done")
	return v.(*response_models.ImprovementResponse), nil
}

// joinImprove registers a caller for the session's Improve call. A caller
// asking for a different target than the running call is rejected.
func (r *ResultsService) joinImprove(sessionID string, target int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.improving[sessionID]
	if !ok {
		f = &improveFlight{target: target}
		r.improving[sessionID] = f
	} else if f.target != target {
		return utils.ErrImproveInProgress
	}
	f.callers++
	return nil
}

func (r *ResultsService) leaveImprove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.improving[sessionID]
	if f == nil {
		return
	}
	f.callers--
	if f.callers == 0 {
		delete(r.improving, sessionID)
	}
}

// GeneratePlan sends the stored payload, not a fresh one built from the
// live answers.
func (r *ResultsService) GeneratePlan(ctx context.Context, sessionID string) (*response_models.BusinessPlanResponse, error) {
	inputs, err := r.loadInputs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	v, err, shared := r.flights.Do(sessionID+"/"+opGeneratePlan, func() (interface{}, error) {
		return r.client.GeneratePlan(r.sessions.Context(sessionID), *inputs)
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Generate plan call failed")
		return nil, err
	}
	r.logger.Debug().Str("session_id", sessionID).Bool("shared", shared).Msg("Generate plan call done")
	return v.(*response_models.BusinessPlanResponse), nil
}

func (r *ResultsService) loadResult(ctx context.Context, sessionID string) (*response_models.AnalysisResult, error) {
	raw, err := r.get(ctx, storage.KeysFor(sessionID).AnalysisResult)
	if err != nil {
		return nil, err
	}
	var result response_models.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decode stored analysis result: %w", err)
	}
	return &result, nil
}

func (r *ResultsService) loadInputs(ctx context.Context, sessionID string) (*questionnaire.SubmissionPayload, error) {
	raw, err := r.get(ctx, storage.KeysFor(sessionID).BusinessInputs)
	if err != nil {
		return nil, err
	}
	var payload questionnaire.SubmissionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode stored business inputs: %w", err)
	}
	return &payload, nil
}

func (r *ResultsService) get(ctx context.Context, key string) (string, error) {
	v, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if !ok {
		return "", utils.ErrMissingPriorResult
	}
	return v, nil
}
