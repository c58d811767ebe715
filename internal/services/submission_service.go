package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
	"bizplan/internal/storage"
	"bizplan/pkg/utils"

	"github.com/rs/zerolog"
)

type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateSuccess    SubmissionState = "success"
	StateFailed     SubmissionState = "failed"
)

// FallbackPolicy decides what a failed analysis call turns into.
type FallbackPolicy string

const (
	FallbackFail FallbackPolicy = "fail"
	FallbackDemo FallbackPolicy = "demo"
)

func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FallbackFail:
		return FallbackFail, nil
	case FallbackDemo:
		return FallbackDemo, nil
	}
	return "", fmt.Errorf("unknown fallback policy %q", s)
}

// Outcome is a successful submission: the result and the payload that
// produced it.
type Outcome struct {
	Result  response_models.AnalysisResult
	Payload questionnaire.SubmissionPayload
	Demo    bool
}

type SubmissionOptions struct {
	Policy  FallbackPolicy
	Timeout time.Duration
	Logger  zerolog.Logger
}

type submitResult struct {
	outcome *Outcome
	err     error
}

// SubmissionCoordinator owns one session's analyze call. States go
// idle -> submitting -> success|failed, failed -> submitting on Retry.
// Success is final. At most one call is in flight.
type SubmissionCoordinator struct {
	client AnalysisClient
	store  storage.KeyValueStore
	keys   storage.SessionKeys
	opts   SubmissionOptions

	mu      sync.Mutex
	state   SubmissionState
	payload *questionnaire.SubmissionPayload
	outcome *Outcome
	lastErr error
	attempt uint64
	closed  bool

	baseCtx    context.Context
	baseCancel context.CancelFunc
}

func NewSubmissionCoordinator(client AnalysisClient, store storage.KeyValueStore, keys storage.SessionKeys, opts SubmissionOptions) *SubmissionCoordinator {
	if opts.Policy == "" {
		opts.Policy = FallbackFail
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SubmissionCoordinator{
		client:     client,
		store:      store,
		keys:       keys,
		opts:       opts,
		state:      StateIdle,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// Submit sends payload for analysis and waits for the outcome. If ctx ends
// first, Submit returns ctx.Err() and the call keeps running; its outcome is
// visible through State and Outcome.
func (c *SubmissionCoordinator) Submit(ctx context.Context, payload questionnaire.SubmissionPayload) (*Outcome, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return nil, utils.ErrSessionClosed
	case c.state == StateSubmitting:
		c.mu.Unlock()
		return nil, utils.ErrSubmissionInProgress
	case c.state == StateSuccess:
		c.mu.Unlock()
		return nil, utils.ErrAlreadySubmitted
	}
	c.payload = &payload
	done := c.startLocked()
	c.mu.Unlock()

	return c.wait(ctx, done)
}

// Retry re-sends the payload of the last failed submission.
func (c *SubmissionCoordinator) Retry(ctx context.Context) (*Outcome, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return nil, utils.ErrSessionClosed
	case c.state == StateSubmitting:
		c.mu.Unlock()
		return nil, utils.ErrSubmissionInProgress
	case c.state != StateFailed || c.payload == nil:
		c.mu.Unlock()
		return nil, utils.ErrNothingToRetry
	}
	done := c.startLocked()
	c.mu.Unlock()

	return c.wait(ctx, done)
}

// Abort cancels any in-flight call and closes the coordinator. Completions
// that arrive afterwards are dropped.
func (c *SubmissionCoordinator) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.baseCancel()
}

func (c *SubmissionCoordinator) State() SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SubmissionCoordinator) Outcome() (*Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return nil, false
	}
	o := *c.outcome
	return &o, true
}

func (c *SubmissionCoordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *SubmissionCoordinator) startLocked() <-chan submitResult {
	c.state = StateSubmitting
	c.lastErr = nil
	c.attempt++
	attempt := c.attempt
	payload := *c.payload

	done := make(chan submitResult, 1)
	go c.run(attempt, payload, done)

	c.opts.Logger.Info().Str("op", opAnalyze).Uint64("attempt", attempt).Msg("Submission started")
	return done
}

func (c *SubmissionCoordinator) run(attempt uint64, payload questionnaire.SubmissionPayload, done chan<- submitResult) {
	callCtx := c.baseCtx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(c.baseCtx, c.opts.Timeout)
		defer cancel()
	}

	var outcome *Outcome
	result, err := c.client.Analyze(callCtx, payload)
	switch {
	case err == nil:
		outcome = &Outcome{Result: *result, Payload: payload}
	case c.opts.Policy == FallbackDemo && c.baseCtx.Err() == nil:
		c.opts.Logger.Warn().Err(err).Msg("Analysis failed, substituting demo result")
		outcome = &Outcome{Result: DemoAnalysis(payload), Payload: payload, Demo: true}
		err = nil
	}

	if err == nil && c.baseCtx.Err() == nil {
		err = c.persist(outcome)
	}

	c.mu.Lock()
	if c.closed || attempt != c.attempt {
		c.mu.Unlock()
		done <- submitResult{err: utils.ErrSessionClosed}
		return
	}
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		outcome = nil
	} else {
		c.state = StateSuccess
		c.outcome = outcome
	}
	c.mu.Unlock()

	if err != nil {
		c.opts.Logger.Warn().Err(err).Uint64("attempt", attempt).Msg("Submission failed")
	} else {
		c.opts.Logger.Info().Uint64("attempt", attempt).Bool("demo", outcome.Demo).
			Int("score", outcome.Result.SuccessProbability).Msg("Submission succeeded")
	}
	done <- submitResult{outcome: outcome, err: err}
}

// persist writes result and payload in one atomic batch.
func (c *SubmissionCoordinator) persist(o *Outcome) error {
	result, err := json.Marshal(o.Result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	inputs, err := json.Marshal(o.Payload)
	if err != nil {
		return fmt.Errorf("encode business inputs: %w", err)
	}

	ctx := c.baseCtx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(c.baseCtx, c.opts.Timeout)
		defer cancel()
	}
	if err := c.store.SetMany(ctx, map[string]string{
		c.keys.AnalysisResult: string(result),
		c.keys.BusinessInputs: string(inputs),
	}); err != nil {
		return fmt.Errorf("%w: persist analysis: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func (c *SubmissionCoordinator) wait(ctx context.Context, done <-chan submitResult) (*Outcome, error) {
	select {
	case r := <-done:
		return r.outcome, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
