package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bizplan/internal/models/request_models"
	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
)

const (
	opAnalyze        = "analyze"
	opImprove        = "improve"
	opGeneratePlan   = "generate-plan"
	opCreateCheckout = "create-checkout-session"
)

var errNotConfigured = errors.New("ANALYSIS_BASE_URL is not configured")

// AnalysisClient talks to the external scoring and plan-writing service.
type AnalysisClient interface {
	Analyze(ctx context.Context, payload questionnaire.SubmissionPayload) (*response_models.AnalysisResult, error)
	Improve(ctx context.Context, req request_models.ImprovementRequest) (*response_models.ImprovementResponse, error)
	GeneratePlan(ctx context.Context, payload questionnaire.SubmissionPayload) (*response_models.BusinessPlanResponse, error)
	CreateCheckoutSession(ctx context.Context, plan, email string) (*response_models.CheckoutSessionResponse, error)
}

type HTTPAnalysisClient struct {
	HTTP    *http.Client
	BaseURL string
	Timeout time.Duration
}

func NewHTTPAnalysisClient(baseURL string, timeout time.Duration) *HTTPAnalysisClient {
	return &HTTPAnalysisClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
	}
}

func (c *HTTPAnalysisClient) Analyze(ctx context.Context, payload questionnaire.SubmissionPayload) (*response_models.AnalysisResult, error) {
	var out response_models.AnalysisResult
	if err := c.post(ctx, opAnalyze, "/analyze", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPAnalysisClient) Improve(ctx context.Context, req request_models.ImprovementRequest) (*response_models.ImprovementResponse, error) {
	var out response_models.ImprovementResponse
	if err := c.post(ctx, opImprove, "/improve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPAnalysisClient) GeneratePlan(ctx context.Context, payload questionnaire.SubmissionPayload) (*response_models.BusinessPlanResponse, error) {
	var out response_models.BusinessPlanResponse
	if err := c.post(ctx, opGeneratePlan, "/generate-plan", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPAnalysisClient) CreateCheckoutSession(ctx context.Context, plan, email string) (*response_models.CheckoutSessionResponse, error) {
	body := map[string]string{"plan": plan, "email": email}
	var out response_models.CheckoutSessionResponse
	if err := c.post(ctx, opCreateCheckout, "/create-checkout-session", body, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, &NetworkError{Op: opCreateCheckout, Kind: KindDecode, Err: errors.New("response has no checkout url")}
	}
	return &out, nil
}

func (c *HTTPAnalysisClient) post(ctx context.Context, op, path string, body, out any) error {
	if c.BaseURL == "" {
		return &NetworkError{Op: op, Kind: KindTransport, Err: errNotConfigured}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return &NetworkError{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return classifyTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &NetworkError{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return classifyTransport(op, ctx.Err())
		}
		return &NetworkError{Op: op, Kind: KindDecode, Err: err}
	}
	return nil
}
