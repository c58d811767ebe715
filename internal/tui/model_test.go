package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bizplan/internal/models/request_models"
	"bizplan/internal/models/response_models"
	"bizplan/internal/questionnaire"
	"bizplan/internal/services"
	"bizplan/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type stubClient struct {
	fail bool
}

func (s *stubClient) Analyze(ctx context.Context, p questionnaire.SubmissionPayload) (*response_models.AnalysisResult, error) {
	if s.fail {
		return nil, &services.NetworkError{Op: "analyze", Kind: services.KindTransport, Err: errors.New("refused")}
	}
	return &response_models.AnalysisResult{SuccessProbability: 77, Summary: "Strong start", Recommendations: []string{"Ship it"}}, nil
}

func (s *stubClient) Improve(context.Context, request_models.ImprovementRequest) (*response_models.ImprovementResponse, error) {
	return nil, errors.New("unused")
}

func (s *stubClient) GeneratePlan(context.Context, questionnaire.SubmissionPayload) (*response_models.BusinessPlanResponse, error) {
	return nil, errors.New("unused")
}

func (s *stubClient) CreateCheckoutSession(context.Context, string, string) (*response_models.CheckoutSessionResponse, error) {
	return nil, errors.New("unused")
}

func newTestModel(client services.AnalysisClient) Model {
	sub := services.NewSubmissionCoordinator(client, storage.NewMemoryStore(), storage.KeysFor("tui"), services.SubmissionOptions{
		Timeout: time.Second,
		Logger:  zerolog.Nop(),
	})
	return NewModel(questionnaire.Default(), sub, "pro", "")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// fillCurrent answers every required question on screen.
func fillCurrent(t *testing.T, m Model) Model {
	t.Helper()
	for i := range m.fields {
		f := &m.fields[i]
		if !f.question.Required {
			continue
		}
		if f.question.Type == questionnaire.TypeSelect {
			f.choice = 0
		} else {
			f.input.SetValue("answer")
		}
	}
	return m
}

func TestAdvanceShowsValidationMessage(t *testing.T) {
	m := newTestModel(&stubClient{})
	m, _ = send(t, m, key("ctrl+n"))
	if m.nav.Current().ID != "basics" {
		t.Fatalf("moved to %q with empty answers", m.nav.Current().ID)
	}
	if !strings.Contains(m.View(), "please fill in all required fields") {
		t.Errorf("view lacks validation message:\n%s", m.View())
	}

	m = fillCurrent(t, m)
	m, _ = send(t, m, key("ctrl+n"))
	if m.nav.Current().ID != "vision" {
		t.Fatalf("Current() = %q after valid advance", m.nav.Current().ID)
	}
	if m.answers.Get("basics", "name") != "answer" {
		t.Error("typed answer not committed")
	}

	m, _ = send(t, m, key("ctrl+p"))
	if m.nav.Current().ID != "basics" || m.fields[0].input.Value() != "answer" {
		t.Errorf("retreat lost answers: stage %q value %q", m.nav.Current().ID, m.fields[0].input.Value())
	}
}

func TestTypingAndSelectCycling(t *testing.T) {
	m := newTestModel(&stubClient{})
	m, _ = send(t, m, key("P"), key("a"), key("w"))
	if got := m.fields[0].value(); got != "Paw" {
		t.Errorf("name field = %q", got)
	}

	idx := -1
	for i, f := range m.fields {
		if f.question.ID == "stage" {
			idx = i
		}
	}
	for m.focus != idx {
		m, _ = send(t, m, key("tab"))
	}
	m, _ = send(t, m, key("right"))
	if got := m.fields[idx].value(); got != m.fields[idx].question.Options[0] {
		t.Errorf("after right: %q", got)
	}
	opts := m.fields[idx].question.Options
	m, _ = send(t, m, key("left"))
	if got := m.fields[idx].value(); got != opts[len(opts)-1] {
		t.Errorf("left from the first option: %q", got)
	}
	m, _ = send(t, m, key("right"))
	if got := m.fields[idx].value(); got != opts[0] {
		t.Errorf("right from the last option: %q", got)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.fields[idx].value(); got != "" {
		t.Errorf("after backspace: %q", got)
	}
}

func completeAll(t *testing.T, m Model) Model {
	t.Helper()
	for !m.nav.IsTerminal() {
		m = fillCurrent(t, m)
		before := m.nav.Index()
		m, _ = send(t, m, key("ctrl+n"))
		if m.nav.Index() == before {
			t.Fatalf("stuck on %q: %s", m.nav.Current().ID, m.message)
		}
	}
	return m
}

func TestReviewJumpAndSubmit(t *testing.T) {
	m := completeAll(t, newTestModel(&stubClient{}))
	view := m.View()
	if !strings.Contains(view, "[1] Business Basics") || !strings.Contains(view, "Plan: ") {
		t.Fatalf("review view:\n%s", view)
	}

	m, _ = send(t, m, key("3"))
	if m.nav.Current().ID != "customer" {
		t.Fatalf("jump landed on %q", m.nav.Current().ID)
	}
	_ = m.nav.JumpTo("review")
	m.loadStage()

	m, cmd := send(t, m, key("enter"))
	if m.phase != phaseSubmitting || cmd == nil {
		t.Fatalf("enter on review: phase %v, cmd %v", m.phase, cmd)
	}
	m, _ = send(t, m, cmd())
	o, ok := m.Outcome()
	if !ok || o.Result.SuccessProbability != 77 {
		t.Fatalf("outcome = %+v", o)
	}
	if v := m.View(); !strings.Contains(v, "77/100") || !strings.Contains(v, "Good Probability") || !strings.Contains(v, "Ship it") {
		t.Errorf("outcome view:\n%s", v)
	}
}

func TestFailedSubmitOffersRetry(t *testing.T) {
	client := &stubClient{fail: true}
	m := completeAll(t, newTestModel(client))

	m, cmd := send(t, m, key("enter"))
	m, _ = send(t, m, cmd())
	if !strings.Contains(m.message, "Press r to retry") {
		t.Fatalf("message = %q", m.message)
	}

	client.fail = false
	m, cmd = send(t, m, key("r"))
	if cmd == nil {
		t.Fatal("r did not start a retry")
	}
	m, _ = send(t, m, cmd())
	if _, ok := m.Outcome(); !ok {
		t.Errorf("no outcome after retry, message %q", m.message)
	}
}

func TestSubmitBlockedByIncompleteStage(t *testing.T) {
	m := newTestModel(&stubClient{})
	_ = m.nav.JumpTo("review")
	m.loadStage()

	m, cmd := send(t, m, key("enter"))
	if cmd != nil || m.phase != phaseEditing {
		t.Fatal("incomplete questionnaire was submitted")
	}
	if !strings.Contains(m.message, "Business Basics") {
		t.Errorf("message = %q", m.message)
	}
}
