// Package tui runs the questionnaire in a terminal, one stage per screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizplan/internal/questionnaire"
	"bizplan/internal/services"
	"bizplan/pkg/utils"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type phase int

const (
	phaseEditing phase = iota
	phaseSubmitting
	phaseDone
)

type submittedMsg struct {
	outcome *services.Outcome
	err     error
}

// field is one question on screen. Text questions use input; selects keep
// an index into Options, -1 meaning no choice.
type field struct {
	question questionnaire.Question
	input    textinput.Model
	choice   int
}

func (f field) value() string {
	if f.question.Type == questionnaire.TypeSelect {
		if f.choice < 0 {
			return ""
		}
		return f.question.Options[f.choice]
	}
	return f.input.Value()
}

type Model struct {
	catalog    *questionnaire.Catalog
	answers    *questionnaire.AnswerSet
	nav        *questionnaire.Navigator
	submission *services.SubmissionCoordinator
	planType   string
	email      string

	fields  []field
	focus   int
	message string
	phase   phase
	outcome *services.Outcome
	quit    bool
}

func NewModel(catalog *questionnaire.Catalog, submission *services.SubmissionCoordinator, planType, email string) Model {
	answers := questionnaire.NewAnswerSet(catalog)
	m := Model{
		catalog:    catalog,
		answers:    answers,
		nav:        questionnaire.NewNavigator(catalog, answers),
		submission: submission,
		planType:   planType,
		email:      email,
	}
	m.loadStage()
	return m
}

// Outcome is set once a submission succeeded.
func (m Model) Outcome() (*services.Outcome, bool) {
	return m.outcome, m.outcome != nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		return m.handleSubmitted(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
		switch m.phase {
		case phaseSubmitting:
			return m, nil
		case phaseDone:
			if msg.String() == "enter" || msg.String() == "q" {
				m.quit = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.nav.IsTerminal() {
			return m.updateReview(msg)
		}
		return m.updateStage(msg)
	}

	if len(m.fields) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

func (m Model) updateStage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n":
		if err := m.commit(); err != nil {
			m.message = err.Error()
			return m, nil
		}
		if err := m.nav.Advance(); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.message = ""
		m.loadStage()
		return m, textinput.Blink
	case "ctrl+p":
		if err := m.commit(); err != nil {
			m.message = err.Error()
			return m, nil
		}
		if err := m.nav.Retreat(); err != nil {
			m.message = "Already at the first section"
			return m, nil
		}
		m.message = ""
		m.loadStage()
		return m, textinput.Blink
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, textinput.Blink
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, textinput.Blink
	}

	f := &m.fields[m.focus]
	if f.question.Type == questionnaire.TypeSelect {
		n := len(f.question.Options)
		switch msg.String() {
		case "right", " ":
			f.choice = (f.choice + 1) % n
		case "left":
			// From the first option or from no choice, wrap to the last.
			if f.choice <= 0 {
				f.choice = n - 1
			} else {
				f.choice--
			}
		case "backspace", "delete":
			f.choice = -1
		}
		return m, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return m, cmd
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+p":
		_ = m.nav.Retreat()
		m.message = ""
		m.loadStage()
		return m, textinput.Blink
	case "enter":
		return m.submit()
	case "r":
		if m.submission.State() == services.StateFailed {
			m.phase = phaseSubmitting
			m.message = "Retrying..."
			return m, retryCmd(m.submission)
		}
		return m, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		stages := m.catalog.DataStages()
		i := int(key[0] - '1')
		if i < len(stages) {
			_ = m.nav.JumpTo(stages[i].ID)
			m.message = ""
			m.loadStage()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	for _, stage := range m.catalog.DataStages() {
		if err := questionnaire.Validate(stage, m.answers); err != nil {
			m.message = fmt.Sprintf("%s: %s", stage.Title, err.Error())
			return m, nil
		}
	}
	payload := questionnaire.BuildPayload(m.catalog, m.answers, m.planType, m.email)
	m.phase = phaseSubmitting
	m.message = "Analyzing your business..."
	return m, submitCmd(m.submission, payload)
}

func (m Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.phase = phaseEditing
		switch {
		case errors.Is(msg.err, utils.ErrNetwork):
			m.message = "Could not reach the analysis service. Press r to retry."
		case m.submission.State() == services.StateFailed:
			m.message = msg.err.Error() + ". Press r to retry."
		default:
			m.message = msg.err.Error()
		}
		return m, nil
	}
	m.phase = phaseDone
	m.outcome = msg.outcome
	m.message = ""
	return m, nil
}

func submitCmd(sub *services.SubmissionCoordinator, payload questionnaire.SubmissionPayload) tea.Cmd {
	return func() tea.Msg {
		o, err := sub.Submit(context.Background(), payload)
		return submittedMsg{outcome: o, err: err}
	}
}

func retryCmd(sub *services.SubmissionCoordinator) tea.Cmd {
	return func() tea.Msg {
		o, err := sub.Retry(context.Background())
		return submittedMsg{outcome: o, err: err}
	}
}

// commit writes the on-screen values of the current stage to the answer set.
func (m *Model) commit() error {
	if len(m.fields) == 0 {
		return nil
	}
	values := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		values[f.question.ID] = f.value()
	}
	return m.answers.SetStage(m.nav.Current().ID, values)
}

// loadStage builds fields for the current stage from the stored answers.
func (m *Model) loadStage() {
	stage := m.nav.Current()
	m.fields = make([]field, 0, len(stage.Questions))
	for _, q := range stage.Questions {
		f := field{question: q, choice: -1}
		current := m.answers.Get(stage.ID, q.ID)
		if q.Type == questionnaire.TypeSelect {
			for i, opt := range q.Options {
				if opt == current {
					f.choice = i
				}
			}
		} else {
			ti := textinput.New()
			ti.Placeholder = q.Placeholder
			ti.CharLimit = 2000
			ti.Width = 60
			ti.SetValue(current)
			f.input = ti
		}
		m.fields = append(m.fields, f)
	}
	m.focus = 0
	m.setFocus(0)
}

func (m *Model) setFocus(i int) {
	if len(m.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(m.fields) - 1
	}
	i %= len(m.fields)
	for j := range m.fields {
		if m.fields[j].question.Type == questionnaire.TypeSelect {
			continue
		}
		if j == i {
			m.fields[j].input.Focus()
		} else {
			m.fields[j].input.Blur()
		}
	}
	m.focus = i
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	stage := m.nav.Current()
	fmt.Fprintf(&b, "Step %d of %d (%.0f%%)  %s\n", m.nav.Index()+1, m.nav.Total(), m.nav.Progress(), stage.Title)
	if stage.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n", stage.Subtitle)
	}
	b.WriteString("\n")

	switch {
	case m.phase == phaseDone:
		m.viewOutcome(&b)
	case m.nav.IsTerminal():
		m.viewReview(&b)
	default:
		m.viewStage(&b)
	}

	if m.message != "" {
		fmt.Fprintf(&b, "\n%s\n", m.message)
	}
	return b.String()
}

func (m Model) viewStage(b *strings.Builder) {
	for i, f := range m.fields {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		label := f.question.Label
		if f.question.Required {
			label += " *"
		}
		if f.question.Type == questionnaire.TypeSelect {
			v := f.value()
			if v == "" {
				v = "(choose with left/right)"
			}
			fmt.Fprintf(b, "%s%s\n    < %s >\n", cursor, label, v)
			continue
		}
		fmt.Fprintf(b, "%s%s\n    %s\n", cursor, label, f.input.View())
	}
	b.WriteString("\ntab: next field  ctrl+n: continue  ctrl+p: back  esc: quit\n")
}

func (m Model) viewReview(b *strings.Builder) {
	if plan, ok := m.catalog.Plan(m.planType); ok {
		fmt.Fprintf(b, "Plan: %s ($%d)\n\n", plan.Name, plan.Price)
	}
	for i, p := range questionnaire.BuildReview(m.catalog, m.answers) {
		fmt.Fprintf(b, "[%d] %s\n", i+1, p.Title)
		if len(p.Items) == 0 {
			b.WriteString("    (no answers)\n")
		}
		for _, it := range p.Items {
			fmt.Fprintf(b, "    %s: %s\n", it.Label, it.Value)
		}
	}
	b.WriteString("\n1-8: edit section  enter: submit  ctrl+p: back  esc: quit\n")
}

func (m Model) viewOutcome(b *strings.Builder) {
	r := m.outcome.Result
	fmt.Fprintf(b, "Success probability: %d/100  %s\n", r.SuccessProbability, services.ScoreLabel(r.SuccessProbability))
	if m.outcome.Demo {
		b.WriteString("(demo result, the analysis service was unavailable)\n")
	}
	if r.Summary != "" {
		fmt.Fprintf(b, "\n%s\n", r.Summary)
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(b, "  - %s\n", rec)
		}
	}
	b.WriteString("\nenter: exit\n")
}
