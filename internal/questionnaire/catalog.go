// Package questionnaire holds the business questionnaire: the stage catalog,
// the per-session answer set, and the rules that move a session through it.
//
// Nothing in this package performs I/O or locking. A Navigator and its
// AnswerSet belong to exactly one session; callers that share them across
// goroutines must serialise access themselves.
package questionnaire

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeTextarea QuestionType = "textarea"
	TypeSelect   QuestionType = "select"
)

// Top-level payload keys; stage ids may not collide with them.
const (
	PlanTypeKey = "plan_type"
	EmailKey    = "email"
)

type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Label       string       `yaml:"label" json:"label"`
	Type        QuestionType `yaml:"type" json:"type"`
	Required    bool         `yaml:"required" json:"required"`
	Options     []string     `yaml:"options,omitempty" json:"options,omitempty"`
	Placeholder string       `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// HasOption reports whether v is one of the declared select options.
func (q Question) HasOption(v string) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}

type Stage struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Subtitle  string     `yaml:"subtitle" json:"subtitle"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// IsTerminal reports whether s is the review stage. Only the last stage of a
// valid catalog has no questions.
func (s Stage) IsTerminal() bool {
	return len(s.Questions) == 0
}

func (s Stage) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (s Stage) clone() Stage {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}

// Plan is a purchasable offer selected before the wizard starts.
type Plan struct {
	Code     string   `yaml:"code" json:"code"`
	Name     string   `yaml:"name" json:"name"`
	Price    int      `yaml:"price" json:"price"`
	Currency string   `yaml:"currency" json:"currency"`
	Features []string `yaml:"features" json:"features"`
}

type catalogDocument struct {
	Stages []Stage `yaml:"stages"`
	Plans  []Plan  `yaml:"plans"`
}

// Catalog is the immutable, ordered stage definition shared by every session.
// Accessors hand out copies so callers cannot mutate it.
type Catalog struct {
	stages []Stage
	index  map[string]int
	plans  []Plan
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog embedded in the binary. It panics if the
// embedded document is invalid, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("questionnaire: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(doc.Stages, doc.Plans)
}

func NewCatalog(stages []Stage, plans []Plan) (*Catalog, error) {
	if len(stages) < 2 {
		return nil, fmt.Errorf("catalog needs at least one data stage and a review stage, got %d stages", len(stages))
	}

	c := &Catalog{
		stages: make([]Stage, 0, len(stages)),
		index:  make(map[string]int, len(stages)),
	}

	for i, s := range stages {
		if s.ID == "" {
			return nil, fmt.Errorf("stage %d: empty id", i)
		}
		if s.ID == PlanTypeKey || s.ID == EmailKey {
			return nil, fmt.Errorf("stage %q: id is reserved", s.ID)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("stage %q: duplicate id", s.ID)
		}

		last := i == len(stages)-1
		if last && len(s.Questions) != 0 {
			return nil, fmt.Errorf("stage %q: review stage must not declare questions", s.ID)
		}
		if !last && len(s.Questions) == 0 {
			return nil, fmt.Errorf("stage %q: only the review stage may be empty", s.ID)
		}

		seen := make(map[string]struct{}, len(s.Questions))
		for _, q := range s.Questions {
			if q.ID == "" {
				return nil, fmt.Errorf("stage %q: question with empty id", s.ID)
			}
			if _, dup := seen[q.ID]; dup {
				return nil, fmt.Errorf("stage %q: duplicate question %q", s.ID, q.ID)
			}
			seen[q.ID] = struct{}{}

			switch q.Type {
			case TypeSelect:
				if len(q.Options) == 0 {
					return nil, fmt.Errorf("stage %q: select question %q has no options", s.ID, q.ID)
				}
			case TypeText, TypeTextarea:
				if len(q.Options) != 0 {
					return nil, fmt.Errorf("stage %q: %s question %q must not declare options", s.ID, q.Type, q.ID)
				}
			default:
				return nil, fmt.Errorf("stage %q: question %q has unknown type %q", s.ID, q.ID, q.Type)
			}
		}

		c.index[s.ID] = i
		c.stages = append(c.stages, s.clone())
	}

	codes := make(map[string]struct{}, len(plans))
	for _, p := range plans {
		if p.Code == "" {
			return nil, fmt.Errorf("plan with empty code")
		}
		if _, dup := codes[p.Code]; dup {
			return nil, fmt.Errorf("plan %q: duplicate code", p.Code)
		}
		codes[p.Code] = struct{}{}
		p.Features = append([]string(nil), p.Features...)
		c.plans = append(c.plans, p)
	}

	return c, nil
}

func (c *Catalog) Len() int { return len(c.stages) }

// Stage returns the stage at position i.
func (c *Catalog) Stage(i int) Stage {
	return c.stages[i].clone()
}

func (c *Catalog) StageByID(id string) (Stage, bool) {
	i, ok := c.index[id]
	if !ok {
		return Stage{}, false
	}
	return c.stages[i].clone(), true
}

func (c *Catalog) IndexOf(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

func (c *Catalog) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.clone()
	}
	return out
}

// DataStages returns every stage except the terminal review stage.
func (c *Catalog) DataStages() []Stage {
	return c.Stages()[:len(c.stages)-1]
}

func (c *Catalog) Terminal() Stage {
	return c.stages[len(c.stages)-1].clone()
}

func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	for i, p := range c.plans {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

func (c *Catalog) Plan(code string) (Plan, bool) {
	for _, p := range c.plans {
		if p.Code == code {
			p.Features = append([]string(nil), p.Features...)
			return p, true
		}
	}
	return Plan{}, false
}

// question looks up a declared question without copying the stage.
func (c *Catalog) question(stageID, questionID string) (Question, error) {
	i, ok := c.index[stageID]
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrUnknownStage, stageID)
	}
	for _, q := range c.stages[i].Questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return Question{}, fmt.Errorf("%w: %s.%s", ErrUnknownQuestion, stageID, questionID)
}
