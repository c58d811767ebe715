package questionnaire

import "fmt"

// AnswerSet records one session's answers keyed by stage id then question id.
// A missing entry reads as the empty string; writes are checked against the
// catalog so unknown ids never enter the set.
type AnswerSet struct {
	catalog *Catalog
	values  map[string]map[string]string
}

func NewAnswerSet(catalog *Catalog) *AnswerSet {
	return &AnswerSet{
		catalog: catalog,
		values:  make(map[string]map[string]string),
	}
}

// Get returns the stored answer, or "" if there is none.
func (a *AnswerSet) Get(stageID, questionID string) string {
	return a.values[stageID][questionID]
}

// Set stores value for a declared question. An empty value removes the entry.
func (a *AnswerSet) Set(stageID, questionID, value string) error {
	q, err := a.catalog.question(stageID, questionID)
	if err != nil {
		return err
	}
	if err := checkValue(stageID, q, value); err != nil {
		return err
	}
	a.put(stageID, questionID, value)
	return nil
}

// SetStage applies several answers to one stage. Either every value is
// accepted or none is written.
func (a *AnswerSet) SetStage(stageID string, values map[string]string) error {
	for qid, v := range values {
		q, err := a.catalog.question(stageID, qid)
		if err != nil {
			return err
		}
		if err := checkValue(stageID, q, v); err != nil {
			return err
		}
	}
	for qid, v := range values {
		a.put(stageID, qid, v)
	}
	return nil
}

func (a *AnswerSet) put(stageID, questionID, value string) {
	if value == "" {
		if section, ok := a.values[stageID]; ok {
			delete(section, questionID)
			if len(section) == 0 {
				delete(a.values, stageID)
			}
		}
		return
	}
	section, ok := a.values[stageID]
	if !ok {
		section = make(map[string]string)
		a.values[stageID] = section
	}
	section[questionID] = value
}

// Clear drops every answer ("start over").
func (a *AnswerSet) Clear() {
	a.values = make(map[string]map[string]string)
}

// Len counts stored (non-empty) answers.
func (a *AnswerSet) Len() int {
	n := 0
	for _, section := range a.values {
		n += len(section)
	}
	return n
}

// Snapshot returns a deep copy of the stored answers.
func (a *AnswerSet) Snapshot() map[string]map[string]string {
	out := make(map[string]map[string]string, len(a.values))
	for sid, section := range a.values {
		cp := make(map[string]string, len(section))
		for qid, v := range section {
			cp[qid] = v
		}
		out[sid] = cp
	}
	return out
}

func checkValue(stageID string, q Question, value string) error {
	if q.Type == TypeSelect && value != "" && !q.HasOption(value) {
		return fmt.Errorf("%w: %s.%s = %q", ErrInvalidOption, stageID, q.ID, value)
	}
	return nil
}
