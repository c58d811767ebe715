package questionnaire

import (
	"encoding/json"
	"fmt"
)

// SubmissionPayload is the body sent to the analysis service: one section per
// data stage, each with every declared question, plus plan_type and email.
type SubmissionPayload struct {
	Sections map[string]map[string]string
	PlanType string
	Email    string
}

// BuildPayload is pure: the same answers, plan and email always produce the
// same payload. Unanswered questions map to "". planType and email are copied
// verbatim.
func BuildPayload(catalog *Catalog, answers *AnswerSet, planType, email string) SubmissionPayload {
	stages := catalog.DataStages()
	p := SubmissionPayload{
		Sections: make(map[string]map[string]string, len(stages)),
		PlanType: planType,
		Email:    email,
	}
	for _, s := range stages {
		section := make(map[string]string, len(s.Questions))
		for _, q := range s.Questions {
			section[q.ID] = answers.Get(s.ID, q.ID)
		}
		p.Sections[s.ID] = section
	}
	return p
}

// Answer reads one field; absent keys read as "".
func (p SubmissionPayload) Answer(stageID, questionID string) string {
	return p.Sections[stageID][questionID]
}

func (p SubmissionPayload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Sections)+2)
	for sid, section := range p.Sections {
		out[sid] = section
	}
	out[PlanTypeKey] = p.PlanType
	if p.Email != "" {
		out[EmailKey] = p.Email
	}
	return json.Marshal(out)
}

func (p *SubmissionPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := SubmissionPayload{Sections: make(map[string]map[string]string, len(raw))}
	for key, value := range raw {
		switch key {
		case PlanTypeKey:
			if err := json.Unmarshal(value, &decoded.PlanType); err != nil {
				return fmt.Errorf("decode %s: %w", PlanTypeKey, err)
			}
		case EmailKey:
			if err := json.Unmarshal(value, &decoded.Email); err != nil {
				return fmt.Errorf("decode %s: %w", EmailKey, err)
			}
		default:
			var section map[string]string
			if err := json.Unmarshal(value, &section); err != nil {
				return fmt.Errorf("decode section %q: %w", key, err)
			}
			decoded.Sections[key] = section
		}
	}
	*p = decoded
	return nil
}
