package questionnaire

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	PreviewLimit = 3
	PreviewWidth = 100
	ellipsis     = "..."
)

type PreviewItem struct {
	QuestionID string `json:"question_id"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	Truncated  bool   `json:"truncated,omitempty"`
}

// StagePreview summarises one data stage on the review page. EditStageID is
// the target for Navigator.JumpTo.
type StagePreview struct {
	StageID     string        `json:"stage_id"`
	Title       string        `json:"title"`
	Items       []PreviewItem `json:"items"`
	EditStageID string        `json:"edit_stage_id"`
}

// BuildReview lists, for every data stage, the first PreviewLimit declared
// questions that have an answer. Answers outside the preview are kept.
func BuildReview(catalog *Catalog, answers *AnswerSet) []StagePreview {
	stages := catalog.DataStages()
	out := make([]StagePreview, 0, len(stages))
	for _, s := range stages {
		p := StagePreview{
			StageID:     s.ID,
			Title:       s.Title,
			Items:       []PreviewItem{},
			EditStageID: s.ID,
		}
		for _, q := range s.Questions {
			if len(p.Items) == PreviewLimit {
				break
			}
			v := answers.Get(s.ID, q.ID)
			if strings.TrimSpace(v) == "" {
				continue
			}
			shown, cut := TruncateForDisplay(v)
			p.Items = append(p.Items, PreviewItem{
				QuestionID: q.ID,
				Label:      q.Label,
				Value:      shown,
				Truncated:  cut,
			})
		}
		out = append(out, p)
	}
	return out
}

// TruncateForDisplay shortens s to PreviewWidth display columns and appends
// an ellipsis when it is longer.
func TruncateForDisplay(s string) (string, bool) {
	if runewidth.StringWidth(s) <= PreviewWidth {
		return s, false
	}
	return runewidth.Truncate(s, PreviewWidth, "") + ellipsis, true
}
