package questionnaire

import "fmt"

// Navigator tracks a session's position in the catalog. It reads the
// AnswerSet for validation but never writes to it.
type Navigator struct {
	catalog *Catalog
	answers *AnswerSet
	index   int
}

func NewNavigator(catalog *Catalog, answers *AnswerSet) *Navigator {
	return &Navigator{catalog: catalog, answers: answers}
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Total() int { return n.catalog.Len() }

func (n *Navigator) Current() Stage { return n.catalog.Stage(n.index) }

func (n *Navigator) IsTerminal() bool { return n.index == n.catalog.Len()-1 }

// Progress is the share of stages reached, counting the current one, in percent.
func (n *Navigator) Progress() float64 {
	return float64(n.index+1) / float64(n.catalog.Len()) * 100
}

func (n *Navigator) CanProceed() bool {
	if n.IsTerminal() {
		return true
	}
	return IsComplete(n.Current(), n.answers)
}

// Advance moves to the next stage when the current one is complete.
// An incomplete stage yields a *ValidationError and the position is kept.
func (n *Navigator) Advance() error {
	if n.IsTerminal() {
		return ErrTerminalStage
	}
	if err := Validate(n.Current(), n.answers); err != nil {
		return err
	}
	n.index++
	return nil
}

// Retreat moves back one stage. It never validates.
func (n *Navigator) Retreat() error {
	if n.index == 0 {
		return ErrFirstStage
	}
	n.index--
	return nil
}

// JumpTo moves to any stage by id, without validation. Used by the review
// stage's edit action.
func (n *Navigator) JumpTo(stageID string) error {
	i, ok := n.catalog.IndexOf(stageID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStage, stageID)
	}
	n.index = i
	return nil
}

// Reset returns to the first stage.
func (n *Navigator) Reset() {
	n.index = 0
}
