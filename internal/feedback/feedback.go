// Package feedback turns a graded attempt into display facts.
package feedback

import (
	"strings"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/mastery"
	"github.com/abhisek/quizpath/internal/session"
)

// OptionState is how a single option is rendered after grading.
type OptionState int

const (
	OptionPlain     OptionState = iota
	OptionCorrect               // the correct answer
	OptionWrongPick             // the learner's incorrect choice
)

// OptionView is one option with its post-grading state.
type OptionView struct {
	Label string
	Text  string
	State OptionState
}

// View is everything the feedback panel shows for one answer.
type View struct {
	IsCorrect bool
	Selected  string
	// Highlighted is the label of the correct option.
	Highlighted string
	Explanation string

	MasteryPercent int
	MasteryTier    mastery.Tier
	// MasteryDelta is the change in percentage points since the previous
	// answer on the same topic. It is only meaningful when HasDelta is set.
	MasteryDelta int
	HasDelta     bool

	Options []OptionView
}

// Present maps q and its attempt to a View. q may be nil, in which case
// Options is empty.
func Present(q *gateway.Question, a session.Attempt) View {
	highlighted := strings.ToUpper(strings.TrimSpace(a.CorrectAnswer))
	if highlighted == "" && a.IsCorrect {
		highlighted = a.Selected
	}

	v := View{
		IsCorrect:      a.IsCorrect,
		Selected:       a.Selected,
		Highlighted:    highlighted,
		Explanation:    strings.TrimSpace(a.Explanation),
		MasteryPercent: mastery.Percent(a.Mastery),
		MasteryTier:    mastery.Classify(a.Mastery),
	}
	if a.HasPrior {
		v.HasDelta = true
		v.MasteryDelta = mastery.Delta(a.PriorMastery, a.Mastery)
	}

	if q == nil {
		return v
	}
	for _, o := range q.Options {
		ov := OptionView{Label: o.Label, Text: o.Text}
		switch {
		case o.Label == highlighted:
			ov.State = OptionCorrect
		case o.Label == a.Selected && !a.IsCorrect:
			ov.State = OptionWrongPick
		}
		v.Options = append(v.Options, ov)
	}
	return v
}

// Headline is the one-line verdict shown above the explanation.
func (v View) Headline() string {
	if v.IsCorrect {
		return "Correct!"
	}
	if v.Highlighted == "" {
		return "Not quite."
	}
	return "Not quite. The answer is " + v.Highlighted + "."
}
