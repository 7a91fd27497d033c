package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/mastery"
	"github.com/abhisek/quizpath/internal/session"
)

func question() *gateway.Question {
	return &gateway.Question{
		ID:   "1",
		Text: "2+2?",
		Options: []gateway.Option{
			{Label: "A", Text: "3"},
			{Label: "B", Text: "5"},
			{Label: "C", Text: "4"},
		},
		Topic: "Arithmetic",
	}
}

func TestPresentWrongAnswer(t *testing.T) {
	q := question()
	v := Present(q, session.Attempt{
		Question:      q,
		Selected:      "B",
		CorrectAnswer: "c",
		Explanation:   "  Two plus two is four. ",
		Mastery:       0.426,
	})

	assert.False(t, v.IsCorrect)
	assert.Equal(t, "C", v.Highlighted)
	assert.Equal(t, "Two plus two is four.", v.Explanation)
	assert.Equal(t, 43, v.MasteryPercent)
	assert.Equal(t, mastery.TierDeveloping, v.MasteryTier)
	assert.False(t, v.HasDelta)
	assert.Equal(t, "Not quite. The answer is C.", v.Headline())

	require.Len(t, v.Options, 3)
	assert.Equal(t, OptionPlain, v.Options[0].State)
	assert.Equal(t, OptionWrongPick, v.Options[1].State)
	assert.Equal(t, OptionCorrect, v.Options[2].State)
}

func TestPresentCorrectAnswer(t *testing.T) {
	q := question()
	v := Present(q, session.Attempt{
		Question:      q,
		Selected:      "C",
		IsCorrect:     true,
		CorrectAnswer: "C",
		Mastery:       0.7,
		PriorMastery:  0.55,
		HasPrior:      true,
	})

	assert.True(t, v.IsCorrect)
	assert.Equal(t, mastery.TierProficient, v.MasteryTier)
	assert.Equal(t, 70, v.MasteryPercent)
	assert.True(t, v.HasDelta)
	assert.Equal(t, 15, v.MasteryDelta)
	assert.Equal(t, "Correct!", v.Headline())
	assert.Equal(t, OptionCorrect, v.Options[2].State)
	for _, o := range v.Options[:2] {
		assert.Equal(t, OptionPlain, o.State)
	}
}

func TestPresentCorrectWithoutAnswerKey(t *testing.T) {
	v := Present(question(), session.Attempt{Selected: "A", IsCorrect: true, Mastery: 0.1})
	assert.Equal(t, "A", v.Highlighted)
	assert.Equal(t, mastery.TierBeginner, v.MasteryTier)
	assert.Equal(t, OptionCorrect, v.Options[0].State)
}

func TestPresentNilQuestion(t *testing.T) {
	v := Present(nil, session.Attempt{Selected: "A", Mastery: 1.7, PriorMastery: 0.9, HasPrior: true})
	assert.Empty(t, v.Options)
	assert.Equal(t, 100, v.MasteryPercent, "mastery is clamped")
	assert.Equal(t, 10, v.MasteryDelta)
	assert.Equal(t, "Not quite.", v.Headline())
}
