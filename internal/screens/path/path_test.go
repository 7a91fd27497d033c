package path

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/gateway/gatewaytest"
	"github.com/abhisek/quizpath/internal/screen"
)

// runAll executes cmd, flattening batches, and feeds the results back.
func runAll(s *PathScreen, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			runAll(s, c)
		}
	case nil:
	default:
		s.Update(msg)
	}
}

func TestPathShowsRecommendations(t *testing.T) {
	fake := &gatewaytest.Fake{
		RecommendationsFunc: func(_ context.Context, subject string) (*gateway.Recommendations, error) {
			if subject != "Science" {
				return &gateway.Recommendations{}, nil
			}
			return &gateway.Recommendations{
				HasData:           true,
				TotalQuizzes:      2,
				TotalQuestions:    20,
				AIRecommendations: "Spend ten minutes a day on Physics.",
				WeakAreas:         []gateway.WeakArea{{Topic: "Physics", Mastery: 0.3, Accuracy: 40}},
				LearningResources: []gateway.Resource{{Title: "Khan Academy Science", URL: "https://www.khanacademy.org/science"}},
			}, nil
		},
		LastQuizFunc: func(context.Context) (*gateway.LastQuiz, error) {
			return &gateway.LastQuiz{HasData: true, Subject: "Science", CorrectAnswers: 7, TotalQuestions: 10, Accuracy: 70}, nil
		},
	}
	s := New(screen.Deps{Gateway: fake}, "science")
	runAll(s, s.Init())

	view := s.View(120, 40)
	assert.Contains(t, view, "Last quiz: Science  7/10 correct  70%")
	assert.Contains(t, view, "Physics")
	assert.Contains(t, view, "Spend ten minutes a day")
	assert.Contains(t, view, "Khan Academy Science")
}

func TestPathWithoutDataAndTabCaching(t *testing.T) {
	fake := &gatewaytest.Fake{}
	s := New(screen.Deps{Gateway: fake}, "")
	runAll(s, s.Init())
	assert.Contains(t, s.View(120, 40), "Take a Maths quiz")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	runAll(s, cmd)
	assert.Contains(t, s.View(120, 40), "Take a Science quiz")

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Nil(t, cmd, "loaded tabs are not fetched again")
	assert.Equal(t, 2, fake.Calls("recommendations"))
}

func TestPathUnknownSubjectGetsTab(t *testing.T) {
	s := New(screen.Deps{Gateway: &gatewaytest.Fake{}}, "Computer Science")
	assert.Equal(t, "Computer Science", s.subjects[s.active])
}

func TestPathRetryAfterFailure(t *testing.T) {
	calls := 0
	fake := &gatewaytest.Fake{
		RecommendationsFunc: func(context.Context, string) (*gateway.Recommendations, error) {
			calls++
			if calls == 1 {
				return nil, gatewaytest.Unavailable("recommendations", "/api/recommendations/maths")
			}
			return &gateway.Recommendations{}, nil
		},
	}
	s := New(screen.Deps{Gateway: fake}, "maths")
	runAll(s, s.Init())
	assert.Contains(t, s.View(120, 40), "Press R to retry")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	runAll(s, cmd)
	assert.Contains(t, s.View(120, 40), "Take a Maths quiz")
}
