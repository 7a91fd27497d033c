package history

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpath/internal/store"
)

func TestHistoryListsResults(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	repo := st.EventRepo()
	ctx := context.Background()
	require.NoError(t, repo.AppendQuizResult(ctx, store.QuizResultData{
		SessionID: "s-1", Subject: "Maths", TotalAnswered: 10, CorrectAnswers: 7, AccuracyPercent: 70, DurationSecs: 125,
	}))
	require.NoError(t, repo.AppendQuizResult(ctx, store.QuizResultData{
		SessionID: "s-2", Subject: "Python", TotalAnswered: 5, CorrectAnswers: 5, AccuracyPercent: 100, DurationSecs: 60,
	}))

	s := New(repo)
	assert.Contains(t, s.View(100, 30), "Loading history")
	s.Update(s.Init()())

	view := s.View(100, 30)
	assert.Contains(t, view, "Python")
	assert.Contains(t, view, "7/10")
	assert.Contains(t, view, "2:05")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(100, 30), "session s-1")
}

func TestHistoryEmpty(t *testing.T) {
	s := New(nil)
	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "No quizzes yet")
}
