package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/gateway/gatewaytest"
	"github.com/abhisek/quizpath/internal/store"
)

func TestAccuracyPercent(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{7, 10, 70},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
		{5, 0, 0},
		{11, 10, 100},
		{-1, 10, 0},
	}
	for _, tt := range tests {
		got := AccuracyPercent(tt.correct, tt.total)
		assert.Equal(t, tt.want, got, "%d/%d", tt.correct, tt.total)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestSummarize(t *testing.T) {
	s := answered(t, 10, true, true, false)
	s.Completion = &gateway.Completion{Message: "done"}
	path := &gateway.LearningPath{RecommendedTopics: []gateway.RecommendedTopic{
		{Topic: "Algebra", CurrentMastery: 0.31, Priority: "high", Recommendation: "Revisit equations"},
	}}

	sum := Summarize(s, path)
	assert.Equal(t, "s1", sum.SessionID)
	assert.Equal(t, "Maths", sum.Subject)
	assert.Equal(t, 3, sum.TotalAnswered)
	assert.Equal(t, 2, sum.CorrectCount)
	assert.Equal(t, 67, sum.AccuracyPercent)
	assert.Equal(t, 3*time.Second, sum.TotalTime)
	assert.Equal(t, "done", sum.Message)
	require.Len(t, sum.Questions, 3)
	assert.Equal(t, 3, sum.Questions[2].Number)
	assert.False(t, sum.Questions[2].IsCorrect)
	assert.Equal(t, "Algebra", sum.Questions[0].Topic)
	assert.Equal(t, path.RecommendedTopics, sum.RecommendedTopics)
}

func TestSummarizerLoad(t *testing.T) {
	ctx := context.Background()
	fake := &gatewaytest.Fake{
		LearningPathFunc: func(_ context.Context, id string) (*gateway.LearningPath, error) {
			return &gateway.LearningPath{SessionID: id, RecommendedTopics: []gateway.RecommendedTopic{{Topic: "Algebra"}}}, nil
		},
	}
	z := NewSummarizer(fake, nil, nil)

	sum, err := z.Load(ctx, answered(t, 10, true))
	require.NoError(t, err)
	assert.Len(t, sum.RecommendedTopics, 1)
	assert.Equal(t, []string{"s1"}, fake.SessionIDs())

	empty, err := z.Load(ctx, answered(t, 10))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalAnswered)
	assert.Zero(t, empty.AccuracyPercent)
	assert.Equal(t, 1, fake.Calls("learning-path"), "no path request without answers")
}

func TestSummarizerLoadFailureKeepsTotals(t *testing.T) {
	fake := &gatewaytest.Fake{
		LearningPathFunc: func(context.Context, string) (*gateway.LearningPath, error) {
			return nil, gatewaytest.Unavailable("learning-path", gateway.PathLearningPath)
		},
	}
	z := NewSummarizer(fake, nil, nil)

	sum, err := z.Load(context.Background(), answered(t, 10, true, false))
	assert.ErrorIs(t, err, gateway.ErrTransport)
	require.NotNil(t, sum)
	assert.Equal(t, 2, sum.TotalAnswered)
	assert.Equal(t, 50, sum.AccuracyPercent)
	assert.Empty(t, sum.RecommendedTopics)
}

func TestSummarizerRecord(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "summary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	z := NewSummarizer(&gatewaytest.Fake{}, st.EventRepo(), nil)
	require.NoError(t, z.Record(ctx, Summarize(answered(t, 10, true, true, false, true), nil)))
	require.NoError(t, z.Record(ctx, Summarize(answered(t, 10), nil)))

	results, err := st.EventRepo().RecentQuizResults(ctx, "Maths", 0)
	require.NoError(t, err)
	require.Len(t, results, 1, "empty quizzes are not recorded")
	assert.Equal(t, 4, results[0].TotalAnswered)
	assert.Equal(t, 3, results[0].CorrectAnswers)
	assert.Equal(t, 75, results[0].AccuracyPercent)
	assert.Equal(t, 4, results[0].DurationSecs)
}
