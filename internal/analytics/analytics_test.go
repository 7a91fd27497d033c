package analytics

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/gateway/gatewaytest"
	"github.com/abhisek/quizpath/internal/mastery"
)

func scienceSnapshot() *gateway.AnalyticsSnapshot {
	return &gateway.AnalyticsSnapshot{
		Subject:         "Science",
		TotalQuestions:  4,
		CorrectAnswers:  3,
		Accuracy:        75,
		MasteryEstimate: 0.72,
		Growth: []gateway.GrowthPoint{
			{QuestionNumber: 1, Accuracy: 100, Correct: true},
			{QuestionNumber: 2, Accuracy: 50, Correct: false},
		},
		History: []gateway.HistoryEntry{
			{Topic: "Cells", IsCorrect: true},
			{Topic: "Energy", IsCorrect: false},
			{Topic: "Cells", IsCorrect: true},
			{Topic: "Energy", IsCorrect: true},
		},
	}
}

func TestEmptySubjectRendersCallToAction(t *testing.T) {
	fake := &gatewaytest.Fake{
		AnalyticsFunc: func(context.Context, string) (*gateway.AnalyticsSnapshot, error) {
			return &gateway.AnalyticsSnapshot{TotalQuestions: 0}, nil
		},
	}
	vm := NewViewModel(fake, nil)

	p, err := vm.Panel(context.Background(), "science")
	require.NoError(t, err)
	assert.True(t, p.Empty)
	assert.Equal(t, "Science", p.Subject)
	assert.Empty(t, p.Growth)
}

func TestSelectReportsNoData(t *testing.T) {
	fake := &gatewaytest.Fake{
		AnalyticsFunc: func(_ context.Context, subject string) (*gateway.AnalyticsSnapshot, error) {
			if subject == "Science" {
				return scienceSnapshot(), nil
			}
			return &gateway.AnalyticsSnapshot{}, nil
		},
	}
	vm := NewViewModel(fake, nil)

	p, err := vm.Select(context.Background(), "python")
	assert.ErrorIs(t, err, ErrNoData)
	assert.True(t, p.Empty)

	p, err = vm.Select(context.Background(), "science")
	require.NoError(t, err)
	assert.False(t, p.Empty)
}

func TestPanelIsMemoized(t *testing.T) {
	fake := &gatewaytest.Fake{
		AnalyticsFunc: func(context.Context, string) (*gateway.AnalyticsSnapshot, error) {
			return scienceSnapshot(), nil
		},
	}
	vm := NewViewModel(fake, nil)
	ctx := context.Background()

	_, ok := vm.Cached("Science")
	assert.False(t, ok)

	first, err := vm.Panel(ctx, "science")
	require.NoError(t, err)
	second, err := vm.Panel(ctx, "SCIENCE")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.Calls("analytics"))
	assert.Equal(t, first, second)

	cached, ok := vm.Cached("Science")
	assert.True(t, ok)
	assert.Equal(t, first, cached)
}

func TestPanelFailureIsNotCached(t *testing.T) {
	fail := true
	fake := &gatewaytest.Fake{}
	fake.AnalyticsFunc = func(context.Context, string) (*gateway.AnalyticsSnapshot, error) {
		if fail {
			return nil, gatewaytest.Unavailable("analytics", gateway.PathAnalytics)
		}
		return scienceSnapshot(), nil
	}
	vm := NewViewModel(fake, nil)
	ctx := context.Background()

	_, err := vm.Panel(ctx, "Science")
	assert.ErrorIs(t, err, gateway.ErrTransport)

	fail = false
	p, err := vm.Panel(ctx, "Science")
	require.NoError(t, err)
	assert.False(t, p.Empty)
	assert.Equal(t, 2, fake.Calls("analytics"))
}

func TestConcurrentPanelsShareOneCall(t *testing.T) {
	release := make(chan struct{})
	fake := &gatewaytest.Fake{
		AnalyticsFunc: func(context.Context, string) (*gateway.AnalyticsSnapshot, error) {
			<-release
			return scienceSnapshot(), nil
		},
	}
	vm := NewViewModel(fake, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = vm.Panel(context.Background(), "science")
		}()
	}
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, fake.Calls("analytics"), 5)
	_, ok := vm.Cached("science")
	assert.True(t, ok)

	// Every later call is a cache hit.
	before := fake.Calls("analytics")
	_, err := vm.Panel(context.Background(), "science")
	require.NoError(t, err)
	assert.Equal(t, before, fake.Calls("analytics"))
}

func TestBuildPanel(t *testing.T) {
	p := BuildPanel(scienceSnapshot())
	assert.False(t, p.Empty)
	assert.Equal(t, 75, p.AccuracyPercent)
	assert.Equal(t, 72, p.MasteryPercent)
	assert.Equal(t, mastery.TierProficient, p.Tier)
	require.Len(t, p.Topics, 2)
	assert.Equal(t, TopicStat{Topic: "Energy", Answered: 2, Correct: 1, AccuracyPercent: 50}, p.Topics[0])
	assert.Equal(t, TopicStat{Topic: "Cells", Answered: 2, Correct: 2, AccuracyPercent: 100}, p.Topics[1])

	assert.True(t, BuildPanel(nil).Empty)
}

func TestBuildPanelUsesBackendAccuracy(t *testing.T) {
	snap := scienceSnapshot()
	snap.Accuracy = 66.7
	assert.Equal(t, 67, BuildPanel(snap).AccuracyPercent)

	snap.Accuracy = 0
	assert.Equal(t, 75, BuildPanel(snap).AccuracyPercent, "missing accuracy is derived from the counts")

	snap.Accuracy = 140
	assert.Equal(t, 100, BuildPanel(snap).AccuracyPercent)
}

func TestRecommendationsMemoized(t *testing.T) {
	fake := &gatewaytest.Fake{
		RecommendationsFunc: func(_ context.Context, subject string) (*gateway.Recommendations, error) {
			return &gateway.Recommendations{HasData: true, AIRecommendations: "Study " + subject}, nil
		},
	}
	vm := NewViewModel(fake, nil)
	ctx := context.Background()

	r, err := vm.Recommendations(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, "Study Python", r.AIRecommendations)

	_, err = vm.Recommendations(ctx, "Python")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("recommendations"))
}
