package session

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/store"
)

// QuestionResult is one row of the per-question breakdown.
type QuestionResult struct {
	Number        int
	Text          string
	Topic         string
	Difficulty    string
	Selected      string
	CorrectAnswer string
	IsCorrect     bool
	Elapsed       time.Duration
	Mastery       float64
}

// Summary holds the data displayed on the results screen.
type Summary struct {
	SessionID       string
	Subject         string
	TotalAnswered   int
	CorrectCount    int
	AccuracyPercent int // always in [0,100]
	TotalTime       time.Duration
	Message         string
	Questions       []QuestionResult

	// RecommendedTopics is the backend's learning path, unmodified.
	RecommendedTopics []gateway.RecommendedTopic
}

// AccuracyPercent returns round(100*correct/total), or 0 when total is 0.
func AccuracyPercent(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct > total {
		return 100
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Summarize builds a Summary from a session's attempts. path may be nil.
func Summarize(s State, path *gateway.LearningPath) *Summary {
	sum := &Summary{
		SessionID:     s.SessionID,
		Subject:       s.Subject,
		TotalAnswered: len(s.Attempts),
		CorrectCount:  s.CorrectCount(),
	}
	sum.AccuracyPercent = AccuracyPercent(sum.CorrectCount, sum.TotalAnswered)
	if s.Completion != nil {
		sum.Message = s.Completion.Message
	}

	for i, a := range s.Attempts {
		r := QuestionResult{
			Number:        i + 1,
			Selected:      a.Selected,
			CorrectAnswer: a.CorrectAnswer,
			IsCorrect:     a.IsCorrect,
			Elapsed:       a.Elapsed,
			Mastery:       a.Mastery,
		}
		if a.Question != nil {
			r.Text = a.Question.Text
			r.Topic = a.Question.Topic
			r.Difficulty = a.Question.Difficulty
		}
		sum.TotalTime += a.Elapsed
		sum.Questions = append(sum.Questions, r)
	}

	if path != nil {
		sum.RecommendedTopics = path.RecommendedTopics
	}
	return sum
}

// Summarizer loads the learning path for a completed session and records
// finished quizzes locally.
type Summarizer struct {
	gw     gateway.Gateway
	repo   store.EventRepo
	logger *zap.Logger
}

// NewSummarizer creates a Summarizer. repo and logger may be nil.
func NewSummarizer(gw gateway.Gateway, repo store.EventRepo, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{gw: gw, repo: repo, logger: logger.Named("summary")}
}

// Load builds the summary for s. The learning path is skipped when no
// question was answered. On a transport failure the summary is still
// returned, without recommended topics, together with the error.
func (z *Summarizer) Load(ctx context.Context, s State) (*Summary, error) {
	if s.SessionID == "" || len(s.Attempts) == 0 {
		return Summarize(s, nil), nil
	}
	path, err := z.gw.LearningPath(ctx, s.SessionID)
	if err != nil {
		z.logger.Warn("learning path unavailable", zap.String("session_id", s.SessionID), zap.Error(err))
		return Summarize(s, nil), err
	}
	return Summarize(s, path), nil
}

// Record stores a finished quiz in the local history. Quizzes with no
// answers are not recorded.
func (z *Summarizer) Record(ctx context.Context, sum *Summary) error {
	if z.repo == nil || sum == nil || sum.TotalAnswered == 0 {
		return nil
	}
	err := z.repo.AppendQuizResult(ctx, store.QuizResultData{
		SessionID:       sum.SessionID,
		Subject:         sum.Subject,
		TotalAnswered:   sum.TotalAnswered,
		CorrectAnswers:  sum.CorrectCount,
		AccuracyPercent: sum.AccuracyPercent,
		DurationSecs:    int(sum.TotalTime / time.Second),
	})
	if err != nil {
		z.logger.Warn("failed to record quiz result", zap.Error(err))
	}
	return err
}
