package gateway

import (
	"strings"
	"time"
)

// OptionLabels lists the answer labels in display order.
var OptionLabels = []string{"A", "B", "C", "D"}

// Option is one labeled answer choice.
type Option struct {
	Label string
	Text  string
}

// Question is a multiple-choice question served by the backend.
// It is never modified after it is decoded.
type Question struct {
	ID         string
	Text       string
	Options    []Option // absent options are omitted
	Difficulty string
	Topic      string
}

// Option returns the option with the given label.
func (q *Question) Option(label string) (Option, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for _, o := range q.Options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// NextResult is the outcome of a next-question request. Exactly one of
// Question and Finished is set.
type NextResult struct {
	Question *Question
	Finished bool
}

// Submission is the answer payload for one question.
type Submission struct {
	SelectedAnswer string
	Elapsed        time.Duration
	Topic          string
	QuestionID     string
}

// ElapsedSeconds returns the elapsed answer time in whole seconds, rounded down.
func (s Submission) ElapsedSeconds() int {
	if s.Elapsed < 0 {
		return 0
	}
	return int(s.Elapsed / time.Second)
}

// Grade is the backend's verdict for a submitted answer.
type Grade struct {
	IsCorrect       bool
	CorrectAnswer   string
	Explanation     string
	MasteryEstimate float64
	Topic           string
}

// Completion is the backend's final tally for a session.
type Completion struct {
	SessionID      string
	TotalAnswered  int
	CorrectAnswers int
	Score          float64
	Message        string
}

// RecommendedTopic is one entry of a session's learning path.
type RecommendedTopic struct {
	Topic          string
	CurrentMastery float64
	Priority       string
	Recommendation string
}

// LearningPath holds the topics the backend recommends after a session.
type LearningPath struct {
	SessionID         string
	RecommendedTopics []RecommendedTopic
}

// GrowthPoint is one sample of a subject's running accuracy.
type GrowthPoint struct {
	QuestionNumber int
	Accuracy       float64
	Correct        bool
}

// HistoryEntry is one previously answered question.
type HistoryEntry struct {
	Topic      string
	Difficulty string
	Question   string
	IsCorrect  bool
}

// AnalyticsSnapshot aggregates a learner's history for one subject.
type AnalyticsSnapshot struct {
	Subject         string
	TotalQuestions  int
	CorrectAnswers  int
	Accuracy        float64
	MasteryEstimate float64
	Growth          []GrowthPoint
	History         []HistoryEntry
}

// Empty reports whether the subject has no recorded questions.
func (s *AnalyticsSnapshot) Empty() bool {
	return s == nil || s.TotalQuestions == 0
}

// WeakArea is a topic the backend flags for review.
type WeakArea struct {
	Topic    string
	Mastery  float64
	Accuracy float64
}

// Resource is an external study resource.
type Resource struct {
	Title       string
	Description string
	URL         string
}

// Recommendations is the backend's cross-quiz study advice for a subject.
type Recommendations struct {
	HasData           bool
	TotalQuizzes      int
	TotalQuestions    int
	AIRecommendations string
	WeakAreas         []WeakArea
	LearningResources []Resource
}

// LastQuiz summarizes the learner's most recent completed quiz.
type LastQuiz struct {
	HasData        bool
	Subject        string
	CorrectAnswers int
	TotalQuestions int
	Accuracy       float64
}

// SubjectSummary describes one subject in the question bank.
type SubjectSummary struct {
	Subject       string
	QuestionCount int
	Topics        []string
}
