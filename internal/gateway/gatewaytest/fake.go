// Package gatewaytest provides a scriptable in-memory Gateway for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/quizpath/internal/gateway"
)

// Fake is a Gateway whose responses come from the optional *Func hooks.
// Unset hooks fall back to a small deterministic script: every question
// has correct answer "A" and the topic cycles through Topics.
type Fake struct {
	StartFunc           func(ctx context.Context, subject string) (string, error)
	NextFunc            func(ctx context.Context, sessionID string, n int) (gateway.NextResult, error)
	SubmitFunc          func(ctx context.Context, sessionID string, sub gateway.Submission) (*gateway.Grade, error)
	CompleteFunc        func(ctx context.Context, sessionID string) (*gateway.Completion, error)
	LearningPathFunc    func(ctx context.Context, sessionID string) (*gateway.LearningPath, error)
	AnalyticsFunc       func(ctx context.Context, subject string) (*gateway.AnalyticsSnapshot, error)
	RecommendationsFunc func(ctx context.Context, subject string) (*gateway.Recommendations, error)
	LastQuizFunc        func(ctx context.Context) (*gateway.LastQuiz, error)
	SubjectsFunc        func(ctx context.Context) ([]gateway.SubjectSummary, error)

	Topics []string

	mu          sync.Mutex
	calls       map[string]int
	sessionIDs  []string
	submissions []gateway.Submission
	correct     int
}

var _ gateway.Gateway = (*Fake)(nil)

// Calls returns how many times op was invoked. Op names match
// TransportError.Op, e.g. "start" or "next-question".
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// SessionIDs returns the session ids passed to session-scoped calls, in order.
func (f *Fake) SessionIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sessionIDs...)
}

// Submissions returns every submission received, in order.
func (f *Fake) Submissions() []gateway.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.Submission(nil), f.submissions...)
}

func (f *Fake) count(op, sessionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
	if sessionID != "" {
		f.sessionIDs = append(f.sessionIDs, sessionID)
	}
	return f.calls[op]
}

// Question builds the n-th scripted question.
func (f *Fake) Question(n int) *gateway.Question {
	topics := f.Topics
	if len(topics) == 0 {
		topics = []string{"Algebra"}
	}
	return &gateway.Question{
		ID:   fmt.Sprintf("q%d", n),
		Text: fmt.Sprintf("Question %d?", n),
		Options: []gateway.Option{
			{Label: "A", Text: "one"},
			{Label: "B", Text: "two"},
			{Label: "C", Text: "three"},
			{Label: "D", Text: "four"},
		},
		Difficulty: "Medium",
		Topic:      topics[(n-1)%len(topics)],
	}
}

func (f *Fake) StartSession(ctx context.Context, subject string) (string, error) {
	f.count("start", "")
	if f.StartFunc != nil {
		return f.StartFunc(ctx, subject)
	}
	return "sess-1", nil
}

func (f *Fake) NextQuestion(ctx context.Context, sessionID string) (gateway.NextResult, error) {
	n := f.count("next-question", sessionID)
	if f.NextFunc != nil {
		return f.NextFunc(ctx, sessionID, n)
	}
	return gateway.NextResult{Question: f.Question(n)}, nil
}

func (f *Fake) SubmitAnswer(ctx context.Context, sessionID string, sub gateway.Submission) (*gateway.Grade, error) {
	f.count("submit-answer", sessionID)
	f.mu.Lock()
	f.submissions = append(f.submissions, sub)
	f.mu.Unlock()
	if f.SubmitFunc != nil {
		return f.SubmitFunc(ctx, sessionID, sub)
	}
	correct := sub.SelectedAnswer == "A"
	f.mu.Lock()
	if correct {
		f.correct++
	}
	mastery := float64(f.correct) / 10
	f.mu.Unlock()
	return &gateway.Grade{
		IsCorrect:       correct,
		CorrectAnswer:   "A",
		Explanation:     "A is right.",
		MasteryEstimate: mastery,
		Topic:           sub.Topic,
	}, nil
}

func (f *Fake) CompleteSession(ctx context.Context, sessionID string) (*gateway.Completion, error) {
	f.count("complete", sessionID)
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, sessionID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &gateway.Completion{
		SessionID:      sessionID,
		TotalAnswered:  len(f.submissions),
		CorrectAnswers: f.correct,
		Message:        "Assessment completed",
	}, nil
}

func (f *Fake) LearningPath(ctx context.Context, sessionID string) (*gateway.LearningPath, error) {
	f.count("learning-path", sessionID)
	if f.LearningPathFunc != nil {
		return f.LearningPathFunc(ctx, sessionID)
	}
	return &gateway.LearningPath{SessionID: sessionID}, nil
}

func (f *Fake) SubjectAnalytics(ctx context.Context, subject string) (*gateway.AnalyticsSnapshot, error) {
	f.count("analytics", "")
	if f.AnalyticsFunc != nil {
		return f.AnalyticsFunc(ctx, subject)
	}
	return &gateway.AnalyticsSnapshot{Subject: gateway.CanonicalSubject(subject)}, nil
}

func (f *Fake) Recommendations(ctx context.Context, subject string) (*gateway.Recommendations, error) {
	f.count("recommendations", "")
	if f.RecommendationsFunc != nil {
		return f.RecommendationsFunc(ctx, subject)
	}
	return &gateway.Recommendations{}, nil
}

func (f *Fake) LastQuiz(ctx context.Context) (*gateway.LastQuiz, error) {
	f.count("last-quiz", "")
	if f.LastQuizFunc != nil {
		return f.LastQuizFunc(ctx)
	}
	return &gateway.LastQuiz{}, nil
}

func (f *Fake) ListSubjects(ctx context.Context) ([]gateway.SubjectSummary, error) {
	f.count("subjects", "")
	if f.SubjectsFunc != nil {
		return f.SubjectsFunc(ctx)
	}
	return []gateway.SubjectSummary{
		{Subject: "Maths", QuestionCount: 10, Topics: []string{"Algebra"}},
		{Subject: "Science", QuestionCount: 10, Topics: []string{"Biology"}},
		{Subject: "Python", QuestionCount: 10, Topics: []string{"Loops"}},
	}, nil
}

// Unavailable returns a TransportError like a refused connection.
func Unavailable(op, endpoint string) error {
	return &gateway.TransportError{Op: op, Endpoint: endpoint, Err: fmt.Errorf("connection refused")}
}
