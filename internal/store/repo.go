package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit      int       // max results (0 = unlimited)
	After      int64     // sequence > After
	Before     int64     // sequence < Before
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
	SessionID  string    // exact match when set
	FailedOnly bool
}

// RequestEventData captures one call to the quiz backend.
type RequestEventData struct {
	Op           string
	Method       string
	Endpoint     string
	SessionID    string
	Subject      string
	LatencyMs    int64
	Success      bool
	StatusCode   int
	ErrorMessage string
}

// RequestEvent is a stored backend call.
type RequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// QuizResultData captures the outcome of one finished quiz.
type QuizResultData struct {
	SessionID       string
	Subject         string
	TotalAnswered   int
	CorrectAnswers  int
	AccuracyPercent int
	DurationSecs    int
}

// QuizResult is a stored finished quiz.
type QuizResult struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizResultData
}

// EventRepo provides append and query access to local events.
type EventRepo interface {
	// AppendRequest records a backend call.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// QueryRequests returns request events, newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// GetRequest returns a single request event, or nil if it doesn't exist.
	GetRequest(ctx context.Context, id int) (*RequestEvent, error)

	// AppendQuizResult records a finished quiz.
	AppendQuizResult(ctx context.Context, data QuizResultData) error

	// RecentQuizResults returns up to limit finished quizzes, newest first.
	// An empty subject matches every subject.
	RecentQuizResults(ctx context.Context, subject string, limit int) ([]QuizResult, error)
}
