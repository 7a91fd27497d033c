// Package session drives one adaptive quiz attempt against the backend.
package session

import (
	"time"

	"github.com/abhisek/quizpath/internal/gateway"
)

// Status is the lifecycle position of a session.
type Status int

const (
	StatusInitializing     Status = iota // No session id yet
	StatusAwaitingQuestion               // Ready to fetch the next question
	StatusAwaitingAnswer                 // A question is shown and unanswered
	StatusShowingFeedback                // The last answer has been graded
	StatusCompleted                      // Backend has closed the session
	StatusFailed                         // A backend call failed; retry is possible
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAwaitingQuestion:
		return "awaiting-question"
	case StatusAwaitingAnswer:
		return "awaiting-answer"
	case StatusShowingFeedback:
		return "showing-feedback"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Op identifies a backend request issued by the controller.
type Op int

const (
	OpNone Op = iota
	OpStart
	OpFetch
	OpSubmit
	OpComplete
)

func (o Op) String() string {
	switch o {
	case OpStart:
		return "start"
	case OpFetch:
		return "fetch"
	case OpSubmit:
		return "submit"
	case OpComplete:
		return "complete"
	default:
		return "none"
	}
}

// Attempt records one answered question.
type Attempt struct {
	Question      *gateway.Question
	Selected      string
	IsCorrect     bool
	CorrectAnswer string
	Elapsed       time.Duration
	Explanation   string
	Mastery       float64 // backend estimate after this answer, in [0,1]

	// PriorMastery is the estimate after the previous attempt on the same
	// topic. HasPrior is false for the first attempt on a topic.
	PriorMastery float64
	HasPrior     bool
}

// State is an immutable snapshot of a session. Apply returns a new State
// for every accepted event; Attempts is never shared between snapshots
// that differ in length.
type State struct {
	SessionID string
	Subject   string
	Target    int
	Status    Status

	// Question is the question currently shown, answered or not.
	Question  *gateway.Question
	Selection string
	Attempts  []Attempt

	// Pending is the request in flight, if any. At most one request is
	// outstanding per session.
	Pending    Op
	Submission *gateway.Submission

	Completion *gateway.Completion

	// Err, FailedOp and Resume are set while Status is StatusFailed.
	// Resume is the status to restore on retry.
	Err      error
	FailedOp Op
	Resume   Status
}

// NewState returns the initial state for a session on subject.
func NewState(subject string, target int) State {
	return State{
		Subject: gateway.CanonicalSubject(subject),
		Target:  target,
		Status:  StatusInitializing,
	}
}

// Done reports whether the target question count has been answered.
func (s State) Done() bool {
	return s.Target > 0 && len(s.Attempts) >= s.Target
}

// Busy reports whether a request is in flight.
func (s State) Busy() bool {
	return s.Pending != OpNone
}

// CorrectCount returns the number of correct attempts.
func (s State) CorrectCount() int {
	n := 0
	for _, a := range s.Attempts {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// LastAttempt returns the most recent attempt, if any.
func (s State) LastAttempt() (Attempt, bool) {
	if len(s.Attempts) == 0 {
		return Attempt{}, false
	}
	return s.Attempts[len(s.Attempts)-1], true
}

// QuestionNumber is the 1-based position of the current question.
func (s State) QuestionNumber() int {
	if s.Status == StatusShowingFeedback {
		return len(s.Attempts)
	}
	return len(s.Attempts) + 1
}
