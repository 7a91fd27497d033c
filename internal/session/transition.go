package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizpath/internal/gateway"
)

// ErrInvalidTransition is returned by Apply when an event is not valid in
// the current state.
var ErrInvalidTransition = errors.New("invalid session transition")

// Event is an input to the session state machine.
type Event interface {
	event()
}

type (
	// StartRequested marks the start call as in flight. An empty Subject
	// keeps the one the state was created with.
	StartRequested struct{ Subject string }
	// SessionStarted carries the id returned by the backend.
	SessionStarted struct{ SessionID string }
	// FetchRequested marks a next-question call as in flight.
	FetchRequested struct{}
	// QuestionReceived carries the next question.
	QuestionReceived struct{ Question *gateway.Question }
	// QuestionsExhausted reports that the backend has no more questions.
	QuestionsExhausted struct{}
	// OptionSelected sets or replaces the pending answer.
	OptionSelected struct{ Label string }
	// SubmitRequested marks a submit call as in flight.
	SubmitRequested struct{ Submission gateway.Submission }
	// AnswerGraded carries the backend's verdict for the pending submission.
	AnswerGraded struct{ Grade *gateway.Grade }
	// AdvanceRequested moves past the feedback for the last answer.
	AdvanceRequested struct{}
	// CompleteRequested marks the complete call as in flight.
	CompleteRequested struct{}
	// SessionCompleted carries the backend's final tally.
	SessionCompleted struct{ Completion *gateway.Completion }
	// RequestFailed reports that the in-flight request failed.
	RequestFailed struct {
		Op  Op
		Err error
	}
	// RetryRequested leaves the failed state.
	RetryRequested struct{}
)

func (StartRequested) event()     {}
func (SessionStarted) event()     {}
func (FetchRequested) event()     {}
func (QuestionReceived) event()   {}
func (QuestionsExhausted) event() {}
func (OptionSelected) event()     {}
func (SubmitRequested) event()    {}
func (AnswerGraded) event()       {}
func (AdvanceRequested) event()   {}
func (CompleteRequested) event()  {}
func (SessionCompleted) event()   {}
func (RequestFailed) event()      {}
func (RetryRequested) event()     {}

func invalid(s State, e Event) error {
	return fmt.Errorf("%w: %T in %s (pending %s)", ErrInvalidTransition, e, s.Status, s.Pending)
}

// Apply folds e into s. It has no side effects; on error s is returned
// unchanged.
func Apply(s State, e Event) (State, error) {
	switch ev := e.(type) {
	case StartRequested:
		if s.Status != StatusInitializing || s.Busy() {
			return s, invalid(s, e)
		}
		if ev.Subject != "" {
			s.Subject = gateway.CanonicalSubject(ev.Subject)
		}
		if s.Subject == "" {
			return s, invalid(s, e)
		}
		s.Pending = OpStart

	case SessionStarted:
		if s.Pending != OpStart || ev.SessionID == "" {
			return s, invalid(s, e)
		}
		s.SessionID = ev.SessionID
		s.Status = StatusAwaitingQuestion
		s.Pending = OpNone

	case FetchRequested:
		if s.Status != StatusAwaitingQuestion || s.Busy() || s.Done() {
			return s, invalid(s, e)
		}
		s.Pending = OpFetch

	case QuestionReceived:
		if s.Pending != OpFetch || ev.Question == nil {
			return s, invalid(s, e)
		}
		s.Question = ev.Question
		s.Selection = ""
		s.Status = StatusAwaitingAnswer
		s.Pending = OpNone

	case QuestionsExhausted:
		if s.Pending != OpFetch {
			return s, invalid(s, e)
		}
		s.Pending = OpNone

	case OptionSelected:
		if s.Status != StatusAwaitingAnswer || s.Busy() || s.Question == nil {
			return s, invalid(s, e)
		}
		label := strings.ToUpper(strings.TrimSpace(ev.Label))
		if _, ok := s.Question.Option(label); !ok {
			return s, invalid(s, e)
		}
		s.Selection = label

	case SubmitRequested:
		if s.Status != StatusAwaitingAnswer || s.Busy() || s.Selection == "" || s.Done() {
			return s, invalid(s, e)
		}
		sub := ev.Submission
		s.Submission = &sub
		s.Pending = OpSubmit

	case AnswerGraded:
		if s.Pending != OpSubmit || ev.Grade == nil || s.Submission == nil {
			return s, invalid(s, e)
		}
		s.Attempts = appendAttempt(s.Attempts, newAttempt(s, ev.Grade))
		s.Submission = nil
		s.Status = StatusShowingFeedback
		s.Pending = OpNone

	case AdvanceRequested:
		if s.Status != StatusShowingFeedback || s.Busy() {
			return s, invalid(s, e)
		}
		if s.Done() {
			// The caller completes the session instead.
			return s, nil
		}
		s.Question = nil
		s.Selection = ""
		s.Status = StatusAwaitingQuestion

	case CompleteRequested:
		if s.Status == StatusCompleted || s.Busy() {
			return s, invalid(s, e)
		}
		s.Pending = OpComplete

	case SessionCompleted:
		if s.Pending != OpComplete {
			return s, invalid(s, e)
		}
		s.Completion = ev.Completion
		s.Question = nil
		s.Selection = ""
		s.Status = StatusCompleted
		s.Pending = OpNone

	case RequestFailed:
		if s.Pending == OpNone || s.Pending != ev.Op {
			return s, invalid(s, e)
		}
		if s.Status != StatusFailed {
			s.Resume = s.Status
		}
		s.Status = StatusFailed
		s.FailedOp = ev.Op
		s.Err = ev.Err
		s.Pending = OpNone

	case RetryRequested:
		if s.Status != StatusFailed || s.Busy() {
			return s, invalid(s, e)
		}
		s.Status = s.Resume
		s.Err = nil

	default:
		return s, invalid(s, e)
	}
	return s, nil
}

func newAttempt(s State, g *gateway.Grade) Attempt {
	a := Attempt{
		Question:      s.Question,
		Selected:      s.Submission.SelectedAnswer,
		IsCorrect:     g.IsCorrect,
		CorrectAnswer: g.CorrectAnswer,
		Elapsed:       s.Submission.Elapsed,
		Explanation:   g.Explanation,
		Mastery:       g.MasteryEstimate,
	}
	topic := ""
	if s.Question != nil {
		topic = s.Question.Topic
	}
	for i := len(s.Attempts) - 1; i >= 0; i-- {
		prev := s.Attempts[i]
		if prev.Question != nil && prev.Question.Topic == topic {
			a.PriorMastery = prev.Mastery
			a.HasPrior = true
			break
		}
	}
	return a
}

// appendAttempt never writes into a backing array shared with an older
// snapshot.
func appendAttempt(attempts []Attempt, a Attempt) []Attempt {
	return append(attempts[:len(attempts):len(attempts)], a)
}
