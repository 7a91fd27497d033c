package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/gateway"
)

// DefaultTotalQuestions is the number of questions in a quiz.
const DefaultTotalQuestions = 10

// Config configures a Controller.
type Config struct {
	TotalQuestions int
	Logger         *zap.Logger
	Now            func() time.Time
}

// DefaultConfig returns a Config with the standard quiz length.
func DefaultConfig() Config {
	return Config{TotalQuestions: DefaultTotalQuestions}
}

// Controller owns one session and sequences its backend calls. Methods
// block on the gateway and are safe to call from multiple goroutines;
// an action that is not valid in the current state is a no-op.
type Controller struct {
	gw     gateway.Gateway
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   State
	shownAt time.Time
	closed  bool
}

// NewController creates a controller for a quiz on subject.
func NewController(gw gateway.Gateway, subject string, cfg Config) *Controller {
	if cfg.TotalQuestions <= 0 {
		cfg.TotalQuestions = DefaultTotalQuestions
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		gw:     gw,
		logger: cfg.Logger.Named("session"),
		now:    cfg.Now,
		state:  NewState(subject, cfg.TotalQuestions),
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close detaches the controller from its view. Results of requests still
// in flight are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// begin applies a request event. It reports false when the event is not
// valid now, in which case the caller must not contact the backend.
func (c *Controller) begin(e Event) (State, bool) {
	return c.beginWith(func(State) Event { return e })
}

// beginWith builds the request event from the current state and applies
// it in the same critical section.
func (c *Controller) beginWith(build func(State) Event) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state, false
	}
	next, err := Apply(c.state, build(c.state))
	if err != nil {
		c.logger.Debug("ignored action", zap.Error(err))
		return c.state, false
	}
	c.state = next
	return next, true
}

// finish applies a response event unless the controller was closed.
func (c *Controller) finish(e Event) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state, false
	}
	next, err := Apply(c.state, e)
	if err != nil {
		c.logger.Warn("dropped response", zap.Error(err))
		return c.state, false
	}
	if _, ok := e.(QuestionReceived); ok {
		c.shownAt = c.now()
	}
	c.state = next
	return next, true
}

func (c *Controller) fail(op Op, err error) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state, err
	}
	next, applyErr := Apply(c.state, RequestFailed{Op: op, Err: err})
	if applyErr != nil {
		c.logger.Warn("dropped failure", zap.Error(applyErr))
		return c.state, err
	}
	c.state = next
	c.logger.Warn("request failed",
		zap.Stringer("op", op),
		zap.String("session_id", next.SessionID),
		zap.String("subject", next.Subject),
		zap.Error(err),
	)
	return next, err
}

// Start opens a session on the backend and fetches the first question.
// An empty subject uses the one given to NewController.
func (c *Controller) Start(ctx context.Context, subject string) (State, error) {
	st, ok := c.begin(StartRequested{Subject: subject})
	if !ok {
		return st, nil
	}
	id, err := c.gw.StartSession(ctx, st.Subject)
	if err != nil {
		return c.fail(OpStart, err)
	}
	if st, ok = c.finish(SessionStarted{SessionID: id}); !ok {
		return st, nil
	}
	c.logger.Info("session started", zap.String("session_id", id), zap.String("subject", st.Subject))
	return c.FetchNext(ctx)
}

// FetchNext asks the backend for the next question. When the backend has
// no more questions the session is completed.
func (c *Controller) FetchNext(ctx context.Context) (State, error) {
	st, ok := c.begin(FetchRequested{})
	if !ok {
		return st, nil
	}
	res, err := c.gw.NextQuestion(ctx, st.SessionID)
	if err != nil {
		return c.fail(OpFetch, err)
	}
	if res.Finished {
		if st, ok = c.finish(QuestionsExhausted{}); !ok {
			return st, nil
		}
		c.logger.Info("question set exhausted", zap.String("session_id", st.SessionID), zap.Int("answered", len(st.Attempts)))
		return c.Complete(ctx)
	}
	st, _ = c.finish(QuestionReceived{Question: res.Question})
	return st, nil
}

// SelectOption sets the pending answer. Repeated calls overwrite it.
func (c *Controller) SelectOption(label string) State {
	st, _ := c.begin(OptionSelected{Label: label})
	return st
}

// Submit sends the pending answer. It is a no-op without a selection or
// while another request is in flight.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	st, ok := c.beginWith(func(s State) Event {
		sub := gateway.Submission{
			SelectedAnswer: s.Selection,
			Elapsed:        c.now().Sub(c.shownAt),
		}
		if q := s.Question; q != nil {
			sub.Topic = q.Topic
			sub.QuestionID = q.ID
		}
		return SubmitRequested{Submission: sub}
	})
	return c.send(ctx, st, ok)
}

func (c *Controller) submit(ctx context.Context, sub gateway.Submission) (State, error) {
	st, ok := c.begin(SubmitRequested{Submission: sub})
	return c.send(ctx, st, ok)
}

func (c *Controller) send(ctx context.Context, st State, ok bool) (State, error) {
	if !ok {
		return st, nil
	}
	grade, err := c.gw.SubmitAnswer(ctx, st.SessionID, *st.Submission)
	if err != nil {
		return c.fail(OpSubmit, err)
	}
	st, _ = c.finish(AnswerGraded{Grade: grade})
	return st, nil
}

// Advance leaves the feedback view. It fetches the next question, or
// completes the session once the target count has been answered.
func (c *Controller) Advance(ctx context.Context) (State, error) {
	st, ok := c.begin(AdvanceRequested{})
	if !ok {
		return st, nil
	}
	if st.Done() {
		return c.Complete(ctx)
	}
	return c.FetchNext(ctx)
}

// Complete closes the session on the backend. A session that never
// obtained an id completes locally.
func (c *Controller) Complete(ctx context.Context) (State, error) {
	st, ok := c.begin(CompleteRequested{})
	if !ok {
		return st, nil
	}
	completion := &gateway.Completion{}
	if st.SessionID != "" {
		var err error
		completion, err = c.gw.CompleteSession(ctx, st.SessionID)
		if err != nil {
			return c.fail(OpComplete, err)
		}
	}
	st, ok = c.finish(SessionCompleted{Completion: completion})
	if ok {
		c.logger.Info("session completed",
			zap.String("session_id", st.SessionID),
			zap.Int("answered", len(st.Attempts)),
			zap.Int("correct", st.CorrectCount()),
		)
	}
	return st, nil
}

// Retry re-issues the request that failed, against the same session.
func (c *Controller) Retry(ctx context.Context) (State, error) {
	st, ok := c.begin(RetryRequested{})
	if !ok {
		return st, nil
	}
	c.logger.Info("retrying", zap.Stringer("op", st.FailedOp), zap.String("session_id", st.SessionID))
	switch st.FailedOp {
	case OpStart:
		return c.Start(ctx, st.Subject)
	case OpFetch:
		return c.FetchNext(ctx)
	case OpSubmit:
		if st.Submission != nil {
			return c.submit(ctx, *st.Submission)
		}
		return c.Submit(ctx)
	case OpComplete:
		return c.Complete(ctx)
	}
	return st, nil
}
