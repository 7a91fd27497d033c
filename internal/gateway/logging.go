package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/store"
)

// LoggingGateway is a decorator that logs every backend call and records
// it as a request event.
type LoggingGateway struct {
	inner     Gateway
	logger    *zap.Logger
	eventRepo store.EventRepo
}

var _ Gateway = (*LoggingGateway)(nil)

// WithLogging wraps g. Either logger or repo may be nil.
func WithLogging(g Gateway, logger *zap.Logger, repo store.EventRepo) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingGateway{inner: g, logger: logger.Named("gateway"), eventRepo: repo}
}

type call struct {
	op        string
	method    string
	endpoint  string
	sessionID string
	subject   string
}

func (l *LoggingGateway) record(ctx context.Context, c call, start time.Time, err error) {
	latency := time.Since(start)
	data := store.RequestEventData{
		Op:        c.op,
		Method:    c.method,
		Endpoint:  c.endpoint,
		SessionID: c.sessionID,
		Subject:   c.subject,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	fields := []zap.Field{
		zap.String("op", c.op),
		zap.String("endpoint", c.endpoint),
		zap.String("session_id", c.sessionID),
		zap.Duration("latency", latency),
	}
	if c.subject != "" {
		fields = append(fields, zap.String("subject", c.subject))
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		var te *TransportError
		if errors.As(err, &te) {
			data.StatusCode = te.StatusCode
			fields = append(fields, zap.Int("status", te.StatusCode))
		}
		l.logger.Warn("backend request failed", append(fields, zap.Error(err))...)
	} else {
		data.StatusCode = http.StatusOK
		l.logger.Debug("backend request", fields...)
	}

	if l.eventRepo == nil {
		return
	}
	// Record the event but don't fail the request if recording fails.
	if logErr := l.eventRepo.AppendRequest(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Warn("failed to record request event", zap.Error(logErr))
	}
}

func (l *LoggingGateway) StartSession(ctx context.Context, subject string) (string, error) {
	start := time.Now()
	id, err := l.inner.StartSession(ctx, subject)
	l.record(ctx, call{op: "start", method: http.MethodPost, endpoint: PathStart, sessionID: id, subject: CanonicalSubject(subject)}, start, err)
	return id, err
}

func (l *LoggingGateway) NextQuestion(ctx context.Context, sessionID string) (NextResult, error) {
	start := time.Now()
	res, err := l.inner.NextQuestion(ctx, sessionID)
	l.record(ctx, call{op: "next-question", method: http.MethodPost, endpoint: PathNextQuestion, sessionID: sessionID}, start, err)
	return res, err
}

func (l *LoggingGateway) SubmitAnswer(ctx context.Context, sessionID string, sub Submission) (*Grade, error) {
	start := time.Now()
	g, err := l.inner.SubmitAnswer(ctx, sessionID, sub)
	l.record(ctx, call{op: "submit-answer", method: http.MethodPost, endpoint: PathSubmitAnswer, sessionID: sessionID}, start, err)
	return g, err
}

func (l *LoggingGateway) CompleteSession(ctx context.Context, sessionID string) (*Completion, error) {
	start := time.Now()
	c, err := l.inner.CompleteSession(ctx, sessionID)
	l.record(ctx, call{op: "complete", method: http.MethodPost, endpoint: PathComplete, sessionID: sessionID}, start, err)
	return c, err
}

func (l *LoggingGateway) LearningPath(ctx context.Context, sessionID string) (*LearningPath, error) {
	start := time.Now()
	p, err := l.inner.LearningPath(ctx, sessionID)
	l.record(ctx, call{op: "learning-path", method: http.MethodGet, endpoint: PathLearningPath + sessionID, sessionID: sessionID}, start, err)
	return p, err
}

func (l *LoggingGateway) SubjectAnalytics(ctx context.Context, subject string) (*AnalyticsSnapshot, error) {
	start := time.Now()
	s, err := l.inner.SubjectAnalytics(ctx, subject)
	canonical := CanonicalSubject(subject)
	l.record(ctx, call{op: "analytics", method: http.MethodGet, endpoint: PathAnalytics + canonical, subject: canonical}, start, err)
	return s, err
}

func (l *LoggingGateway) Recommendations(ctx context.Context, subject string) (*Recommendations, error) {
	start := time.Now()
	r, err := l.inner.Recommendations(ctx, subject)
	l.record(ctx, call{op: "recommendations", method: http.MethodGet, endpoint: PathRecommendations, subject: CanonicalSubject(subject)}, start, err)
	return r, err
}

func (l *LoggingGateway) LastQuiz(ctx context.Context) (*LastQuiz, error) {
	start := time.Now()
	q, err := l.inner.LastQuiz(ctx)
	l.record(ctx, call{op: "last-quiz", method: http.MethodGet, endpoint: PathLastQuiz}, start, err)
	return q, err
}

func (l *LoggingGateway) ListSubjects(ctx context.Context) ([]SubjectSummary, error) {
	start := time.Now()
	s, err := l.inner.ListSubjects(ctx)
	l.record(ctx, call{op: "subjects", method: http.MethodGet, endpoint: PathSubjects}, start, err)
	return s, err
}
