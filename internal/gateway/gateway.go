// Package gateway is the typed client for the adaptive quiz backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Endpoint paths relative to the backend base URL.
const (
	PathStart           = "/api/assessment/start"
	PathNextQuestion    = "/api/assessment/next-question"
	PathSubmitAnswer    = "/api/assessment/submit-answer"
	PathComplete        = "/api/assessment/complete"
	PathLearningPath    = "/api/learning-path/"
	PathRecommendations = "/api/learning-path/recommendations"
	PathLastQuiz        = "/api/learning-path/last-quiz"
	PathAnalytics       = "/api/analytics/subject/"
	PathSubjects        = "/api/subjects"
)

// Gateway is the remote quiz service. Every call is fallible and
// reports failures as *TransportError. Implementations never retry.
type Gateway interface {
	StartSession(ctx context.Context, subject string) (string, error)
	NextQuestion(ctx context.Context, sessionID string) (NextResult, error)
	SubmitAnswer(ctx context.Context, sessionID string, sub Submission) (*Grade, error)
	CompleteSession(ctx context.Context, sessionID string) (*Completion, error)
	LearningPath(ctx context.Context, sessionID string) (*LearningPath, error)
	SubjectAnalytics(ctx context.Context, subject string) (*AnalyticsSnapshot, error)
	Recommendations(ctx context.Context, subject string) (*Recommendations, error)
	LastQuiz(ctx context.Context) (*LastQuiz, error)
	ListSubjects(ctx context.Context) ([]SubjectSummary, error)
}

// Config holds everything needed to reach the backend.
type Config struct {
	BaseURL    string
	APIKey     string
	UserID     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// DefaultConfig returns a Config pointing at a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 30 * time.Second,
	}
}

// HTTPGateway implements Gateway over JSON/HTTP.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
}

var _ Gateway = (*HTTPGateway)(nil)

// NewHTTP creates an HTTPGateway from cfg.
func NewHTTP(cfg Config) *HTTPGateway {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultConfig().BaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultConfig().Timeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPGateway{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		userID:     strings.TrimSpace(cfg.UserID),
		httpClient: client,
	}
}

func (g *HTTPGateway) StartSession(ctx context.Context, subject string) (string, error) {
	query := url.Values{}
	query.Set("subject", CanonicalSubject(subject))
	if g.userID != "" {
		query.Set("user_id", g.userID)
	}

	var payload startResponse
	if err := g.doJSON(ctx, "start", http.MethodPost, PathStart+"?"+query.Encode(), nil, &payload); err != nil {
		return "", err
	}
	if payload.SessionID == "" {
		return "", &TransportError{Op: "start", Endpoint: PathStart, Message: "response has no session_id"}
	}
	return string(payload.SessionID), nil
}

func (g *HTTPGateway) NextQuestion(ctx context.Context, sessionID string) (NextResult, error) {
	var payload questionResponse
	req := sessionRequest{SessionID: sessionID}
	if err := g.doJSON(ctx, "next-question", http.MethodPost, PathNextQuestion, req, &payload); err != nil {
		return NextResult{}, err
	}
	if payload.Finished {
		return NextResult{Finished: true}, nil
	}
	if strings.TrimSpace(payload.Question) == "" {
		return NextResult{}, &TransportError{Op: "next-question", Endpoint: PathNextQuestion, Message: "response has no question"}
	}
	return NextResult{Question: payload.toQuestion()}, nil
}

func (g *HTTPGateway) SubmitAnswer(ctx context.Context, sessionID string, sub Submission) (*Grade, error) {
	req := submitRequest{
		SessionID:      sessionID,
		SelectedAnswer: strings.ToUpper(strings.TrimSpace(sub.SelectedAnswer)),
		TimeSpent:      sub.ElapsedSeconds(),
		Topic:          sub.Topic,
		QuestionID:     sub.QuestionID,
	}
	var payload submitResponse
	if err := g.doJSON(ctx, "submit-answer", http.MethodPost, PathSubmitAnswer, req, &payload); err != nil {
		return nil, err
	}
	return payload.toGrade(), nil
}

func (g *HTTPGateway) CompleteSession(ctx context.Context, sessionID string) (*Completion, error) {
	query := url.Values{}
	query.Set("session_id", sessionID)

	var payload completeResponse
	if err := g.doJSON(ctx, "complete", http.MethodPost, PathComplete+"?"+query.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	c := &Completion{
		SessionID:      string(payload.SessionID),
		TotalAnswered:  payload.TotalAnswered,
		CorrectAnswers: payload.CorrectAnswers,
		Score:          payload.Score,
		Message:        payload.Message,
	}
	if c.SessionID == "" {
		c.SessionID = sessionID
	}
	return c, nil
}

func (g *HTTPGateway) LearningPath(ctx context.Context, sessionID string) (*LearningPath, error) {
	var payload learningPathResponse
	if err := g.doJSON(ctx, "learning-path", http.MethodGet, PathLearningPath+url.PathEscape(sessionID), nil, &payload); err != nil {
		return nil, err
	}
	path := &LearningPath{SessionID: sessionID}
	for _, t := range payload.RecommendedTopics {
		path.RecommendedTopics = append(path.RecommendedTopics, RecommendedTopic{
			Topic:          t.Topic,
			CurrentMastery: t.CurrentMastery,
			Priority:       t.Priority,
			Recommendation: t.Recommendation,
		})
	}
	return path, nil
}

func (g *HTTPGateway) SubjectAnalytics(ctx context.Context, subject string) (*AnalyticsSnapshot, error) {
	canonical := CanonicalSubject(subject)
	var payload analyticsResponse
	if err := g.doJSON(ctx, "analytics", http.MethodGet, PathAnalytics+url.PathEscape(canonical), nil, &payload); err != nil {
		return nil, err
	}
	snap := &AnalyticsSnapshot{
		Subject:         canonical,
		TotalQuestions:  payload.TotalQuestions,
		CorrectAnswers:  payload.CorrectAnswers,
		Accuracy:        payload.Accuracy,
		MasteryEstimate: payload.MasteryEstimate,
	}
	for _, p := range payload.GrowthData {
		snap.Growth = append(snap.Growth, GrowthPoint(p))
	}
	for _, h := range payload.QuestionHistory {
		snap.History = append(snap.History, HistoryEntry(h))
	}
	return snap, nil
}

func (g *HTTPGateway) Recommendations(ctx context.Context, subject string) (*Recommendations, error) {
	query := url.Values{}
	query.Set("subject", CanonicalSubject(subject))
	if g.userID != "" {
		query.Set("user_id", g.userID)
	}

	var payload recommendationsResponse
	if err := g.doJSON(ctx, "recommendations", http.MethodGet, PathRecommendations+"?"+query.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	rec := &Recommendations{
		HasData:           payload.HasData,
		TotalQuizzes:      payload.TotalQuizzes,
		TotalQuestions:    payload.TotalQuestions,
		AIRecommendations: payload.AIRecommendations,
	}
	for _, w := range payload.WeakAreas {
		rec.WeakAreas = append(rec.WeakAreas, WeakArea(w))
	}
	for _, r := range payload.LearningResources {
		rec.LearningResources = append(rec.LearningResources, Resource(r))
	}
	return rec, nil
}

func (g *HTTPGateway) LastQuiz(ctx context.Context) (*LastQuiz, error) {
	path := PathLastQuiz
	if g.userID != "" {
		query := url.Values{}
		query.Set("user_id", g.userID)
		path += "?" + query.Encode()
	}

	var payload lastQuizResponse
	if err := g.doJSON(ctx, "last-quiz", http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	lq := LastQuiz(payload)
	return &lq, nil
}

func (g *HTTPGateway) ListSubjects(ctx context.Context) ([]SubjectSummary, error) {
	var payload []subjectPayload
	if err := g.doJSON(ctx, "subjects", http.MethodGet, PathSubjects, nil, &payload); err != nil {
		return nil, err
	}
	subjects := make([]SubjectSummary, 0, len(payload))
	for _, s := range payload {
		subjects = append(subjects, SubjectSummary(s))
	}
	return subjects, nil
}

func (g *HTTPGateway) doJSON(ctx context.Context, op, method, path string, requestBody any, responseBody any) error {
	endpoint := path
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	fail := func(status int, msg string, err error) error {
		return &TransportError{Op: op, Endpoint: endpoint, StatusCode: status, Message: msg, Err: err}
	}

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fail(0, "encode request", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fail(0, "", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		request.Header.Set("X-API-Key", g.apiKey)
	}

	response, err := g.httpClient.Do(request)
	if err != nil {
		return fail(0, "", err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		msg := response.Status
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			if m := strings.TrimSpace(payload.message()); m != "" {
				msg = m
			}
		}
		return fail(response.StatusCode, msg, nil)
	}

	if responseBody == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(responseBody); err != nil {
		if errors.Is(err, io.EOF) {
			return fail(response.StatusCode, "empty response body", err)
		}
		return fail(response.StatusCode, fmt.Sprintf("decode %s response", op), err)
	}
	return nil
}
