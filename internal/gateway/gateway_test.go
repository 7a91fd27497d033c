package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestGateway(t *testing.T, h http.HandlerFunc) *HTTPGateway {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewHTTP(Config{BaseURL: server.URL, APIKey: "secret", UserID: "u1", HTTPClient: server.Client()})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestStartSessionCanonicalizesSubject(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathStart, r.URL.Path)
		assert.Equal(t, "Maths", r.URL.Query().Get("subject"))
		assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		writeJSON(t, w, map[string]any{"session_id": "abc-123"})
	})

	id, err := g.StartSession(context.Background(), "maths")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestStartSessionAcceptsNumericID(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"session_id": 42})
	})

	id, err := g.StartSession(context.Background(), "Science")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestStartSessionWithoutIDFails(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{})
	})

	_, err := g.StartSession(context.Background(), "Science")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNextQuestionParsesQuestion(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathNextQuestion, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["session_id"])

		writeJSON(t, w, map[string]any{
			"id":                 7,
			"question":           "What is $2+2$?",
			"option_a":           "3",
			"option_b":           "4",
			"option_c":           "5",
			"option_d":           "",
			"difficulty":         "Easy",
			"current_difficulty": "Medium",
			"topic":              "Arithmetic",
		})
	})

	res, err := g.NextQuestion(context.Background(), "s1")
	require.NoError(t, err)
	require.False(t, res.Finished)
	require.NotNil(t, res.Question)

	q := res.Question
	assert.Equal(t, "7", q.ID)
	assert.Equal(t, "Medium", q.Difficulty, "current_difficulty wins")
	assert.Equal(t, "Arithmetic", q.Topic)
	require.Len(t, q.Options, 3, "empty option D is omitted")
	assert.Equal(t, Option{Label: "B", Text: "4"}, q.Options[1])

	opt, ok := q.Option("b")
	assert.True(t, ok)
	assert.Equal(t, "4", opt.Text)
	_, ok = q.Option("D")
	assert.False(t, ok)
}

func TestNextQuestionFallsBackToDifficulty(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"id": "q1", "question": "Q?", "option_a": "x", "difficulty": "Hard"})
	})

	res, err := g.NextQuestion(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Hard", res.Question.Difficulty)
}

func TestNextQuestionFinished(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"finished": true})
	})

	res, err := g.NextQuestion(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Nil(t, res.Question)
}

func TestSubmitAnswerSendsPayload(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathSubmitAnswer, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["session_id"])
		assert.Equal(t, "B", body["selected_answer"])
		assert.EqualValues(t, 12, body["time_spent"])
		assert.Equal(t, "Algebra", body["topic"])
		assert.Equal(t, "q9", body["question_id"])

		writeJSON(t, w, map[string]any{
			"is_correct":        false,
			"correct_answer":    "c",
			"explanation":       "Because.",
			"new_mastery_level": 1.4,
		})
	})

	grade, err := g.SubmitAnswer(context.Background(), "s1", Submission{
		SelectedAnswer: "b",
		Elapsed:        12900 * time.Millisecond,
		Topic:          "Algebra",
		QuestionID:     "q9",
	})
	require.NoError(t, err)
	assert.False(t, grade.IsCorrect)
	assert.Equal(t, "C", grade.CorrectAnswer)
	assert.Equal(t, "Because.", grade.Explanation)
	assert.Equal(t, 1.0, grade.MasteryEstimate, "mastery is clamped to [0,1]")
}

func TestCompleteSession(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathComplete, r.URL.Path)
		assert.Equal(t, "s1", r.URL.Query().Get("session_id"))
		writeJSON(t, w, map[string]any{"total_answered": 10, "correct_answers": 7, "score": 70.0})
	})

	c, err := g.CompleteSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", c.SessionID)
	assert.Equal(t, 10, c.TotalAnswered)
	assert.Equal(t, 7, c.CorrectAnswers)
}

func TestLearningPath(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathLearningPath+"s1", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"recommended_topics": []map[string]any{
				{"topic": "Fractions", "current_mastery": 0.2, "priority": "high", "recommendation": "Review basics"},
			},
		})
	})

	p, err := g.LearningPath(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, p.RecommendedTopics, 1)
	assert.Equal(t, RecommendedTopic{Topic: "Fractions", CurrentMastery: 0.2, Priority: "high", Recommendation: "Review basics"}, p.RecommendedTopics[0])
}

func TestSubjectAnalytics(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathAnalytics+"Science", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"total_questions":  2,
			"correct_answers":  1,
			"accuracy":         50.0,
			"mastery_estimate": 0.45,
			"growth_data": []map[string]any{
				{"question_number": 1, "accuracy": 100.0, "correct": true},
				{"question_number": 2, "accuracy": 50.0, "correct": false},
			},
			"question_history": []map[string]any{
				{"topic": "Cells", "difficulty": "Easy", "question": "Q1", "is_correct": true},
			},
		})
	})

	s, err := g.SubjectAnalytics(context.Background(), "science")
	require.NoError(t, err)
	assert.Equal(t, "Science", s.Subject)
	assert.False(t, s.Empty())
	assert.Len(t, s.Growth, 2)
	assert.Equal(t, GrowthPoint{QuestionNumber: 2, Accuracy: 50, Correct: false}, s.Growth[1])
	assert.Equal(t, "Cells", s.History[0].Topic)
}

func TestRecommendationsAndLastQuiz(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathRecommendations:
			assert.Equal(t, "Python", r.URL.Query().Get("subject"))
			writeJSON(t, w, map[string]any{
				"has_data":           true,
				"total_quizzes":      2,
				"total_questions":    20,
				"ai_recommendations": "Practice loops.",
				"weak_areas":         []map[string]any{{"topic": "Loops", "mastery": 0.3, "accuracy": 40.0}},
				"learning_resources": []map[string]any{{"title": "freeCodeCamp", "description": "d", "url": "https://www.freecodecamp.org"}},
			})
		case PathLastQuiz:
			assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
			writeJSON(t, w, map[string]any{"has_data": true, "subject": "Python", "correct_answers": 8, "total_questions": 10, "accuracy": 80.0})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	rec, err := g.Recommendations(context.Background(), "python")
	require.NoError(t, err)
	assert.True(t, rec.HasData)
	assert.Equal(t, "Practice loops.", rec.AIRecommendations)
	assert.Equal(t, WeakArea{Topic: "Loops", Mastery: 0.3, Accuracy: 40}, rec.WeakAreas[0])
	assert.Equal(t, "freeCodeCamp", rec.LearningResources[0].Title)

	lq, err := g.LastQuiz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LastQuiz{HasData: true, Subject: "Python", CorrectAnswers: 8, TotalQuestions: 10, Accuracy: 80}, *lq)
}

func TestListSubjects(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"subject": "Maths", "question_count": 12, "topics": []string{"Algebra", "Geometry"}},
		})
	})

	subjects, err := g.ListSubjects(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, SubjectSummary{Subject: "Maths", QuestionCount: 12, Topics: []string{"Algebra", "Geometry"}}, subjects[0])
}

func TestDoJSONNetworkErrorIsTransportError(t *testing.T) {
	g := NewHTTP(Config{
		BaseURL: "http://example.test",
		HTTPClient: &http.Client{
			Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("dial error")
			}),
		},
	})

	_, err := g.NextQuestion(context.Background(), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "next-question", te.Op)
	assert.Equal(t, PathNextQuestion, te.Endpoint)
	assert.Zero(t, te.StatusCode)
	assert.True(t, te.Temporary())
	assert.Contains(t, te.Error(), "dial error")
}

func TestDoJSONUsesDetailMessage(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Session not found"}`)
	})

	_, err := g.CompleteSession(context.Background(), "missing")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Equal(t, "Session not found", te.Message)
	assert.Equal(t, PathComplete, te.Endpoint, "query string is stripped")
	assert.False(t, te.Temporary())
}

func TestDoJSONFallsBackToStatusText(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.ListSubjects(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "502 Bad Gateway", te.Message)
}

func TestDoJSONMalformedBody(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"session_id":`)
	})

	_, err := g.StartSession(context.Background(), "Maths")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCanonicalSubject(t *testing.T) {
	tests := []struct {
		in, want, route string
	}{
		{"maths", "Maths", "maths"},
		{"MATHS", "Maths", "maths"},
		{"Science", "Science", "science"},
		{" python ", "Python", "python"},
		{"history", "history", "history"},
		{"Computer Science", "Computer Science", "computer science"},
		{"économie", "économie", "économie"},
		{" Ölçme ", "Ölçme", "ölçme"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalSubject(tt.in))
			assert.Equal(t, tt.route, RouteSegment(tt.in))
		})
	}
}

func TestSubmissionElapsedSeconds(t *testing.T) {
	assert.Equal(t, 0, Submission{Elapsed: -time.Second}.ElapsedSeconds())
	assert.Equal(t, 0, Submission{Elapsed: 999 * time.Millisecond}.ElapsedSeconds())
	assert.Equal(t, 3, Submission{Elapsed: 3500 * time.Millisecond}.ElapsedSeconds())
}
