package gateway

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/abhisek/quizpath/internal/mastery"
)

// flexString decodes either a JSON string or a JSON number. Question ids
// are numeric on some backends.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type startResponse struct {
	SessionID flexString `json:"session_id"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type questionResponse struct {
	Finished          bool       `json:"finished"`
	ID                flexString `json:"id"`
	Question          string     `json:"question"`
	OptionA           string     `json:"option_a"`
	OptionB           string     `json:"option_b"`
	OptionC           string     `json:"option_c"`
	OptionD           string     `json:"option_d"`
	Difficulty        string     `json:"difficulty"`
	CurrentDifficulty string     `json:"current_difficulty"`
	Topic             string     `json:"topic"`
}

func (r questionResponse) toQuestion() *Question {
	q := &Question{
		ID:         string(r.ID),
		Text:       r.Question,
		Difficulty: r.CurrentDifficulty,
		Topic:      r.Topic,
	}
	if q.Difficulty == "" {
		q.Difficulty = r.Difficulty
	}
	texts := []string{r.OptionA, r.OptionB, r.OptionC, r.OptionD}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		q.Options = append(q.Options, Option{Label: OptionLabels[i], Text: text})
	}
	return q
}

type submitRequest struct {
	SessionID      string `json:"session_id"`
	SelectedAnswer string `json:"selected_answer"`
	TimeSpent      int    `json:"time_spent"`
	Topic          string `json:"topic,omitempty"`
	QuestionID     string `json:"question_id,omitempty"`
}

type submitResponse struct {
	IsCorrect       bool     `json:"is_correct"`
	CorrectAnswer   string   `json:"correct_answer"`
	Explanation     string   `json:"explanation"`
	NewMasteryLevel *float64 `json:"new_mastery_level"`
	Topic           string   `json:"topic"`
}

func (r submitResponse) toGrade() *Grade {
	g := &Grade{
		IsCorrect:     r.IsCorrect,
		CorrectAnswer: strings.ToUpper(strings.TrimSpace(r.CorrectAnswer)),
		Explanation:   r.Explanation,
		Topic:         r.Topic,
	}
	if r.NewMasteryLevel != nil {
		g.MasteryEstimate = mastery.Clamp(*r.NewMasteryLevel)
	}
	return g
}

type completeResponse struct {
	SessionID      flexString `json:"session_id"`
	TotalAnswered  int        `json:"total_answered"`
	CorrectAnswers int        `json:"correct_answers"`
	Score          float64    `json:"score"`
	Message        string     `json:"message"`
}

type recommendedTopicPayload struct {
	Topic          string  `json:"topic"`
	CurrentMastery float64 `json:"current_mastery"`
	Priority       string  `json:"priority"`
	Recommendation string  `json:"recommendation"`
}

type learningPathResponse struct {
	SessionID         flexString                `json:"session_id"`
	RecommendedTopics []recommendedTopicPayload `json:"recommended_topics"`
}

type growthPayload struct {
	QuestionNumber int     `json:"question_number"`
	Accuracy       float64 `json:"accuracy"`
	Correct        bool    `json:"correct"`
}

type historyPayload struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Question   string `json:"question"`
	IsCorrect  bool   `json:"is_correct"`
}

type analyticsResponse struct {
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	Accuracy        float64          `json:"accuracy"`
	MasteryEstimate float64          `json:"mastery_estimate"`
	GrowthData      []growthPayload  `json:"growth_data"`
	QuestionHistory []historyPayload `json:"question_history"`
}

type weakAreaPayload struct {
	Topic    string  `json:"topic"`
	Mastery  float64 `json:"mastery"`
	Accuracy float64 `json:"accuracy"`
}

type resourcePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type recommendationsResponse struct {
	HasData           bool              `json:"has_data"`
	TotalQuizzes      int               `json:"total_quizzes"`
	TotalQuestions    int               `json:"total_questions"`
	AIRecommendations string            `json:"ai_recommendations"`
	WeakAreas         []weakAreaPayload `json:"weak_areas"`
	LearningResources []resourcePayload `json:"learning_resources"`
}

type lastQuizResponse struct {
	HasData        bool    `json:"has_data"`
	Subject        string  `json:"subject"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Accuracy       float64 `json:"accuracy"`
}

type subjectPayload struct {
	Subject       string   `json:"subject"`
	QuestionCount int      `json:"question_count"`
	Topics        []string `json:"topics"`
}

// errorResponse matches both FastAPI style {"detail": "..."} and
// {"error": "..."} bodies.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

func (e errorResponse) message() string {
	if len(e.Detail) > 0 {
		var s string
		if err := json.Unmarshal(e.Detail, &s); err == nil {
			return s
		}
		return string(e.Detail)
	}
	return e.Error
}
