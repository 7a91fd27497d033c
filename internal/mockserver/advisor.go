package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/llm"
)

// WeakArea is a topic where the learner is below the proficient band.
type WeakArea struct {
	Topic    string  `json:"topic"`
	Mastery  float64 `json:"mastery"`
	Accuracy float64 `json:"accuracy"`
}

// Advisor writes the free-text study advice of the recommendations
// endpoint.
type Advisor interface {
	Advise(ctx context.Context, subject string, weak []WeakArea) string
}

// TemplateAdvisor builds advice from fixed sentences.
type TemplateAdvisor struct{}

func (TemplateAdvisor) Advise(_ context.Context, subject string, weak []WeakArea) string {
	if len(weak) == 0 {
		return fmt.Sprintf("You are doing well in %s. Keep practising with harder questions to lock in your mastery.", subject)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Focus your next %s sessions on %s.", subject, weak[0].Topic)
	for _, w := range weak {
		fmt.Fprintf(&b, "\n- %s: %.0f%% accuracy. ", w.Topic, w.Accuracy)
		switch {
		case w.Mastery < 0.4:
			b.WriteString("Revisit the fundamentals with worked examples before attempting new problems.")
		default:
			b.WriteString("Do a short daily set of mixed practice questions.")
		}
	}
	return b.String()
}

var adviceSchema = &llm.Schema{
	Name:        "study-advice",
	Description: "Short study advice for a learner's weak topics",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"advice": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of encouraging, concrete advice",
			},
			"focus": map[string]any{
				"type":        "array",
				"description": "Topics to practise next, most urgent first",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []any{"advice", "focus"},
		"additionalProperties": false,
	},
}

const adviceSystemPrompt = `You are a friendly study coach for an adaptive quiz app.
Given a subject and the learner's weak topics with mastery (0-1) and accuracy (percent),
write brief, specific advice. Do not invent topics that are not listed.`

// LLMAdvisor asks a language model for advice and falls back to the
// template when the model is unavailable or answers badly.
type LLMAdvisor struct {
	provider llm.Provider
	fallback Advisor
	timeout  time.Duration
	logger   *zap.Logger
}

func NewLLMAdvisor(p llm.Provider, logger *zap.Logger) *LLMAdvisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMAdvisor{provider: p, fallback: TemplateAdvisor{}, timeout: 15 * time.Second, logger: logger}
}

func (a *LLMAdvisor) Advise(ctx context.Context, subject string, weak []WeakArea) string {
	if len(weak) == 0 {
		return a.fallback.Advise(ctx, subject, weak)
	}

	areas, _ := json.Marshal(weak)
	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "study-advice"), a.timeout)
	defer cancel()

	resp, err := a.provider.Generate(ctx, llm.Request{
		System: adviceSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Subject: %s\nWeak topics: %s", subject, areas),
		}},
		Schema:      adviceSchema,
		MaxTokens:   300,
		Temperature: 0.4,
	})
	if err != nil {
		a.logger.Debug("advisor falling back to template", zap.Error(err))
		return a.fallback.Advise(ctx, subject, weak)
	}

	var out struct {
		Advice string   `json:"advice"`
		Focus  []string `json:"focus"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil || strings.TrimSpace(out.Advice) == "" {
		return a.fallback.Advise(ctx, subject, weak)
	}
	text := strings.TrimSpace(out.Advice)
	if len(out.Focus) > 0 {
		text += "\nFocus on: " + strings.Join(out.Focus, ", ")
	}
	return text
}

// resources are static links shown next to the advice.
var resources = map[string][]Resource{
	"maths": {
		{"Khan Academy Math", "Free lessons and practice from arithmetic to calculus", "https://www.khanacademy.org/math"},
		{"Coursera: Mathematics for Machine Learning", "Linear algebra and statistics refresher", "https://www.coursera.org/specializations/mathematics-machine-learning"},
	},
	"science": {
		{"Khan Academy Science", "Physics, chemistry and biology courses", "https://www.khanacademy.org/science"},
		{"edX Science Courses", "University science courses", "https://www.edx.org/learn/science"},
	},
	"python": {
		{"freeCodeCamp Python", "Hands-on Python curriculum", "https://www.freecodecamp.org/learn/scientific-computing-with-python/"},
		{"The Python Tutorial", "Official language tutorial", "https://docs.python.org/3/tutorial/"},
	},
}

// Resource is a study link of the recommendations endpoint.
type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func resourcesFor(subject string) []Resource {
	if r, ok := resources[subjectKey(subject)]; ok {
		return r
	}
	return []Resource{{"Khan Academy", "Free courses across many subjects", "https://www.khanacademy.org"}}
}
