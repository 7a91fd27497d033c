package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func serve(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func adviceRequest() Request {
	return Request{
		System:   "You are a study coach.",
		Messages: []Message{{Role: RoleUser, Content: "Weak: Algebra"}},
		Schema:   adviceSchema,
	}
}

func newTestAnthropic(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test", Model: "claude-haiku"},
		option.WithBaseURL(serve(t, h)), option.WithMaxRetries(0))
	require.NoError(t, err)
	return p
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var got map[string]any
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "msg_1", "type": "message", "role": "assistant",
			"content":     []map[string]any{{"type": "text", "text": `{"advice":"Revise factorising.","focus":["Algebra"]}`}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
		})
	})
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	resp, err := p.Generate(context.Background(), adviceRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"advice":"Revise factorising.","focus":["Algebra"]}`, string(resp.Content))
	assert.Equal(t, 52, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.EqualValues(t, defaultMaxTokens, got["max_tokens"])
}

func TestAnthropicProvider_Errors(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
		})
		_, err := p.Generate(context.Background(), adviceRequest())
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})

	t.Run("no text block", func(t *testing.T) {
		p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"m","type":"message","role":"assistant","content":[],"model":"x","stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
		})
		_, err := p.Generate(context.Background(), adviceRequest())
		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})
}

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test", Model: "gpt-mini", BaseURL: serve(t, h) + "/v1"})
	require.NoError(t, err)
	return p
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "c1", "object": "chat.completion", "model": "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"advice":"Do drills.","focus":["Geometry"]}`},
				"finish_reason": "length",
			}},
			"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28},
		})
	})

	resp, err := p.Generate(context.Background(), adviceRequest())
	require.NoError(t, err)
	assert.Equal(t, "max_tokens", resp.StopReason)
	assert.Equal(t, 28, resp.Usage.TotalTokens)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "test-advice", got.ResponseFormat.JSONSchema.Name)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream","type":"server_error"}}`))
		})
		_, err := p.Generate(context.Background(), adviceRequest())
		var unavailable *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavailable)
	})

	t.Run("no choices", func(t *testing.T) {
		p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","model":"m","choices":[]}`))
		})
		_, err := p.Generate(context.Background(), adviceRequest())
		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"{\"advice\":3}"},"finish_reason":"stop"}]}`))
		})
		_, err := p.Generate(context.Background(), adviceRequest())
		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestNewProviders_RequireKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(adviceSchema.Definition)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"advice", "focus"}, s.Required)
	require.Contains(t, s.Properties, "focus")
	assert.Equal(t, genai.TypeArray, s.Properties["focus"].Type)
	require.NotNil(t, s.Properties["focus"].Items)
	assert.Equal(t, genai.TypeString, s.Properties["focus"].Items.Type)

	assert.Equal(t, []string{"x", "y"}, stringList([]string{"x", "y"}))
	assert.Nil(t, stringList(42))
}
