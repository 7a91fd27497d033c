package llm

import (
	"encoding/json"
	"net/http"
)

const defaultMaxTokens = 512

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}

// finishResponse validates structured output and assembles the Response
// every provider returns.
func finishResponse(req Request, content json.RawMessage, model, stop string, in, out int) (*Response, error) {
	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content:    content,
		Model:      model,
		StopReason: stop,
		Usage:      Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
	}, nil
}

// classifyStatus maps a provider HTTP status to the package error types.
func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
