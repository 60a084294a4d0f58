// Package openai implements the OpenAI chat-completions dialect.
//
// Import this package for its side effect of registering the "openai"
// dialect in the global registry:
//
//	import _ "github.com/seedlabs/formseed/internal/llm/openai"
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/seedlabs/formseed/internal/llm"
)

// DialectName is the registered name for the OpenAI dialect.
const DialectName = "openai"

// DefaultBaseURL is the OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect implements llm.Dialect for the OpenAI chat completions API.
// It also works with OpenAI-compatible endpoints (Azure OpenAI, vLLM, etc.)
// given the right base URL.
type Dialect struct{}

// Name returns the dialect identifier.
func (d *Dialect) Name() string { return DialectName }

// ChatPath returns the chat completions endpoint path.
func (d *Dialect) ChatPath() string { return "/v1/chat/completions" }

// BuildRequest maps a universal completion request to the OpenAI wire format.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	if req.SystemPrompt == "" && len(req.Messages) == 0 {
		return nil, fmt.Errorf("openai: at least one message is required")
	}

	msgs := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	return chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse maps an OpenAI chat completions response to the universal format.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("openai: api error (%s): %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response contains no choices")
	}

	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// --- internal OpenAI API types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
