package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Complete sends a single user prompt and returns the generated text.
func (a *Adapter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.Execute(ctx, CompletionRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// CompleteStructured sends a prompt and decodes the response as JSON into out.
// Models often wrap JSON output in markdown code fences; those are stripped
// before decoding.
func (a *Adapter) CompleteStructured(ctx context.Context, req CompletionRequest, out any) error {
	resp, err := a.Execute(ctx, req)
	if err != nil {
		return err
	}

	payload := ExtractJSON(resp.Content)
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("llm: decode structured response: %w", err)
	}
	return nil
}

// ExtractJSON strips markdown code fences around a JSON payload, if present.
// Handles ```json ... ``` and bare ``` ... ``` fences; other content is
// returned trimmed but otherwise unchanged.
func ExtractJSON(content string) string {
	s := strings.TrimSpace(content)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (```json or ```).
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}

	return s
}
