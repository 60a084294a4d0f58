package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/seedlabs/formseed/internal/llm"
	"github.com/seedlabs/formseed/internal/seed"
)

// fakeCompleter returns a canned JSON payload, mimicking a model that
// answered the generation prompt.
type fakeCompleter struct {
	payload string
	err     error
	lastReq llm.CompletionRequest
}

func (f *fakeCompleter) CompleteStructured(_ context.Context, req llm.CompletionRequest, out any) error {
	f.lastReq = req
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.payload), out)
}

const validPayload = `{
	"users": [
		{"name": "Ada", "email": "ada@example.com", "role": "Owner"}
	],
	"surveys": [
		{
			"name": "Product Feedback",
			"questions": [{"type": "openText", "headline": "Thoughts?"}],
			"responses": [{"data": {"q1": "Great"}}]
		}
	]
}`

func TestGenerate(t *testing.T) {
	f := &fakeCompleter{payload: validPayload}
	bundle, err := New(f, nil).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(bundle.Users) != 1 || len(bundle.Surveys) != 1 {
		t.Errorf("bundle has %d users, %d surveys; want 1, 1", len(bundle.Users), len(bundle.Surveys))
	}
	if len(f.lastReq.Messages) != 1 || f.lastReq.Messages[0].Role != "user" {
		t.Errorf("prompt sent as %+v, want a single user message", f.lastReq.Messages)
	}
}

func TestGenerate_ModelError(t *testing.T) {
	f := &fakeCompleter{err: fmt.Errorf("rate limited")}
	if _, err := New(f, nil).Generate(context.Background()); err == nil {
		t.Fatal("expected error when the model call fails")
	}
}

func TestGenerate_InvalidBundleRejected(t *testing.T) {
	// Structurally valid JSON, but the role fails validation.
	f := &fakeCompleter{payload: `{
		"users": [{"name": "Ada", "email": "ada@example.com", "role": "Admin"}],
		"surveys": [{"name": "S", "questions": [{"type": "openText", "headline": "Q"}], "responses": []}]
	}`}
	if _, err := New(f, nil).Generate(context.Background()); err == nil {
		t.Fatal("expected error for bundle failing validation")
	}
}

func TestGenerateToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated_data.json")
	f := &fakeCompleter{payload: validPayload}

	if err := New(f, nil).GenerateToFile(context.Background(), path); err != nil {
		t.Fatalf("GenerateToFile() error: %v", err)
	}

	bundle, err := seed.Load(path)
	if err != nil {
		t.Fatalf("Load() error reading generated file: %v", err)
	}
	if bundle.Users[0].Email != "ada@example.com" {
		t.Errorf("persisted user email = %q", bundle.Users[0].Email)
	}
}
