// Package generator asks an LLM for a synthetic seed bundle and persists
// it as JSON for a later seeding run.
package generator

import (
	"context"
	"fmt"

	"github.com/seedlabs/formseed/internal/llm"
	"github.com/seedlabs/formseed/internal/logger"
	"github.com/seedlabs/formseed/internal/seed"
)

// prompt asks for a bundle matching the seed.Bundle schema. The model is
// told to emit parseable JSON; markdown fences are tolerated downstream.
const prompt = `Generate realistic data for seeding a survey platform. Output as valid JSON with two keys:
- "surveys": An array of 5 unique surveys. Each survey has:
  - "name": A string title.
  - "questions": An array of 3-5 questions. Each question is an object with "type" (e.g., "multipleChoiceSingle", "openText"), "headline" (string), and for multipleChoice, "choices" (array of strings).
  - "responses": An array of at least 1 realistic response. Each response is an object with "data" (object mapping question IDs to answers, e.g., {"q1": "Answer"}).
- "users": An array of 10 unique users. Each user has:
  - "name": String.
  - "email": Unique string.
  - "role": Either "Manager" or "Owner".
Make it look like an actively used system: varied, realistic content (e.g., customer feedback, product surveys).
Ensure the JSON is parseable. Output only the JSON.`

// Completer is the LLM surface the generator needs. *llm.Adapter
// satisfies it; tests substitute fakes.
type Completer interface {
	CompleteStructured(ctx context.Context, req llm.CompletionRequest, out any) error
}

// Generator produces seed bundles from an LLM.
type Generator struct {
	llm Completer
	log *logger.Logger
}

// New creates a generator backed by the given completer.
func New(completer Completer, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.NewDefault("formseed")
	}
	return &Generator{llm: completer, log: log.WithComponent("generator")}
}

// Generate requests a bundle from the model and validates it before
// returning. An unparseable or structurally invalid bundle is an error;
// there is no repair loop.
func (g *Generator) Generate(ctx context.Context) (*seed.Bundle, error) {
	g.log.Info("requesting synthetic data from model")

	var bundle seed.Bundle
	err := g.llm.CompleteStructured(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	}, &bundle)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("generator: model returned invalid bundle: %w", err)
	}

	users, surveys, responses := bundle.Counts()
	g.log.Info("generated bundle", logger.Fields(
		"users", users,
		"surveys", surveys,
		"responses", responses,
	))
	return &bundle, nil
}

// GenerateToFile generates a bundle and writes it to path as indented JSON.
func (g *Generator) GenerateToFile(ctx context.Context, path string) error {
	bundle, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	if err := seed.Save(path, bundle); err != nil {
		return err
	}
	g.log.Info("bundle saved", logger.Fields(logger.FieldPath, path))
	return nil
}
