// Package seed defines the generated data bundle: the users, surveys,
// and responses that get submitted to a target instance. Bundles are
// produced by the generator and consumed by the seeder, with a JSON
// file on disk as the handoff between the two.
package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seedlabs/formseed/internal/errors"
	"github.com/seedlabs/formseed/internal/validation"
)

// User is an account to create via the management API.
type User struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=Manager Owner"`
}

// Question is a single survey question. Choices is only set for
// multiple-choice question types.
type Question struct {
	Type     string   `json:"type" validate:"required"`
	Headline string   `json:"headline" validate:"required"`
	Choices  []string `json:"choices,omitempty"`
}

// Response is one submission against a survey. Data maps question
// identifiers to answers; answer values are free-form.
type Response struct {
	Data map[string]any `json:"data" validate:"required,min=1"`
}

// Survey is a survey definition plus the responses to submit once the
// survey exists on the target.
type Survey struct {
	Name      string     `json:"name" validate:"required"`
	Questions []Question `json:"questions" validate:"required,min=1,dive"`
	Responses []Response `json:"responses" validate:"dive"`
}

// Bundle is the complete generated data set.
type Bundle struct {
	Surveys []Survey `json:"surveys" validate:"required,min=1,dive"`
	Users   []User   `json:"users" validate:"required,min=1,dive"`
}

// Validate checks structural constraints and user email uniqueness.
func (b *Bundle) Validate() error {
	if err := validation.Validate(b); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(b.Users))
	for _, u := range b.Users {
		if _, dup := seen[u.Email]; dup {
			return errors.InvalidInput(fmt.Sprintf("duplicate user email %q", u.Email))
		}
		seen[u.Email] = struct{}{}
	}
	return nil
}

// Counts returns the number of users, surveys, and responses in the bundle.
func (b *Bundle) Counts() (users, surveys, responses int) {
	users = len(b.Users)
	surveys = len(b.Surveys)
	for _, s := range b.Surveys {
		responses += len(s.Responses)
	}
	return users, surveys, responses
}

// Load reads and validates a bundle from a JSON file. A missing file
// returns a BUNDLE_NOT_FOUND AppError so the CLI can tell the user to
// run generate first.
func Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.BundleNotFound(path)
		}
		return nil, fmt.Errorf("seed: read bundle %s: %w", path, err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errors.InvalidFormat("bundle", err.Error()).WithCause(err).WithDetail("path", path)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes a bundle to a JSON file with indentation, creating or
// truncating the file.
func Save(path string, b *Bundle) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("seed: encode bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("seed: write bundle %s: %w", path, err)
	}
	return nil
}
