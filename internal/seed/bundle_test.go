package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seedlabs/formseed/internal/errors"
)

func validBundle() *Bundle {
	return &Bundle{
		Users: []User{
			{Name: "Ada", Email: "ada@example.com", Role: "Owner"},
			{Name: "Grace", Email: "grace@example.com", Role: "Manager"},
		},
		Surveys: []Survey{{
			Name:      "Product Feedback",
			Questions: []Question{{Type: "openText", Headline: "Thoughts?"}},
			Responses: []Response{{Data: map[string]any{"q1": "Great"}}},
		}},
	}
}

func TestBundle_Validate(t *testing.T) {
	if err := validBundle().Validate(); err != nil {
		t.Fatalf("Validate() error for valid bundle: %v", err)
	}
}

func TestBundle_Validate_InvalidRole(t *testing.T) {
	b := validBundle()
	b.Users[0].Role = "Admin"
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for role outside Manager/Owner")
	}
}

func TestBundle_Validate_InvalidEmail(t *testing.T) {
	b := validBundle()
	b.Users[0].Email = "not-an-email"
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for malformed email")
	}
}

func TestBundle_Validate_DuplicateEmail(t *testing.T) {
	b := validBundle()
	b.Users[1].Email = b.Users[0].Email
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for duplicate email")
	}
}

func TestBundle_Validate_EmptySurveyQuestions(t *testing.T) {
	b := validBundle()
	b.Surveys[0].Questions = nil
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for survey without questions")
	}
}

func TestBundle_Counts(t *testing.T) {
	users, surveys, responses := validBundle().Counts()
	if users != 2 || surveys != 1 || responses != 1 {
		t.Errorf("Counts() = %d, %d, %d; want 2, 1, 1", users, surveys, responses)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.HasCode(err, errors.ErrCodeBundleNotFound) {
		t.Errorf("error code = %v, want BUNDLE_NOT_FOUND", errors.CodeOf(err))
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want INVALID_FORMAT", errors.CodeOf(err))
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := Save(path, validBundle()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(b.Users) != 2 || len(b.Surveys) != 1 {
		t.Errorf("loaded bundle has %d users, %d surveys; want 2, 1", len(b.Users), len(b.Surveys))
	}
	if b.Surveys[0].Responses[0].Data["q1"] != "Great" {
		t.Errorf("response data = %v, want q1=Great", b.Surveys[0].Responses[0].Data)
	}
}
