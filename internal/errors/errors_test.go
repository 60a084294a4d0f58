package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := ServiceUnavailable("target", 10)
	if !strings.Contains(err.Error(), "SERVICE_UNAVAILABLE") {
		t.Errorf("Error() = %q, want code in message", err.Error())
	}
	if !strings.Contains(err.Error(), "10") {
		t.Errorf("Error() = %q, want attempt count in message", err.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ItemCreationFailed("user", "ada@example.com", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(ItemCreationFailed("user", "a@b.com", fmt.Errorf("409"))) {
		t.Error("ItemCreationFailed should be recoverable")
	}
	if IsRecoverable(ServiceUnavailable("target", 10)) {
		t.Error("ServiceUnavailable should not be recoverable")
	}
	if IsRecoverable(BundleNotFound("x.json")) {
		t.Error("BundleNotFound should not be recoverable")
	}
	if IsRecoverable(fmt.Errorf("plain")) {
		t.Error("plain errors should not be recoverable")
	}
}

func TestHasCode(t *testing.T) {
	err := BundleNotFound("generated_data.json")
	if !HasCode(err, ErrCodeBundleNotFound) {
		t.Error("expected BUNDLE_NOT_FOUND code")
	}
	if HasCode(err, ErrCodeServiceUnavailable) {
		t.Error("did not expect SERVICE_UNAVAILABLE code")
	}

	// Codes survive wrapping.
	wrapped := fmt.Errorf("run seed: %w", err)
	if !HasCode(wrapped, ErrCodeBundleNotFound) {
		t.Error("expected code through wrapping")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(DependencyMissing("docker", "install docker")); got != ErrCodeDependencyMissing {
		t.Errorf("CodeOf() = %v, want DEPENDENCY_MISSING", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %v, want empty", got)
	}
}

func TestWithDetail(t *testing.T) {
	err := InvalidFormat("bundle", "unexpected end of input").WithDetail("path", "x.json")
	if err.Details["path"] != "x.json" {
		t.Errorf("Details = %v, want path set", err.Details)
	}
}
