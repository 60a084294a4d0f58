package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (fatal for a seeding run)
const (
	// ErrCodeServiceUnavailable indicates the target service never became ready.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeDependencyMissing indicates a required tool or credential is absent.
	ErrCodeDependencyMissing ErrorCode = "DEPENDENCY_MISSING"
)

// Resource errors
const (
	// ErrCodeBundleNotFound indicates the seed bundle file does not exist.
	ErrCodeBundleNotFound ErrorCode = "BUNDLE_NOT_FOUND"
	// ErrCodeItemCreationFailed indicates a single create call was rejected.
	ErrCodeItemCreationFailed ErrorCode = "ITEM_CREATION_FAILED"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidFormat indicates data has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// External errors
const (
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var recoverableCodes = map[ErrorCode]bool{
	ErrCodeItemCreationFailed: true,
}

// IsRecoverableCode reports whether a run may continue past an error
// carrying the given code.
func IsRecoverableCode(code ErrorCode) bool {
	return recoverableCodes[code]
}
