package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrDiagnosisNotFound = errors.New("diagnosis not found")

	// Storage errors are joined with the backend error
	ErrStorageFailure = errors.New("storage failure")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// Context keys for error values
const (
	DiagnosisIDKey = "diagnosis_id"
	OwnerIDKey     = "owner_id"
)
