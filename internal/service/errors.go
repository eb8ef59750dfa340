package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrResultNotFound indicates that a referenced stored result does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrResultNotFound = errors.New("result not found")

	// ErrOwnerRequired indicates a listing was requested without an owner.
	ErrOwnerRequired = errors.New("owner ID is required")

	// ErrCompanyNotFound indicates that a referenced company does not exist.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrEmployeeNotFound indicates that an employee is not in the company.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// ServiceError wraps unexpected errors from a service with context.
type ServiceError struct {
	// Service is the service that failed (e.g., "results", "comparison")
	Service string
	// Operation is the operation that failed (e.g., "save_result")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// It returns known sentinel errors directly without wrapping.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrResultNotFound) || errors.Is(err, store.ErrResultNotFound) {
		return ErrResultNotFound
	}
	if errors.Is(err, ErrCompanyNotFound) || errors.Is(err, store.ErrCompanyNotFound) {
		return ErrCompanyNotFound
	}
	if errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, store.ErrEmployeeNotFound) {
		return ErrEmployeeNotFound
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func dependencyError(service, name string) error {
	return &ServiceError{
		Service:   service,
		Operation: "create_service",
		Message:   name + " cannot be nil",
	}
}

// isInputError reports whether err is the caller's fault and should be
// returned unwrapped.
func isInputError(err error) bool {
	return domain.IsValidationError(err) ||
		errors.Is(err, domain.ErrUnsupportedSystem) ||
		errors.Is(err, domain.ErrTypeMismatch) ||
		errors.Is(err, domain.ErrInsufficientResults)
}
