package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Details carries a machine-readable qualifier, e.g. the referencing table
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is works for errors built with NewDomainError as well as the sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by every bounded context
const (
	CodeNotFound              = "NOT_FOUND"
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeReferentialConstraint = "REFERENTIAL_CONSTRAINT"
	CodeInternal              = "INTERNAL_ERROR"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
)

// Common domain errors
var (
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput       = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid username or password")
	ErrUnauthorized       = NewDomainError(CodeUnauthorized, "Authentication required")
	ErrForbidden          = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInternal           = NewDomainError(CodeInternal, "An unexpected error occurred")
	// ErrServiceUnavailable reports a backing store that could not answer
	ErrServiceUnavailable = NewDomainError(CodeServiceUnavailable, "Service temporarily unavailable")
)

// NewValidationError reports missing or malformed input.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError reports an unmatched entity id.
func NewNotFoundError(entity string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", entity))
}

// NewReferentialConstraintError reports that dependent rows in table still
// reference the entity being removed.
func NewReferentialConstraintError(entity, table string) *DomainError {
	err := NewDomainError(CodeReferentialConstraint,
		fmt.Sprintf("Cannot delete %s because it is referenced in %s", entity, table))
	err.Details = table
	return err
}
