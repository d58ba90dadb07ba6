// Package common defines shared constants and sentinel errors used across
// client and server layers of eliteglam. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth gateway taxonomy.
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("conflict")
	ErrMalformedToken      = errors.New("malformed token")
	ErrAuthGateway         = errors.New("auth gateway error")
	ErrPartialRegistration = errors.New("partial registration")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Booking lifecycle errors.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid status")
)

// ValidationError lists every rule an input violated. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Violations []string
}

// NewValidationError builds a ValidationError from the given violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PartialRegistrationError reports that an identity was created but its
// profile could not be written. Compensated tells whether the identity was
// removed again afterwards.
type PartialRegistrationError struct {
	UID         string
	Compensated bool
	Cause       error
}

func (e *PartialRegistrationError) Error() string {
	state := "identity left without profile"
	if e.Compensated {
		state = "identity rolled back"
	}
	return fmt.Sprintf("%s (uid=%s, %s): %v", ErrPartialRegistration, e.UID, state, e.Cause)
}

func (e *PartialRegistrationError) Is(target error) bool {
	return target == ErrPartialRegistration
}

func (e *PartialRegistrationError) Unwrap() error {
	return e.Cause
}

// NotFoundError names the missing resource. It matches ErrorNotFound with
// errors.Is.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrorNotFound
}
