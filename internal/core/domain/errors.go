package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUserNotFound is returned when no user exists for the given id.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a create/update would violate email uniqueness.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately without revealing which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound is returned when a token's session has been
	// revoked or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden is returned when an authenticated caller lacks the
	// required role.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError aggregates field-level validation messages. All violated
// fields are collected before the error is returned, never just the first.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// HasErrors reports whether any field message was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
