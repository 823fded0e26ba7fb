// Package apperrors defines the error taxonomy shared by services and handlers.
// Validation and auth failures map to 4xx responses and are never retried;
// upstream failures on the price feed are absorbed by the portfolio aggregator.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or invalid field on user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NewValidation builds a ValidationError for a field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthError reports a missing, invalid, or expired credential.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func NewAuth(message string) *AuthError {
	return &AuthError{Message: message}
}

// NotFoundError reports a missing entity, or one owned by another user.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a stale optimistic-concurrency token on update.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Entity, e.ID)
}

func NewConflict(entity, id string) *ConflictError {
	return &ConflictError{Entity: entity, ID: id}
}

// UpstreamError wraps a failure from an external collaborator (price feed,
// persistence). The cause is kept for logging.
type UpstreamError struct {
	Upstream string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unreachable: %v", e.Upstream, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstream(upstream string, err error) *UpstreamError {
	return &UpstreamError{Upstream: upstream, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var a *AuthError
	return errors.As(err, &a)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}
