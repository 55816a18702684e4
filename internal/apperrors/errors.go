// Package apperrors defines the error taxonomy shared by all services.
// Callers distinguish outcomes with errors.As against the typed errors or
// errors.Is against the exported sentinels.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNoDocument signals that a generative reply carried no extractable
// document. It is not fatal: the caller degrades to a conversational reply.
var ErrNoDocument = errors.New("no extractable document in reply")

// ValidationError reports a malformed or missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NotFoundError reports an unresolved invitation, slug or record.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// ForbiddenError reports an actor acting on an invitation it does not own.
type ForbiddenError struct {
	Entity string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to modify %s", e.Entity)
}

// ConflictError reports a uniqueness collision, e.g. a slug already in use.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}

// QuotaExceededError reports a denied edit attempt. Offer carries the
// purchase/top-up signal the caller must present instead of failing silently.
type QuotaExceededError struct {
	Limit int
	Used  int
	Offer string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("edit quota exhausted (%d/%d): %s", e.Used, e.Limit, e.Offer)
}

// ExternalServiceError reports a failed or timed-out call to the generative
// service or the persistence layer.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsQuotaExceeded reports whether err is (or wraps) a QuotaExceededError.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}
