/*
errors.go - Centralized error taxonomy for the leave engine

PURPOSE:
  All error kinds in one place. Callers receive errors as values and map
  them to user-facing messages with the Is* helpers; nothing is thrown
  across the ledger/workflow boundary.

ERROR CATEGORIES:
  1. Validation  - rejected before any write (missing fields, bad vocab,
     missing original-id, unresolvable overtime source)
  2. Authorization - actor is not allowed (non-approver deciding a line,
     non-admin editing a profile)
  3. Conflict    - line already decided, losing side of a decision race
  4. Persistence - underlying store failure; original cause wrapped

USAGE:
  if errors.Is(err, leave.ErrAlreadyDecided) {
      // benign: someone else decided first, refresh the view
  }
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all pre-write input rejections.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization is returned when the acting principal may not
	// perform the operation. No partial write occurs.
	ErrAuthorization = errors.New("not authorized")

	// ErrAlreadyDecided is returned when a decision targets a line that is
	// no longer pending. The losing side of a race sees this; it is a
	// benign conflict, not a failure.
	ErrAlreadyDecided = errors.New("approval line already decided")

	// ErrStepNotReady is returned when a decision targets a line whose
	// earlier steps have not all been approved yet.
	ErrStepNotReady = errors.New("earlier approval steps still pending")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrPersistence wraps store-level failures. Not retried automatically.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field and the reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AuthorizationError names the actor and the denied action.
type AuthorizationError struct {
	Actor  UserID
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not authorized to %s", e.Actor, e.Action)
}

func (e *AuthorizationError) Unwrap() error { return ErrAuthorization }

// ConflictError reports a decision race on an approval line.
type ConflictError struct {
	LineID LineID
	Status LineStatus // status observed after losing the race, if known
}

func (e *ConflictError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("approval line %s already decided (%s)", e.LineID, e.Status)
	}
	return fmt.Sprintf("approval line %s already decided", e.LineID)
}

func (e *ConflictError) Unwrap() error { return ErrAlreadyDecided }

// PersistenceError wraps the underlying store failure for logging while
// presenting a generic failure to callers.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is caused by invalid input or a
// benign conflict, i.e. the caller should fix the request, not retry it.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAlreadyDecided) ||
		errors.Is(err, ErrStepNotReady)
}

// IsConflict reports whether the error is the losing side of a decision
// race. Callers should refresh their view rather than resubmit.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyDecided) || errors.Is(err, ErrStepNotReady)
}

func IsAuthorization(err error) bool { return errors.Is(err, ErrAuthorization) }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
