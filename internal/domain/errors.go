package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError marks malformed input, e.g. an empty cancellation reason.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports an overlapping booking. AppointmentNumber identifies
// the first colliding appointment; it is empty for slot-capacity conflicts.
type ConflictError struct {
	AppointmentNumber string
	Message           string
}

func (e *ConflictError) Error() string {
	if e.AppointmentNumber != "" {
		return fmt.Sprintf("scheduling conflict with appointment %s", e.AppointmentNumber)
	}
	return e.Message
}

// InvalidTransitionError reports an illegal status change, e.g. confirming an
// already-cancelled appointment.
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// DependencyError wraps a failure in a collaborator (customer, device or
// ticket creation) that happened mid-operation.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
