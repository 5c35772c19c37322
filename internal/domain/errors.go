package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// SeatConflictError reports the exact seat labels that blocked a
// reservation so the caller can re-select.
type SeatConflictError struct {
	Seats []string
	Err   error
}

func (e SeatConflictError) Error() string {
	if len(e.Seats) == 0 {
		return "requested seats are no longer available"
	}
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

func (e SeatConflictError) Unwrap() error { return e.Err }

type PermissionError struct {
	Msg string
	Err error
}

func (e PermissionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "permission denied"
}

func (e PermissionError) Unwrap() error { return e.Err }

// CutoffError signals a cancellation attempted too close to departure.
type CutoffError struct {
	Msg string
	Err error
}

func (e CutoffError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "cancellation window has closed"
}

func (e CutoffError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsSeatConflict(err error) bool {
	var target SeatConflictError
	return errors.As(err, &target)
}

// AsSeatConflict extracts the conflicting seat labels when err carries them.
func AsSeatConflict(err error) (SeatConflictError, bool) {
	var target SeatConflictError
	ok := errors.As(err, &target)
	return target, ok
}

func IsPermission(err error) bool {
	var target PermissionError
	return errors.As(err, &target)
}

func IsCutoff(err error) bool {
	var target CutoffError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
