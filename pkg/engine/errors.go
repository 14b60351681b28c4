package engine

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels for errors.Is matching. Every typed error below unwraps to one of these.
var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidHabitData = errors.New("invalid habit data")
	ErrInvalidRange     = errors.New("invalid range")
	ErrNotFound         = errors.New("not found")
	ErrComputation      = errors.New("computation error")
)

type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid date %q", e.Input)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// InvalidHabitDataError names the offending input field.
type InvalidHabitDataError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidHabitDataError) Error() string {
	return fmt.Sprintf("invalid habit data: %s=%v (%s)", e.Field, e.Value, e.Reason)
}

func (e *InvalidHabitDataError) Unwrap() error { return ErrInvalidHabitData }

type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s is before start %s",
		e.End.Format(DateLayout), e.Start.Format(DateLayout))
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// NotFoundError reports an unknown challenge or badge id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ComputationError signals a broken internal invariant, i.e. a bug.
type ComputationError struct {
	Op     string
	Detail string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", e.Op, e.Detail)
}

func (e *ComputationError) Unwrap() error { return ErrComputation }
