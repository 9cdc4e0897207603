package domain

import (
	"errors"
	"fmt"
)

// StoreUnavailableError means the remote calendar could not be reached
// or answered with a failure. It is never conflated with "busy": the
// caller must be able to tell "no conflicting events" apart from
// "could not determine".
type StoreUnavailableError struct {
	Cause error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("calendar store unavailable: %v", e.Cause)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Cause
}

// SlotNoLongerAvailableError is returned when the pre-booking
// re-validation finds the requested window occupied.
type SlotNoLongerAvailableError struct {
	Window TimeWindow
}

func (e *SlotNoLongerAvailableError) Error() string {
	return fmt.Sprintf("slot %s is no longer available", e.Window)
}

// BookingFailedError means the store rejected or failed the insert
// after the window had been re-validated as free.
type BookingFailedError struct {
	Reason string
	Cause  error
}

func (e *BookingFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("booking failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("booking failed: %s", e.Reason)
}

func (e *BookingFailedError) Unwrap() error {
	return e.Cause
}

// UnparseableDateTimeError is returned for date or time input the
// dispatcher could not interpret. Such input is never defaulted to
// "now" or silently dropped.
type UnparseableDateTimeError struct {
	Input string
}

func (e *UnparseableDateTimeError) Error() string {
	return fmt.Sprintf("unparseable date or time %q", e.Input)
}

// MissingParameterError is returned when a required intent parameter
// is absent.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Name)
}

func IsStoreUnavailable(err error) bool {
	var target *StoreUnavailableError
	return errors.As(err, &target)
}

func IsSlotNoLongerAvailable(err error) bool {
	var target *SlotNoLongerAvailableError
	return errors.As(err, &target)
}
