package booking

import (
	"fmt"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCancelled BookingStatus = "Cancelled"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// IsActive reports whether a booking in this status takes part in the overlap invariant.
func (s BookingStatus) IsActive() bool {
	return s != StatusCancelled
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", apperror.NewValidationError(fmt.Sprintf("invalid booking status: %s", s))
	}
	return status, nil
}

// ArrivalStatus records whether the guest has checked in.
type ArrivalStatus string

const (
	ArrivalNotArrived ArrivalStatus = "Not Arrived"
	ArrivalArrived    ArrivalStatus = "Arrived"
)

// IsValid returns true if the arrival status is recognized.
func (a ArrivalStatus) IsValid() bool {
	return a == ArrivalNotArrived || a == ArrivalArrived
}

func (a ArrivalStatus) String() string {
	return string(a)
}

// ParseArrivalStatus converts a string to an ArrivalStatus.
func ParseArrivalStatus(s string) (ArrivalStatus, error) {
	a := ArrivalStatus(s)
	if !a.IsValid() {
		return "", apperror.NewValidationError(fmt.Sprintf("invalid arrival status: %s", s))
	}
	return a, nil
}

// checkTransition validates moving from current to target. Repeating the current status is a no-op.
func checkTransition(current, target BookingStatus) error {
	if current == target {
		return nil
	}
	if !current.CanTransitionTo(target) {
		return apperror.NewInvalidTransitionError(string(current), string(target))
	}
	return nil
}
