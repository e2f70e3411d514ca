package booking

import (
	"fmt"
	"time"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// Booking is the aggregate root for a room reservation.
type Booking struct {
	id            int64
	userID        int64
	roomID        int64
	dates         DateRange
	status        BookingStatus
	arrivalStatus ArrivalStatus
	createdAt     time.Time
	updatedAt     time.Time
}

// NewBooking creates an unsaved booking. The id is assigned by the store on insert.
// An empty status defaults to Pending and an empty arrival status to Not Arrived.
func NewBooking(
	userID, roomID int64,
	dates DateRange,
	status BookingStatus,
	arrivalStatus ArrivalStatus,
) (*Booking, error) {
	if userID <= 0 {
		return nil, apperror.NewValidationError("user_id is required")
	}
	if roomID <= 0 {
		return nil, apperror.NewValidationError("room_id is required")
	}
	dates, err := NewDateRange(dates.CheckIn, dates.CheckOut)
	if err != nil {
		return nil, err
	}

	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("invalid booking status: %s", status))
	}
	if status == StatusCancelled {
		return nil, apperror.NewValidationError("a booking cannot be created as Cancelled")
	}

	if arrivalStatus == "" {
		arrivalStatus = ArrivalNotArrived
	}
	if !arrivalStatus.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("invalid arrival status: %s", arrivalStatus))
	}

	now := time.Now().UTC()
	return &Booking{
		userID:        userID,
		roomID:        roomID,
		dates:         dates,
		status:        status,
		arrivalStatus: arrivalStatus,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, userID, roomID int64,
	dates DateRange,
	status BookingStatus,
	arrivalStatus ArrivalStatus,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		userID:        userID,
		roomID:        roomID,
		dates:         dates,
		status:        status,
		arrivalStatus: arrivalStatus,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the store-assigned booking id, or 0 before the first insert.
func (b *Booking) ID() int64 { return b.id }

// UserID returns the guest's user id.
func (b *Booking) UserID() int64 { return b.userID }

// RoomID returns the booked room.
func (b *Booking) RoomID() int64 { return b.roomID }

// Dates returns the stay as a half-open range.
func (b *Booking) Dates() DateRange { return b.dates }

// CheckIn returns the first night of the stay.
func (b *Booking) CheckIn() time.Time { return b.dates.CheckIn }

// CheckOut returns the departure date.
func (b *Booking) CheckOut() time.Time { return b.dates.CheckOut }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// ArrivalStatus returns whether the guest has arrived.
func (b *Booking) ArrivalStatus() ArrivalStatus { return b.arrivalStatus }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsActive reports whether the booking holds its room for its dates.
func (b *Booking) IsActive() bool { return b.status.IsActive() }

// --- Behavior ---

// Apply merges p over the booking and validates the lifecycle change in one step.
func (b *Booking) Apply(p Patch) (*Booking, error) {
	next, err := b.Merge(p)
	if err != nil {
		return nil, err
	}
	if err := b.ValidateTransition(next); err != nil {
		return nil, err
	}
	return next, nil
}

// Merge overlays the non-nil fields of p and returns the effective record. The
// receiver is left untouched. Only field-level validation happens here; the
// lifecycle is checked by ValidateTransition.
func (b *Booking) Merge(p Patch) (*Booking, error) {
	next := *b

	if p.UserID != nil {
		if *p.UserID <= 0 {
			return nil, apperror.NewValidationError("user_id must be positive")
		}
		next.userID = *p.UserID
	}
	if p.RoomID != nil {
		if *p.RoomID <= 0 {
			return nil, apperror.NewValidationError("room_id must be positive")
		}
		next.roomID = *p.RoomID
	}
	if p.CheckIn != nil {
		next.dates.CheckIn = DateOf(*p.CheckIn)
	}
	if p.CheckOut != nil {
		next.dates.CheckOut = DateOf(*p.CheckOut)
	}
	if p.CheckIn != nil || p.CheckOut != nil {
		if err := next.dates.Validate(); err != nil {
			return nil, err
		}
	}
	if p.BookingStatus != nil {
		if !p.BookingStatus.IsValid() {
			return nil, apperror.NewValidationError(fmt.Sprintf("invalid booking status: %s", *p.BookingStatus))
		}
		next.status = *p.BookingStatus
	}
	if p.ArrivalStatus != nil {
		if !p.ArrivalStatus.IsValid() {
			return nil, apperror.NewValidationError(fmt.Sprintf("invalid arrival status: %s", *p.ArrivalStatus))
		}
		next.arrivalStatus = *p.ArrivalStatus
	}

	next.updatedAt = time.Now().UTC()
	return &next, nil
}

// ValidateTransition checks that moving from b to next is allowed by the booking lifecycle.
// Arrival status toggles independently of it.
func (b *Booking) ValidateTransition(next *Booking) error {
	return checkTransition(b.status, next.status)
}

// Change is a stored booking as it was before a write and as the write left it.
type Change struct {
	Before *Booking
	After  *Booking
}

// StatusChanged reports whether the write moved the booking to another status.
func (c Change) StatusChanged() bool {
	return c.Before.status != c.After.status
}

// Changed reports whether any persisted field other than timestamps differs.
func (c Change) Changed() bool {
	b, a := c.Before, c.After
	return c.StatusChanged() ||
		b.userID != a.userID ||
		b.roomID != a.roomID ||
		!b.dates.Equal(a.dates) ||
		b.arrivalStatus != a.arrivalStatus
}

// NeedsConflictCheck reports whether moving from b to next can break the no-overlap
// invariant: next must be active and occupy a different room or range.
func (b *Booking) NeedsConflictCheck(next *Booking) bool {
	if !next.IsActive() {
		return false
	}
	return b.roomID != next.roomID || !b.dates.Equal(next.dates)
}
