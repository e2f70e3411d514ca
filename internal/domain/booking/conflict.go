package booking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// ConflictError is returned when a write would overlap an active booking of the same room.
type ConflictError struct {
	RoomID    int64
	Requested DateRange
	Conflicts []*Booking
}

// NewConflictError builds a ConflictError for the given overlapping bookings.
func NewConflictError(roomID int64, requested DateRange, conflicts []*Booking) *ConflictError {
	return &ConflictError{RoomID: roomID, Requested: requested, Conflicts: conflicts}
}

func (e *ConflictError) Error() string {
	return "room already booked for these dates"
}

// Kind classifies the error for HTTP mapping.
func (e *ConflictError) Kind() apperror.Kind { return apperror.KindConflict }

// Details lists the conflicting bookings, e.g.
// "Conflicts with: Booking #7 (2024-05-01 to 2024-05-03)".
func (e *ConflictError) Details() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("Booking #%d (%s)", c.ID(), c.Dates()))
	}
	return "Conflicts with: " + strings.Join(parts, ", ")
}

// BookingIDs returns the ids of the conflicting bookings in ascending order.
func (e *ConflictError) BookingIDs() []int64 {
	ids := make([]int64, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.ID())
	}
	return ids
}

// DetectConflicts returns the bookings in existing that are active, are not excludeID
// and overlap candidate, ordered by ascending id. Pass excludeID 0 to exclude nothing.
func DetectConflicts(candidate DateRange, existing []*Booking, excludeID int64) []*Booking {
	var conflicts []*Booking
	for _, b := range existing {
		if !b.IsActive() {
			continue
		}
		if excludeID != 0 && b.ID() == excludeID {
			continue
		}
		if Overlaps(candidate, b.Dates()) {
			conflicts = append(conflicts, b)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].ID() < conflicts[j].ID() })
	return conflicts
}
