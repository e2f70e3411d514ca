package booking

import "context"

// ListFilter narrows a booking listing. Zero values match everything.
type ListFilter struct {
	RoomID int64
	UserID int64
	Status BookingStatus
}

// BookingStore persists bookings and enforces the no-overlap invariant on every write.
// Each mutating call runs in its own transaction with the affected rooms locked.
type BookingStore interface {
	// Create inserts b after checking it against the room's active bookings.
	Create(ctx context.Context, b *Booking) (*Booking, error)

	// Update merges patch over the stored booking and writes the effective record.
	Update(ctx context.Context, id int64, patch Patch) (*Booking, error)

	// Modify is Update that also returns the booking as it was before the write.
	Modify(ctx context.Context, id int64, patch Patch) (Change, error)

	// Cancel moves the booking to Cancelled. It is never conflict-checked.
	Cancel(ctx context.Context, id int64) (*Booking, error)

	// Delete removes the booking row. No overlap check is made.
	Delete(ctx context.Context, id int64) (*Booking, error)

	// FindByID retrieves a booking by id.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindConflicts runs the conflict query outside a write transaction (availability lookups).
	FindConflicts(ctx context.Context, roomID int64, dates DateRange, excludeID int64) ([]*Booking, error)

	// List retrieves bookings matching filter with pagination, newest first.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
