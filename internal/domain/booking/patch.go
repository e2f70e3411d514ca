package booking

import "time"

// Patch is a partial update. Nil fields keep the stored value.
type Patch struct {
	UserID        *int64
	RoomID        *int64
	CheckIn       *time.Time
	CheckOut      *time.Time
	BookingStatus *BookingStatus
	ArrivalStatus *ArrivalStatus
}

// CancelPatch is the patch applied by Cancel.
func CancelPatch() Patch {
	s := StatusCancelled
	return Patch{BookingStatus: &s}
}

// StatusPatch sets only the booking status.
func StatusPatch(status BookingStatus) Patch {
	return Patch{BookingStatus: &status}
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.UserID == nil && p.RoomID == nil && p.CheckIn == nil && p.CheckOut == nil &&
		p.BookingStatus == nil && p.ArrivalStatus == nil
}

// TargetRoom returns the room the booking ends up in when p is applied to a booking in current.
func (p Patch) TargetRoom(current int64) int64 {
	if p.RoomID != nil {
		return *p.RoomID
	}
	return current
}
