package booking

import "time"

// TopicBookingEvents is the Kafka topic booking lifecycle events are published on.
const TopicBookingEvents = "booking.events"

// CloudEvent types published on TopicBookingEvents.
const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
	EventBookingDeleted   = "booking.deleted"
)

// BookingEvent is the payload of every booking lifecycle event.
type BookingEvent struct {
	BookingID     int64     `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	RoomID        int64     `json:"room_id"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	BookingStatus string    `json:"booking_status"`
	ArrivalStatus string    `json:"arrival_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewBookingEvent snapshots b for publishing.
func NewBookingEvent(b *Booking) BookingEvent {
	return BookingEvent{
		BookingID:     b.ID(),
		UserID:        b.UserID(),
		RoomID:        b.RoomID(),
		CheckIn:       b.CheckIn().Format(DateLayout),
		CheckOut:      b.CheckOut().Format(DateLayout),
		BookingStatus: string(b.Status()),
		ArrivalStatus: string(b.ArrivalStatus()),
		OccurredAt:    time.Now().UTC(),
	}
}
