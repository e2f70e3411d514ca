package payment

import "context"

// PaymentRepository defines persistence operations for payment records.
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id int64) (*Payment, error)
	// FindByBookingID returns the most recent payment for a booking.
	FindByBookingID(ctx context.Context, bookingID int64) (*Payment, error)
	List(ctx context.Context, page, limit int) ([]*Payment, int64, error)
}
