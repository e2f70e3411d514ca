package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// DefaultMethod is the payment method recorded when the caller names none.
const DefaultMethod = "Paytm"

// PaymentStatus is the settlement state of a payment record.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "Pending"
	StatusCompleted PaymentStatus = "Completed"
	StatusFailed    PaymentStatus = "Failed"
	StatusCancelled PaymentStatus = "Cancelled"
)

// IsValid returns true if the payment status is recognized.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Payment records money received (or not) for a booking.
type Payment struct {
	id            int64
	bookingID     int64
	amount        float64
	method        string
	status        PaymentStatus
	transactionID string
	cardType      string
	failureReason string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPayment creates a payment record. Empty method and status take their defaults.
func NewPayment(bookingID int64, amount float64, method string, status PaymentStatus) (*Payment, error) {
	if bookingID <= 0 {
		return nil, apperror.NewValidationError("booking_id is required")
	}
	if amount < 0 {
		return nil, apperror.NewValidationError("amount must not be negative")
	}
	if method == "" {
		method = DefaultMethod
	}
	if status == "" {
		status = StatusPending
	}
	if !status.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("invalid payment status: %s", status))
	}

	now := time.Now().UTC()
	return &Payment{
		bookingID: bookingID,
		amount:    amount,
		method:    method,
		status:    status,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Payment from persistence.
func Reconstruct(
	id, bookingID int64,
	amount float64,
	method string,
	status PaymentStatus,
	transactionID, cardType, failureReason string,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		amount:        amount,
		method:        method,
		status:        status,
		transactionID: transactionID,
		cardType:      cardType,
		failureReason: failureReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Getters.
func (p *Payment) ID() int64              { return p.id }
func (p *Payment) BookingID() int64       { return p.bookingID }
func (p *Payment) Amount() float64        { return p.amount }
func (p *Payment) Method() string         { return p.method }
func (p *Payment) Status() PaymentStatus  { return p.status }
func (p *Payment) TransactionID() string  { return p.transactionID }
func (p *Payment) CardType() string       { return p.cardType }
func (p *Payment) FailureReason() string  { return p.failureReason }
func (p *Payment) CreatedAt() time.Time   { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time   { return p.updatedAt }

// Complete marks the payment settled. A zero amount keeps the recorded one.
func (p *Payment) Complete(amount float64, transactionID, cardType string) {
	if amount > 0 {
		p.amount = amount
	}
	p.status = StatusCompleted
	p.transactionID = transactionID
	p.cardType = cardType
	p.failureReason = ""
	p.updatedAt = time.Now().UTC()
}

// Fail marks the payment failed with the gateway's reason.
func (p *Payment) Fail(reason string) {
	p.status = StatusFailed
	p.failureReason = reason
	p.updatedAt = time.Now().UTC()
}

// Cancel marks the payment abandoned by the guest.
func (p *Payment) Cancel() {
	p.status = StatusCancelled
	p.updatedAt = time.Now().UTC()
}

// ParseTransactionID extracts the booking id from a transaction reference of the
// form "BK_<booking_id>_<unix>".
func ParseTransactionID(tranID string) (int64, error) {
	parts := strings.Split(tranID, "_")
	if len(parts) < 2 || parts[0] != "BK" {
		return 0, apperror.NewValidationError(fmt.Sprintf("invalid transaction id: %q", tranID))
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("invalid transaction id: %q", tranID))
	}
	return id, nil
}

// TransactionID builds the reference handed to the gateway for a booking.
func TransactionID(bookingID int64, at time.Time) string {
	return fmt.Sprintf("BK_%d_%d", bookingID, at.Unix())
}
