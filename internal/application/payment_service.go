package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/hotel-booking/service-booking/internal/domain/booking"
	paymentDomain "github.com/hotel-booking/service-booking/internal/domain/payment"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

const defaultFailureReason = "Unknown error"

// BookingStatusUpdater is the part of the booking service the payment flow drives.
type BookingStatusUpdater interface {
	UpdateBookingStatus(ctx context.Context, bookingID int64, status bookingDomain.BookingStatus) (*BookingDTO, error)
}

// CreatePaymentRequest records a payment manually.
type CreatePaymentRequest struct {
	BookingID     int64   `json:"booking_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
}

// PaymentSuccessRequest is the gateway's success callback.
type PaymentSuccessRequest struct {
	TranID   string  `json:"tran_id" form:"tran_id" binding:"required"`
	ValID    string  `json:"val_id" form:"val_id"`
	Amount   float64 `json:"amount" form:"amount"`
	CardType string  `json:"card_type" form:"card_type"`
}

// PaymentFailureRequest is the gateway's failure callback.
type PaymentFailureRequest struct {
	TranID string `json:"tran_id" form:"tran_id" binding:"required"`
	Reason string `json:"reason" form:"reason"`
}

// PaymentCancelRequest is the gateway's cancellation callback.
type PaymentCancelRequest struct {
	TranID string `json:"tran_id" form:"tran_id" binding:"required"`
}

// PaymentDTO is the response representation of a payment.
type PaymentDTO struct {
	PaymentID     int64     `json:"payment_id"`
	BookingID     int64     `json:"booking_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CardType      string    `json:"card_type,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SettlementDTO reports the booking and payment state after a settlement.
type SettlementDTO struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Booking *BookingDTO `json:"booking"`
	Payment PaymentDTO  `json:"payment"`
}

// PaymentService records payments and settles bookings from gateway outcomes.
type PaymentService struct {
	repo     paymentDomain.PaymentRepository
	bookings BookingStatusUpdater
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo paymentDomain.PaymentRepository, bookings BookingStatusUpdater, logger *zap.Logger) *PaymentService {
	return &PaymentService{repo: repo, bookings: bookings, logger: logger}
}

// CreatePayment records a payment without touching the booking.
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentDTO, error) {
	p, err := paymentDomain.NewPayment(req.BookingID, req.Amount, req.PaymentMethod, paymentDomain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		return nil, err
	}
	dto := toPaymentDTO(saved)
	return &dto, nil
}

// GetPayment returns a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID int64) (*PaymentDTO, error) {
	p, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	dto := toPaymentDTO(p)
	return &dto, nil
}

// ListPayments returns payments newest first.
func (s *PaymentService) ListPayments(ctx context.Context, page, limit int) (*apperror.PaginatedResult[PaymentDTO], error) {
	payments, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	result := apperror.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// HandlePaymentSuccess confirms the booking named by the transaction id.
func (s *PaymentService) HandlePaymentSuccess(ctx context.Context, req PaymentSuccessRequest) (*SettlementDTO, error) {
	bookingID, err := paymentDomain.ParseTransactionID(req.TranID)
	if err != nil {
		return nil, err
	}
	return s.Settle(ctx, bookingID, paymentDomain.OutcomeCompleted, paymentDomain.SettlementEvent{
		BookingID:     bookingID,
		TransactionID: req.ValID,
		Amount:        req.Amount,
		CardType:      req.CardType,
	})
}

// HandlePaymentFailure cancels the booking named by the transaction id.
func (s *PaymentService) HandlePaymentFailure(ctx context.Context, req PaymentFailureRequest) (*SettlementDTO, error) {
	bookingID, err := paymentDomain.ParseTransactionID(req.TranID)
	if err != nil {
		return nil, err
	}
	return s.Settle(ctx, bookingID, paymentDomain.OutcomeFailed, paymentDomain.SettlementEvent{
		BookingID: bookingID,
		Reason:    req.Reason,
	})
}

// HandlePaymentCancel cancels the booking named by the transaction id.
func (s *PaymentService) HandlePaymentCancel(ctx context.Context, req PaymentCancelRequest) (*SettlementDTO, error) {
	bookingID, err := paymentDomain.ParseTransactionID(req.TranID)
	if err != nil {
		return nil, err
	}
	return s.Settle(ctx, bookingID, paymentDomain.OutcomeCancelled, paymentDomain.SettlementEvent{BookingID: bookingID})
}

// Settle applies a gateway outcome: the booking status moves first through the booking
// store, then the booking's latest payment record is updated or created.
func (s *PaymentService) Settle(ctx context.Context, bookingID int64, outcome paymentDomain.Outcome, evt paymentDomain.SettlementEvent) (*SettlementDTO, error) {
	target := bookingDomain.StatusCancelled
	if outcome == paymentDomain.OutcomeCompleted {
		target = bookingDomain.StatusConfirmed
	}

	bk, err := s.bookings.UpdateBookingStatus(ctx, bookingID, target)
	if err != nil {
		s.logger.Warn("payment settlement rejected by booking",
			zap.Int64("booking_id", bookingID),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
		return nil, err
	}

	p, err := s.upsertPayment(ctx, bookingID, outcome, evt)
	if err != nil {
		return nil, err
	}

	result := &SettlementDTO{Booking: bk, Payment: toPaymentDTO(p)}
	switch outcome {
	case paymentDomain.OutcomeCompleted:
		result.Status = "success"
		result.Message = "Payment successful and booking confirmed"
	case paymentDomain.OutcomeFailed:
		result.Status = "failed"
		result.Message = "Payment failed: " + p.FailureReason()
	default:
		result.Status = "cancelled"
		result.Message = "Payment cancelled by user"
	}

	s.logger.Info("payment settled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("payment_id", p.ID()),
		zap.String("outcome", string(outcome)),
	)
	return result, nil
}

func (s *PaymentService) upsertPayment(ctx context.Context, bookingID int64, outcome paymentDomain.Outcome, evt paymentDomain.SettlementEvent) (*paymentDomain.Payment, error) {
	p, err := s.repo.FindByBookingID(ctx, bookingID)
	isNew := apperror.Is(err, apperror.KindNotFound)
	if err != nil && !isNew {
		return nil, err
	}
	if isNew {
		if p, err = paymentDomain.NewPayment(bookingID, 0, "", paymentDomain.StatusPending); err != nil {
			return nil, err
		}
	}

	switch outcome {
	case paymentDomain.OutcomeCompleted:
		p.Complete(evt.Amount, evt.TransactionID, evt.CardType)
	case paymentDomain.OutcomeFailed:
		reason := evt.Reason
		if reason == "" {
			reason = defaultFailureReason
		}
		p.Fail(reason)
	default:
		p.Cancel()
	}

	if isNew {
		return s.repo.Save(ctx, p)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func toPaymentDTO(p *paymentDomain.Payment) PaymentDTO {
	return PaymentDTO{
		PaymentID:     p.ID(),
		BookingID:     p.BookingID(),
		Amount:        p.Amount(),
		PaymentMethod: p.Method(),
		PaymentStatus: string(p.Status()),
		TransactionID: p.TransactionID(),
		CardType:      p.CardType(),
		FailureReason: p.FailureReason(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}
