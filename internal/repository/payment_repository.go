package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	paymentDomain "github.com/hotel-booking/service-booking/internal/domain/payment"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// PaymentModel is the GORM model for the payments table.
type PaymentModel struct {
	PaymentID     int64     `gorm:"column:payment_id;primaryKey;autoIncrement"`
	BookingID     int64     `gorm:"not null;index"`
	Amount        float64   `gorm:"type:numeric(10,2);not null;default:0"`
	PaymentMethod string    `gorm:"type:varchar(30);not null;default:'Paytm'"`
	PaymentStatus string    `gorm:"type:varchar(20);not null;default:'Pending'"`
	TransactionID string    `gorm:"type:varchar(100)"`
	CardType      string    `gorm:"type:varchar(50)"`
	FailureReason string    `gorm:"type:varchar(500)"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (PaymentModel) TableName() string { return "payments" }

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save persists a new payment record.
func (r *GormPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) (*paymentDomain.Payment, error) {
	model := toPaymentModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, apperror.NewStorageError("save payment", err)
	}
	return toPaymentDomain(model), nil
}

// Update writes the settlement fields of an existing payment.
func (r *GormPaymentRepository) Update(ctx context.Context, p *paymentDomain.Payment) error {
	model := toPaymentModel(p)
	result := r.db.WithContext(ctx).
		Model(&PaymentModel{}).
		Where("payment_id = ?", model.PaymentID).
		Updates(map[string]interface{}{
			"amount":         model.Amount,
			"payment_method": model.PaymentMethod,
			"payment_status": model.PaymentStatus,
			"transaction_id": model.TransactionID,
			"card_type":      model.CardType,
			"failure_reason": model.FailureReason,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return apperror.NewStorageError("update payment", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Payment", strconv.FormatInt(model.PaymentID, 10))
	}
	return nil
}

// FindByID returns a single payment by ID.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id int64) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("payment_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Payment", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewStorageError("find payment by ID", err)
	}
	return toPaymentDomain(&model), nil
}

// FindByBookingID returns the most recent payment recorded for a booking.
func (r *GormPaymentRepository) FindByBookingID(ctx context.Context, bookingID int64) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("payment_id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Payment for booking", strconv.FormatInt(bookingID, 10))
		}
		return nil, apperror.NewStorageError("find payment by booking ID", err)
	}
	return toPaymentDomain(&model), nil
}

// List returns payments newest first.
func (r *GormPaymentRepository) List(ctx context.Context, page, limit int) ([]*paymentDomain.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PaymentModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.NewStorageError("count payments", err)
	}

	var models []PaymentModel
	if err := r.db.WithContext(ctx).
		Order("payment_id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, apperror.NewStorageError("list payments", err)
	}
	payments := make([]*paymentDomain.Payment, len(models))
	for i := range models {
		payments[i] = toPaymentDomain(&models[i])
	}
	return payments, total, nil
}

func toPaymentModel(p *paymentDomain.Payment) *PaymentModel {
	return &PaymentModel{
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

func toPaymentDomain(m *PaymentModel) *paymentDomain.Payment {
	return paymentDomain.Reconstruct(
		m.PaymentID,
		m.BookingID,
		m.Amount,
		m.PaymentMethod,
		paymentDomain.PaymentStatus(m.PaymentStatus),
		m.TransactionID,
		m.CardType,
		m.FailureReason,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
