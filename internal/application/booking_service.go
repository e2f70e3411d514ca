package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/hotel-booking/service-booking/internal/domain/booking"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
	"github.com/hotel-booking/service-booking/internal/platform/kafka"
	"github.com/hotel-booking/service-booking/internal/platform/metrics"
)

const eventSource = "service-booking"

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	UserID        int64  `json:"user_id" binding:"required"`
	RoomID        int64  `json:"room_id" binding:"required"`
	CheckIn       string `json:"check_in" binding:"required"`
	CheckOut      string `json:"check_out" binding:"required"`
	BookingStatus string `json:"booking_status"`
	ArrivalStatus string `json:"arrival_status"`
}

// UpdateBookingRequest is a merge-patch: absent fields keep their stored value.
type UpdateBookingRequest struct {
	UserID        *int64  `json:"user_id"`
	RoomID        *int64  `json:"room_id"`
	CheckIn       *string `json:"check_in"`
	CheckOut      *string `json:"check_out"`
	BookingStatus *string `json:"booking_status"`
	ArrivalStatus *string `json:"arrival_status"`
}

// ListBookingsQuery filters the booking listing.
type ListBookingsQuery struct {
	RoomID int64
	UserID int64
	Status string
	Page   int
	Limit  int
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	BookingID     int64     `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	RoomID        int64     `json:"room_id"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	Nights        int       `json:"nights"`
	BookingStatus string    `json:"booking_status"`
	ArrivalStatus string    `json:"arrival_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AvailabilityDTO answers whether a room is free for a date range.
type AvailabilityDTO struct {
	RoomID    int64        `json:"room_id"`
	CheckIn   string       `json:"check_in"`
	CheckOut  string       `json:"check_out"`
	Available bool         `json:"available"`
	Conflicts []BookingDTO `json:"conflicts"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	store     bookingDomain.BookingStore
	publisher kafka.Publisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService. A nil publisher disables event publishing.
func NewBookingService(store bookingDomain.BookingStore, publisher kafka.Publisher, logger *zap.Logger) *BookingService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &BookingService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking validates the request and inserts the booking if its room is free.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	dates, err := bookingDomain.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	status := bookingDomain.BookingStatus(req.BookingStatus)
	arrival := bookingDomain.ArrivalStatus(req.ArrivalStatus)
	bk, err := bookingDomain.NewBooking(req.UserID, req.RoomID, dates, status, arrival)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, bk)
	if err != nil {
		s.observeFailure("create", err)
		return nil, err
	}

	metrics.IncBookingCreated(string(created.Status()))
	s.logger.Info("booking created",
		zap.Int64("booking_id", created.ID()),
		zap.Int64("room_id", created.RoomID()),
		zap.String("dates", created.Dates().String()),
	)
	s.publishEvent(ctx, bookingDomain.EventBookingCreated, created)

	result := toBookingDTO(created)
	return &result, nil
}

// UpdateBooking applies a merge-patch to a booking.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID int64, req UpdateBookingRequest) (*BookingDTO, error) {
	patch, err := req.toPatch()
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperror.NewValidationError("no fields to update")
	}
	return s.applyPatch(ctx, "update", bookingID, patch)
}

// UpdateBookingStatus moves a booking to status. The payment flow confirms and cancels through it.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID int64, status bookingDomain.BookingStatus) (*BookingDTO, error) {
	return s.applyPatch(ctx, "update_status", bookingID, bookingDomain.StatusPatch(status))
}

// CancelBooking cancels a booking. Cancelling twice is not an error.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*BookingDTO, error) {
	return s.applyPatch(ctx, "cancel", bookingID, bookingDomain.CancelPatch())
}

// DeleteBooking hard-deletes a booking (admin).
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID int64) error {
	deleted, err := s.store.Delete(ctx, bookingID)
	if err != nil {
		s.observeFailure("delete", err)
		return err
	}

	s.logger.Info("booking deleted", zap.Int64("booking_id", bookingID))
	s.publishEvent(ctx, bookingDomain.EventBookingDeleted, deleted)
	return nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*BookingDTO, error) {
	bk, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings retrieves a filtered page of bookings.
func (s *BookingService) ListBookings(ctx context.Context, q ListBookingsQuery) (*apperror.PaginatedResult[BookingDTO], error) {
	filter := bookingDomain.ListFilter{RoomID: q.RoomID, UserID: q.UserID}
	if q.Status != "" {
		status, err := bookingDomain.ParseBookingStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	bookings, total, err := s.store.List(ctx, filter, q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := apperror.NewPaginatedResult(dtos, total, q.Page, q.Limit)
	return &result, nil
}

// CheckAvailability reports the active bookings of a room overlapping the requested dates.
// The answer is advisory: only a write under the room lock is authoritative.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut string) (*AvailabilityDTO, error) {
	if roomID <= 0 {
		return nil, apperror.NewValidationError("room_id is required")
	}
	dates, err := bookingDomain.ParseDateRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.store.FindConflicts(ctx, roomID, dates, 0)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(conflicts))
	for i, bk := range conflicts {
		dtos[i] = toBookingDTO(bk)
	}
	return &AvailabilityDTO{
		RoomID:    roomID,
		CheckIn:   dates.CheckIn.Format(bookingDomain.DateLayout),
		CheckOut:  dates.CheckOut.Format(bookingDomain.DateLayout),
		Available: len(conflicts) == 0,
		Conflicts: dtos,
	}, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

func (s *BookingService) applyPatch(ctx context.Context, op string, bookingID int64, patch bookingDomain.Patch) (*BookingDTO, error) {
	change, err := s.store.Modify(ctx, bookingID, patch)
	if err != nil {
		s.observeFailure(op, err)
		return nil, err
	}
	updated := change.After

	if !change.Changed() {
		s.logger.Debug("booking unchanged", zap.String("operation", op), zap.Int64("booking_id", updated.ID()))
		result := toBookingDTO(updated)
		return &result, nil
	}

	eventType := bookingDomain.EventBookingUpdated
	if change.StatusChanged() && updated.Status() == bookingDomain.StatusCancelled {
		eventType = bookingDomain.EventBookingCancelled
		metrics.IncBookingCancelled()
	}

	s.logger.Info("booking updated",
		zap.String("operation", op),
		zap.Int64("booking_id", updated.ID()),
		zap.String("booking_status", string(updated.Status())),
	)
	s.publishEvent(ctx, eventType, updated)

	result := toBookingDTO(updated)
	return &result, nil
}

// observeFailure records metrics for rejected or failed writes. Caller errors are logged at
// debug level only.
func (s *BookingService) observeFailure(op string, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindConflict:
		metrics.IncBookingConflict(op)
		s.logger.Info("booking rejected by conflict",
			zap.String("operation", op),
			zap.String("details", apperror.DetailsOf(err)),
		)
	case apperror.KindStorage, apperror.KindUnknown:
		metrics.IncStorageFailure(op)
		s.logger.Error("booking storage failure", zap.String("operation", op), zap.Error(err))
	default:
		s.logger.Debug("booking request rejected", zap.String("operation", op), zap.Error(err))
	}
}

// --- Helpers ---

func (r UpdateBookingRequest) toPatch() (bookingDomain.Patch, error) {
	patch := bookingDomain.Patch{UserID: r.UserID, RoomID: r.RoomID}
	if r.CheckIn != nil {
		d, err := bookingDomain.ParseDate(*r.CheckIn)
		if err != nil {
			return patch, err
		}
		patch.CheckIn = &d
	}
	if r.CheckOut != nil {
		d, err := bookingDomain.ParseDate(*r.CheckOut)
		if err != nil {
			return patch, err
		}
		patch.CheckOut = &d
	}
	if r.BookingStatus != nil {
		status, err := bookingDomain.ParseBookingStatus(*r.BookingStatus)
		if err != nil {
			return patch, err
		}
		patch.BookingStatus = &status
	}
	if r.ArrivalStatus != nil {
		arrival, err := bookingDomain.ParseArrivalStatus(*r.ArrivalStatus)
		if err != nil {
			return patch, err
		}
		patch.ArrivalStatus = &arrival
	}
	return patch, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		BookingID:     bk.ID(),
		UserID:        bk.UserID(),
		RoomID:        bk.RoomID(),
		CheckIn:       bk.CheckIn().Format(bookingDomain.DateLayout),
		CheckOut:      bk.CheckOut().Format(bookingDomain.DateLayout),
		Nights:        bk.Dates().Nights(),
		BookingStatus: string(bk.Status()),
		ArrivalStatus: string(bk.ArrivalStatus()),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, bookingDomain.NewBookingEvent(bk))
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, bookingDomain.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", bookingDomain.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
