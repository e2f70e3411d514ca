package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	bookingDomain "github.com/hotel-booking/service-booking/internal/domain/booking"
	paymentDomain "github.com/hotel-booking/service-booking/internal/domain/payment"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
	"github.com/hotel-booking/service-booking/internal/platform/kafka"
	"github.com/hotel-booking/service-booking/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	bookings  *BookingService
	payments  *PaymentService
	rooms     *RoomService
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&repository.BookingModel{}, &repository.RoomModel{}, &repository.PaymentModel{}))

	log := zap.NewNop()
	pub := &recordingPublisher{}
	bookings := NewBookingService(repository.NewGormBookingStore(db, nil), pub, log)
	return &fixture{
		bookings:  bookings,
		payments:  NewPaymentService(repository.NewGormPaymentRepository(db), bookings, log),
		rooms:     NewRoomService(repository.NewGormRoomRepository(db), log),
		publisher: pub,
	}
}

func strPtr(s string) *string { return &s }

func TestBookingService_CreatePublishesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-01", CheckOut: "2024-05-03",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), dto.BookingID)
	assert.Equal(t, "Pending", dto.BookingStatus)
	assert.Equal(t, "Not Arrived", dto.ArrivalStatus)
	assert.Equal(t, 2, dto.Nights)

	_, err = f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 4, RoomID: 101, CheckIn: "2024-05-02", CheckOut: "2024-05-04",
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	assert.Equal(t, []string{bookingDomain.EventBookingCreated}, f.publisher.types())

	var evt bookingDomain.BookingEvent
	require.NoError(t, f.publisher.events[0].ParseData(&evt))
	assert.Equal(t, int64(1), evt.BookingID)
	assert.Equal(t, "2024-05-01", evt.CheckIn)
}

func TestBookingService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-03", CheckOut: "2024-05-03",
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-01", CheckOut: "2024-05-03", BookingStatus: "Cancelled",
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestBookingService_UpdateAndCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-01", CheckOut: "2024-05-03",
	})
	require.NoError(t, err)

	_, err = f.bookings.UpdateBooking(ctx, created.BookingID, UpdateBookingRequest{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.bookings.UpdateBooking(ctx, created.BookingID, UpdateBookingRequest{CheckOut: strPtr("May 5")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.bookings.UpdateBooking(ctx, created.BookingID, UpdateBookingRequest{BookingStatus: strPtr("Booked")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	updated, err := f.bookings.UpdateBooking(ctx, created.BookingID, UpdateBookingRequest{
		CheckOut:      strPtr("2024-05-05"),
		BookingStatus: strPtr("Confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-05", updated.CheckOut)
	assert.Equal(t, "Confirmed", updated.BookingStatus)

	cancelled, err := f.bookings.CancelBooking(ctx, created.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", cancelled.BookingStatus)

	require.NoError(t, f.bookings.DeleteBooking(ctx, created.BookingID))
	_, err = f.bookings.GetBooking(ctx, created.BookingID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.Equal(t, []string{
		bookingDomain.EventBookingCreated,
		bookingDomain.EventBookingUpdated,
		bookingDomain.EventBookingCancelled,
		bookingDomain.EventBookingDeleted,
	}, f.publisher.types())
}

func TestBookingService_RepeatedCancelPublishesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-01", CheckOut: "2024-05-03",
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		cancelled, err := f.bookings.CancelBooking(ctx, created.BookingID)
		require.NoError(t, err)
		assert.Equal(t, "Cancelled", cancelled.BookingStatus)
	}

	_, err = f.bookings.UpdateBooking(ctx, created.BookingID, UpdateBookingRequest{CheckOut: strPtr("2024-05-03")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		bookingDomain.EventBookingCreated,
		bookingDomain.EventBookingCancelled,
	}, f.publisher.types())
}

func TestBookingService_AvailabilityAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-01", CheckOut: "2024-05-03",
	})
	require.NoError(t, err)

	avail, err := f.bookings.CheckAvailability(ctx, 101, "2024-05-02", "2024-05-04")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	require.Len(t, avail.Conflicts, 1)
	assert.Equal(t, int64(1), avail.Conflicts[0].BookingID)

	avail, err = f.bookings.CheckAvailability(ctx, 101, "2024-05-03", "2024-05-04")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Empty(t, avail.Conflicts)

	_, err = f.bookings.CheckAvailability(ctx, 101, "2024-05-04", "2024-05-03")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stats, err := f.bookings.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["Pending"])

	page, err := f.bookings.ListBookings(ctx, ListBookingsQuery{Status: "Pending", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.bookings.ListBookings(ctx, ListBookingsQuery{Status: "Unknown", Page: 1, Limit: 10})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestPaymentService_SuccessConfirmsBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bk, err := f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-01", CheckOut: "2024-05-03",
	})
	require.NoError(t, err)

	res, err := f.payments.HandlePaymentSuccess(ctx, PaymentSuccessRequest{
		TranID: "BK_1_1714550400", ValID: "VAL-1", Amount: 240, CardType: "VISA",
	})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "Confirmed", res.Booking.BookingStatus)
	assert.Equal(t, "Completed", res.Payment.PaymentStatus)
	assert.Equal(t, float64(240), res.Payment.Amount)
	assert.Equal(t, "VAL-1", res.Payment.TransactionID)
	assert.Equal(t, paymentDomain.DefaultMethod, res.Payment.PaymentMethod)

	stored, err := f.bookings.GetBooking(ctx, bk.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", stored.BookingStatus)
}

func TestPaymentService_FailureCancelsBookingAndUpdatesPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.CreateBooking(ctx, CreateBookingRequest{
		UserID: 3, RoomID: 101, CheckIn: "2024-05-01", CheckOut: "2024-05-03",
	})
	require.NoError(t, err)
	pending, err := f.payments.CreatePayment(ctx, CreatePaymentRequest{BookingID: 1, Amount: 240})
	require.NoError(t, err)

	res, err := f.payments.HandlePaymentFailure(ctx, PaymentFailureRequest{TranID: "BK_1_1714550400"})
	require.NoError(t, err)
	assert.Equal(t, "failed", res.Status)
	assert.Equal(t, "Cancelled", res.Booking.BookingStatus)
	assert.Equal(t, pending.PaymentID, res.Payment.PaymentID)
	assert.Equal(t, "Failed", res.Payment.PaymentStatus)
	assert.Equal(t, defaultFailureReason, res.Payment.FailureReason)

	_, err = f.payments.HandlePaymentSuccess(ctx, PaymentSuccessRequest{TranID: "BK_1_1714550500"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition), "a cancelled booking cannot be confirmed")

	res, err = f.payments.HandlePaymentCancel(ctx, PaymentCancelRequest{TranID: "BK_1_1714550600"})
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", res.Payment.PaymentStatus)
}

func TestPaymentService_RejectsBadTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.payments.HandlePaymentSuccess(ctx, PaymentSuccessRequest{TranID: "ORDER-9"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.payments.HandlePaymentCancel(ctx, PaymentCancelRequest{TranID: "BK_99_1"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRoomService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.rooms.CreateRoom(ctx, CreateRoomRequest{RoomNumber: "101", RoomType: "Deluxe", Price: 120})
	require.NoError(t, err)
	assert.Equal(t, "Available", room.Status)

	_, err = f.rooms.CreateRoom(ctx, CreateRoomRequest{RoomNumber: "101", RoomType: "Suite", Price: 300})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	price := 150.0
	updated, err := f.rooms.UpdateRoom(ctx, room.RoomID, UpdateRoomRequest{Price: &price, Status: "Maintenance"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, "Maintenance", updated.Status)
	assert.Equal(t, "Deluxe", updated.RoomType)

	page, err := f.rooms.ListRooms(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, f.rooms.DeleteRoom(ctx, room.RoomID))
	_, err = f.rooms.GetRoom(ctx, room.RoomID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
