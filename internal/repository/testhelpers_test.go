package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	bookingDomain "github.com/hotel-booking/service-booking/internal/domain/booking"
)

// newTestDB opens a private in-memory SQLite database. A single connection keeps
// every statement on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, db.AutoMigrate(&BookingModel{}, &RoomModel{}, &PaymentModel{}))
	return db
}

// newConcurrentTestDB opens a file-backed SQLite database with a connection pool, so
// transactions from different goroutines really run side by side.
func newConcurrentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bookings.db")
	db, err := gorm.Open(sqlite.Open("file:"+path+"?_busy_timeout=5000"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(16)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&BookingModel{}, &RoomModel{}, &PaymentModel{}))
	return db
}

func newTestStore(t *testing.T) (*GormBookingStore, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewGormBookingStore(db, nil), db
}

func date(s string) time.Time {
	d, err := time.Parse(bookingDomain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dates(in, out string) bookingDomain.DateRange {
	return bookingDomain.DateRange{CheckIn: date(in), CheckOut: date(out)}
}

func newBooking(t *testing.T, userID, roomID int64, in, out string) *bookingDomain.Booking {
	t.Helper()
	b, err := bookingDomain.NewBooking(userID, roomID, dates(in, out), "", "")
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }
