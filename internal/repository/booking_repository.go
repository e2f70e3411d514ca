package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/hotel-booking/service-booking/internal/domain/booking"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// maxMutateAttempts bounds how often a write is retried when the booking moved to
// another room between the unlocked read and taking the room locks.
const maxMutateAttempts = 3

var errRoomMoved = errors.New("booking moved to another room while waiting for the room lock")

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	BookingID     int64     `gorm:"column:booking_id;primaryKey;autoIncrement"`
	UserID        int64     `gorm:"not null;index"`
	RoomID        int64     `gorm:"not null;index:idx_bookings_room_status,priority:1"`
	CheckIn       time.Time `gorm:"type:date;not null"`
	CheckOut      time.Time `gorm:"type:date;not null"`
	BookingStatus string    `gorm:"size:20;not null;default:'Pending';index:idx_bookings_room_status,priority:2"`
	ArrivalStatus string    `gorm:"size:20;not null;default:'Not Arrived'"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingStore is the GORM-based implementation of booking.BookingStore. Every
// write runs in one transaction holding the locks of the rooms it touches.
type GormBookingStore struct {
	db     *gorm.DB
	locker RoomLocker
}

// NewGormBookingStore creates a GormBookingStore. A nil locker selects one from the
// database dialect.
func NewGormBookingStore(db *gorm.DB, locker RoomLocker) *GormBookingStore {
	if locker == nil {
		locker = NewRoomLocker(db)
	}
	return &GormBookingStore{db: db, locker: locker}
}

// Create inserts a booking if no active booking of the same room overlaps it.
func (s *GormBookingStore) Create(ctx context.Context, bk *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	var created *bookingDomain.Booking
	err := s.withRoomLock(ctx, "create booking", []int64{bk.RoomID()}, func(tx *gorm.DB) error {
		conflicts, err := findConflicts(tx, bk.RoomID(), bk.Dates(), 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return bookingDomain.NewConflictError(bk.RoomID(), bk.Dates(), conflicts)
		}

		model := toBookingModel(bk)
		model.BookingID = 0
		if err := tx.Create(model).Error; err != nil {
			return apperror.NewStorageError("save booking", err)
		}
		created = toDomainBooking(model)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges patch over the stored booking. The overlap check runs only when the
// effective booking is active and its room or dates changed; the lifecycle check
// runs after it.
func (s *GormBookingStore) Update(ctx context.Context, id int64, patch bookingDomain.Patch) (*bookingDomain.Booking, error) {
	change, err := s.Modify(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return change.After, nil
}

// Modify applies patch like Update and reports the booking before and after the write.
func (s *GormBookingStore) Modify(ctx context.Context, id int64, patch bookingDomain.Patch) (bookingDomain.Change, error) {
	rooms := func(current *bookingDomain.Booking) []int64 {
		return []int64{current.RoomID(), patch.TargetRoom(current.RoomID())}
	}
	var before *bookingDomain.Booking
	after, err := s.mutate(ctx, "update booking", id, rooms, func(tx *gorm.DB, current *bookingDomain.Booking) (*bookingDomain.Booking, error) {
		before = current
		next, err := current.Merge(patch)
		if err != nil {
			return nil, err
		}

		if current.NeedsConflictCheck(next) {
			conflicts, err := findConflicts(tx, next.RoomID(), next.Dates(), id)
			if err != nil {
				return nil, err
			}
			if len(conflicts) > 0 {
				return nil, bookingDomain.NewConflictError(next.RoomID(), next.Dates(), conflicts)
			}
		}

		if err := current.ValidateTransition(next); err != nil {
			return nil, err
		}

		model := toBookingModel(next)
		if err := tx.Model(&BookingModel{}).
			Where("booking_id = ?", id).
			Updates(map[string]interface{}{
				"user_id":        model.UserID,
				"room_id":        model.RoomID,
				"check_in":       model.CheckIn,
				"check_out":      model.CheckOut,
				"booking_status": model.BookingStatus,
				"arrival_status": model.ArrivalStatus,
				"updated_at":     model.UpdatedAt,
			}).Error; err != nil {
			return nil, apperror.NewStorageError("update booking", err)
		}
		return next, nil
	})
	if err != nil {
		return bookingDomain.Change{}, err
	}
	return bookingDomain.Change{Before: before, After: after}, nil
}

// Cancel moves a booking to Cancelled.
func (s *GormBookingStore) Cancel(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	return s.Update(ctx, id, bookingDomain.CancelPatch())
}

// Delete removes a booking row and returns what was deleted.
func (s *GormBookingStore) Delete(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	rooms := func(current *bookingDomain.Booking) []int64 { return []int64{current.RoomID()} }
	return s.mutate(ctx, "delete booking", id, rooms, func(tx *gorm.DB, current *bookingDomain.Booking) (*bookingDomain.Booking, error) {
		if err := tx.Where("booking_id = ?", id).Delete(&BookingModel{}).Error; err != nil {
			return nil, apperror.NewStorageError("delete booking", err)
		}
		return current, nil
	})
}

// FindByID retrieves a booking by id.
func (s *GormBookingStore) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	return findBooking(s.db.WithContext(ctx), id)
}

// FindConflicts lists the active bookings of roomID overlapping dates, without locking.
func (s *GormBookingStore) FindConflicts(ctx context.Context, roomID int64, dates bookingDomain.DateRange, excludeID int64) ([]*bookingDomain.Booking, error) {
	return findConflicts(s.db.WithContext(ctx), roomID, dates, excludeID)
}

// List retrieves bookings matching filter with pagination.
func (s *GormBookingStore) List(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	filtered := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&BookingModel{})
		if filter.RoomID != 0 {
			query = query.Where("room_id = ?", filter.RoomID)
		}
		if filter.UserID != 0 {
			query = query.Where("user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			query = query.Where("booking_status = ?", string(filter.Status))
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, apperror.NewStorageError("count bookings", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := filtered().
		Order("booking_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, apperror.NewStorageError("list bookings", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (s *GormBookingStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := s.db.WithContext(ctx).Model(&BookingModel{}).
		Select("booking_status AS status, count(*) AS count").
		Group("booking_status").
		Find(&results).Error; err != nil {
		return nil, apperror.NewStorageError("count bookings by status", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// mutate runs fn against the freshly reloaded booking with the rooms returned by
// roomsFor locked. The rooms are computed from an unlocked read; if the booking has
// changed room by the time the locks are held, the attempt is discarded and retried.
func (s *GormBookingStore) mutate(
	ctx context.Context,
	op string,
	id int64,
	roomsFor func(*bookingDomain.Booking) []int64,
	fn func(tx *gorm.DB, current *bookingDomain.Booking) (*bookingDomain.Booking, error),
) (*bookingDomain.Booking, error) {
	for attempt := 1; attempt <= maxMutateAttempts; attempt++ {
		before, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		var result *bookingDomain.Booking
		err = s.withRoomLock(ctx, op, roomsFor(before), func(tx *gorm.DB) error {
			current, err := findBooking(tx, id)
			if err != nil {
				return err
			}
			if current.RoomID() != before.RoomID() {
				return errRoomMoved
			}
			result, err = fn(tx, current)
			return err
		})
		if errors.Is(err, errRoomMoved) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, apperror.NewStorageError(op, errRoomMoved)
}

// withRoomLock runs fn in a transaction holding the locks of roomIDs. Classified
// errors from fn pass through unchanged; anything else becomes a storage failure.
func (s *GormBookingStore) withRoomLock(ctx context.Context, op string, roomIDs []int64, fn func(tx *gorm.DB) error) error {
	release, err := s.locker.Acquire(ctx, roomIDs...)
	if err != nil {
		return apperror.NewStorageError(op, err)
	}
	defer release()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.locker.LockInTx(tx, roomIDs...); err != nil {
			return apperror.NewStorageError(op, err)
		}
		return fn(tx)
	})
	if err == nil || errors.Is(err, errRoomMoved) || apperror.KindOf(err) != apperror.KindUnknown {
		return err
	}
	return apperror.NewStorageError(op, err)
}

func findBooking(db *gorm.DB, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := db.Where("booking_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewStorageError("find booking by ID", err)
	}
	return toDomainBooking(&model), nil
}

// findConflicts loads the room's active bookings in id order and filters them with
// the overlap predicate. Inside a write transaction it must run after the room lock.
func findConflicts(db *gorm.DB, roomID int64, dates bookingDomain.DateRange, excludeID int64) ([]*bookingDomain.Booking, error) {
	query := db.Where("room_id = ? AND booking_status <> ?", roomID, string(bookingDomain.StatusCancelled))
	if excludeID != 0 {
		query = query.Where("booking_id <> ?", excludeID)
	}

	var models []BookingModel
	if err := query.Order("booking_id ASC").Find(&models).Error; err != nil {
		return nil, apperror.NewStorageError("query active bookings", err)
	}

	active := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		active[i] = toDomainBooking(&models[i])
	}
	return bookingDomain.DetectConflicts(dates, active, excludeID), nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		BookingID:     bk.ID(),
		UserID:        bk.UserID(),
		RoomID:        bk.RoomID(),
		CheckIn:       bookingDomain.DateOf(bk.CheckIn()),
		CheckOut:      bookingDomain.DateOf(bk.CheckOut()),
		BookingStatus: string(bk.Status()),
		ArrivalStatus: string(bk.ArrivalStatus()),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		m.BookingID,
		m.UserID,
		m.RoomID,
		bookingDomain.DateRange{
			CheckIn:  bookingDomain.DateOf(m.CheckIn),
			CheckOut: bookingDomain.DateOf(m.CheckOut),
		},
		bookingDomain.BookingStatus(m.BookingStatus),
		bookingDomain.ArrivalStatus(m.ArrivalStatus),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

var _ bookingDomain.BookingStore = (*GormBookingStore)(nil)
