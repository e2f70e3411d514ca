package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	roomDomain "github.com/hotel-booking/service-booking/internal/domain/room"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	RoomID      int64     `gorm:"column:room_id;primaryKey;autoIncrement"`
	RoomNumber  string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	RoomType    string    `gorm:"type:varchar(50);not null"`
	Price       float64   `gorm:"type:numeric(10,2);not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Available'"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (RoomModel) TableName() string { return "rooms" }

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id int64) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("room_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Room", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewStorageError("find room by ID", err)
	}
	return toRoomDomain(&model), nil
}

func (r *GormRoomRepository) List(ctx context.Context, page, limit int) ([]*roomDomain.Room, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RoomModel{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.NewStorageError("count rooms", err)
	}

	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Order("room_number ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, apperror.NewStorageError("list rooms", err)
	}
	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rooms[i] = toRoomDomain(&models[i])
	}
	return rooms, total, nil
}

func (r *GormRoomRepository) Save(ctx context.Context, room *roomDomain.Room) (*roomDomain.Room, error) {
	model := toRoomModel(room)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, roomWriteError("save room", err)
	}
	return toRoomDomain(model), nil
}

func (r *GormRoomRepository) Update(ctx context.Context, room *roomDomain.Room) error {
	model := toRoomModel(room)
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("room_id = ?", model.RoomID).
		Updates(map[string]interface{}{
			"room_number": model.RoomNumber,
			"room_type":   model.RoomType,
			"price":       model.Price,
			"status":      model.Status,
			"description": model.Description,
			"image_url":   model.ImageURL,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return roomWriteError("update room", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Room", strconv.FormatInt(model.RoomID, 10))
	}
	return nil
}

func (r *GormRoomRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("room_id = ?", id).Delete(&RoomModel{})
	if result.Error != nil {
		return apperror.NewStorageError("delete room", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Room", strconv.FormatInt(id, 10))
	}
	return nil
}

func roomWriteError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError("room number already exists", "")
	}
	return apperror.NewStorageError(op, err)
}

func toRoomModel(r *roomDomain.Room) *RoomModel {
	return &RoomModel{
		RoomID:      r.ID(),
		RoomNumber:  r.RoomNumber(),
		RoomType:    r.RoomType(),
		Price:       r.Price(),
		Status:      string(r.Status()),
		Description: r.Description(),
		ImageURL:    r.ImageURL(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func toRoomDomain(m *RoomModel) *roomDomain.Room {
	return roomDomain.Reconstruct(
		m.RoomID,
		m.RoomNumber,
		m.RoomType,
		m.Price,
		roomDomain.RoomStatus(m.Status),
		m.Description,
		m.ImageURL,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
