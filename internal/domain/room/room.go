package room

import (
	"time"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// RoomStatus is the housekeeping state of a room in the catalog.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusMaintenance RoomStatus = "Maintenance"
)

// Room is a catalog entry. Bookings reference it by id only.
type Room struct {
	id          int64
	roomNumber  string
	roomType    string
	price       float64
	status      RoomStatus
	description string
	imageURL    string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewRoom creates a new catalog room with validated fields. An empty status defaults to Available.
func NewRoom(roomNumber, roomType string, price float64, status RoomStatus, description, imageURL string) (*Room, error) {
	if roomNumber == "" {
		return nil, apperror.NewValidationError("room_number is required")
	}
	if roomType == "" {
		return nil, apperror.NewValidationError("room_type is required")
	}
	if price < 0 {
		return nil, apperror.NewValidationError("price must not be negative")
	}
	if status == "" {
		status = RoomStatusAvailable
	}

	now := time.Now().UTC()
	return &Room{
		roomNumber:  roomNumber,
		roomType:    roomType,
		price:       price,
		status:      status,
		description: description,
		imageURL:    imageURL,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Room from persistence data (no validation).
func Reconstruct(
	id int64,
	roomNumber, roomType string,
	price float64,
	status RoomStatus,
	description, imageURL string,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:          id,
		roomNumber:  roomNumber,
		roomType:    roomType,
		price:       price,
		status:      status,
		description: description,
		imageURL:    imageURL,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (r *Room) ID() int64            { return r.id }
func (r *Room) RoomNumber() string   { return r.roomNumber }
func (r *Room) RoomType() string     { return r.roomType }
func (r *Room) Price() float64       { return r.price }
func (r *Room) Status() RoomStatus   { return r.status }
func (r *Room) Description() string  { return r.description }
func (r *Room) ImageURL() string     { return r.imageURL }
func (r *Room) CreatedAt() time.Time { return r.createdAt }
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }

// --- Behavior ---

// Update applies partial updates to the room. Empty strings and a nil price keep the stored value.
func (r *Room) Update(roomNumber, roomType string, price *float64, status RoomStatus, description, imageURL string) error {
	if price != nil {
		if *price < 0 {
			return apperror.NewValidationError("price must not be negative")
		}
		r.price = *price
	}
	if roomNumber != "" {
		r.roomNumber = roomNumber
	}
	if roomType != "" {
		r.roomType = roomType
	}
	if status != "" {
		r.status = status
	}
	if description != "" {
		r.description = description
	}
	if imageURL != "" {
		r.imageURL = imageURL
	}
	r.updatedAt = time.Now().UTC()
	return nil
}
