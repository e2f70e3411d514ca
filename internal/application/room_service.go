package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	roomDomain "github.com/hotel-booking/service-booking/internal/domain/room"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// CreateRoomRequest is the request body for adding a room to the catalog.
type CreateRoomRequest struct {
	RoomNumber  string  `json:"room_number" binding:"required"`
	RoomType    string  `json:"room_type" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// UpdateRoomRequest is the request body for updating a room. Empty fields are left unchanged.
type UpdateRoomRequest struct {
	RoomNumber  string   `json:"room_number"`
	RoomType    string   `json:"room_type"`
	Price       *float64 `json:"price"`
	Status      string   `json:"status"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	RoomID      int64     `json:"room_id"`
	RoomNumber  string    `json:"room_number"`
	RoomType    string    `json:"room_type"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomService handles the room catalog.
type RoomService struct {
	repo   roomDomain.RoomRepository
	logger *zap.Logger
}

func NewRoomService(repo roomDomain.RoomRepository, logger *zap.Logger) *RoomService {
	return &RoomService{repo: repo, logger: logger}
}

func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomDTO, error) {
	room, err := roomDomain.NewRoom(
		req.RoomNumber, req.RoomType, req.Price,
		roomDomain.RoomStatus(req.Status), req.Description, req.ImageURL,
	)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, room)
	if err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.Int64("room_id", saved.ID()),
		zap.String("room_number", saved.RoomNumber()),
	)
	dto := toRoomDTO(saved)
	return &dto, nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID int64) (*RoomDTO, error) {
	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	dto := toRoomDTO(room)
	return &dto, nil
}

func (s *RoomService) ListRooms(ctx context.Context, page, limit int) (*apperror.PaginatedResult[RoomDTO], error) {
	rooms, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		dtos[i] = toRoomDTO(r)
	}
	result := apperror.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, roomID int64, req UpdateRoomRequest) (*RoomDTO, error) {
	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := room.Update(req.RoomNumber, req.RoomType, req.Price,
		roomDomain.RoomStatus(req.Status), req.Description, req.ImageURL); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}

	dto := toRoomDTO(room)
	return &dto, nil
}

// DeleteRoom removes a room from the catalog. Existing bookings keep their room_id.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID int64) error {
	if err := s.repo.Delete(ctx, roomID); err != nil {
		return err
	}
	s.logger.Info("room deleted", zap.Int64("room_id", roomID))
	return nil
}

func toRoomDTO(r *roomDomain.Room) RoomDTO {
	return RoomDTO{
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
