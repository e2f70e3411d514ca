package room

import "context"

// RoomRepository defines persistence operations for the room catalog.
type RoomRepository interface {
	FindByID(ctx context.Context, id int64) (*Room, error)
	List(ctx context.Context, page, limit int) ([]*Room, int64, error)
	Save(ctx context.Context, room *Room) (*Room, error)
	Update(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id int64) error
}
