package storage

import (
	"context"
	"time"

	"github.com/mcoot/countnum/internal/model"
)

// Storage defines the interface for room state
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
	CountRooms(ctx context.Context) (int, error)

	// Player -> room index operations
	SetPlayerRoom(ctx context.Context, playerID model.PlayerID, code model.RoomCode) error
	GetPlayerRoom(ctx context.Context, playerID model.PlayerID) (model.RoomCode, error)
	DeletePlayerRoom(ctx context.Context, playerID model.PlayerID) error
}

// Counter counts hits per key over a fixed window
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}
