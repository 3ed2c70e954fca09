package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/countnum/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newRoom(code model.RoomCode) *model.Room {
	return &model.Room{
		ID:         code,
		MaxPlayers: 4,
		Players:    []model.Player{{ID: "player-1", Name: "Alice"}},
		CreatedAt:  time.Now(),
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.newRoom("ABC123")

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Len(retrieved.Players, 1)
}

func (s *StorageSuite) TestGetRoomReturnsStoredPointer() {
	room := s.newRoom("ABC123")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Same(room, retrieved)

	listed, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Same(room, listed[0])
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, s.newRoom("ABC123"))

	err := s.storage.DeleteRoom(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveRoom(s.ctx, s.newRoom("ABC123"))

	exists, err = s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestListAndCountRooms() {
	_ = s.storage.SaveRoom(s.ctx, s.newRoom("ROOM01"))
	_ = s.storage.SaveRoom(s.ctx, s.newRoom("ROOM02"))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)

	count, err := s.storage.CountRooms(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Player index tests

func (s *StorageSuite) TestPlayerRoomIndex() {
	err := s.storage.SetPlayerRoom(s.ctx, "player-1", "ABC123")
	s.Require().NoError(err)

	code, err := s.storage.GetPlayerRoom(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABC123"), code)

	err = s.storage.DeletePlayerRoom(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayerRoom(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
