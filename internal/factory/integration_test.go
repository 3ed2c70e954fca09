package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/countnum/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: Complete round from room creation through scoring, undo and teardown
func (s *IntegrationSuite) TestCompleteRound() {
	rooms := s.app.RoomController

	// Step 1: Create a room for three
	s.app.MockRandom.QueueString("ROOM01")
	room, host, err := rooms.CreateRoom(s.ctx, 3, "Host")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ROOM01"), room.ID)

	// Step 2: Two more players join; a fourth is turned away
	_, p2, err := rooms.JoinRoom(s.ctx, room.ID, "Second")
	s.Require().NoError(err)
	_, p3, err := rooms.JoinRoom(s.ctx, room.ID, "Third")
	s.Require().NoError(err)
	_, _, err = rooms.JoinRoom(s.ctx, room.ID, "Fourth")
	s.ErrorIs(err, model.ErrRoomFull)

	// Step 3: Start is refused until everyone is ready
	for _, id := range []model.PlayerID{host, p2} {
		_, err = rooms.SetPlayerReady(s.ctx, room.ID, id, true)
		s.Require().NoError(err)
	}
	_, err = rooms.StartGame(s.ctx, room.ID)
	s.ErrorIs(err, model.ErrNotAllReady)

	_, err = rooms.SetPlayerReady(s.ctx, room.ID, p3, true)
	s.Require().NoError(err)
	room, err = rooms.StartGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.True(room.IsPlaying)

	// Step 4: Host pays Second 10 points in quick succession
	_, err = rooms.UpdateScore(s.ctx, room.ID, host, -10, nil)
	s.Require().NoError(err)
	s.app.MockClock.Advance(200 * time.Millisecond)
	room, err = rooms.UpdateScore(s.ctx, room.ID, p2, 10, &host)
	s.Require().NoError(err)

	s.Require().Len(room.ActionLogs, 1)
	s.Equal(model.LogActionTransfer, room.ActionLogs[0].Action)
	s.Equal(host, room.ActionLogs[0].ActorID)
	s.Equal(p2, room.ActionLogs[0].RecipientID)

	// Step 5: Third scores alone later
	s.app.MockClock.Advance(time.Second)
	room, err = rooms.UpdateScore(s.ctx, room.ID, p3, 2.5, nil)
	s.Require().NoError(err)
	s.Len(room.ActionLogs, 2)

	// Step 6: Undo Third's points
	room, err = rooms.UndoScore(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(0.0, room.GetPlayer(p3).Score)
	s.Equal(-10.0, room.GetPlayer(host).Score)
	s.Equal(10.0, room.GetPlayer(p2).Score)

	// Step 7: Reconnect lookup finds the room
	found, err := rooms.FindRoomByPlayer(s.ctx, p3)
	s.Require().NoError(err)
	s.Equal(room.ID, found.ID)

	// Step 8: Everyone leaves and the room disappears
	for _, id := range []model.PlayerID{host, p2} {
		_, deleted, err := rooms.LeaveRoom(s.ctx, room.ID, id)
		s.Require().NoError(err)
		s.False(deleted)
	}
	_, deleted, err := rooms.LeaveRoom(s.ctx, room.ID, p3)
	s.Require().NoError(err)
	s.True(deleted)

	count, err := rooms.RoomCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

// Test: Janitor removes rooms that outlived the max age
func (s *IntegrationSuite) TestJanitorExpiresRooms() {
	s.app.MockRandom.QueueString("ROOM01", "ROOM02")
	_, _, err := s.app.RoomController.CreateRoom(s.ctx, 2, "Early")
	s.Require().NoError(err)

	s.app.MockClock.Advance(12 * time.Hour)
	_, late, err := s.app.RoomController.CreateRoom(s.ctx, 2, "Late")
	s.Require().NoError(err)

	s.app.MockClock.Advance(13 * time.Hour)
	s.Equal(1, s.app.Janitor.Sweep(s.ctx))

	found, err := s.app.RoomController.FindRoomByPlayer(s.ctx, late)
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ROOM02"), found.ID)
}

func (s *IntegrationSuite) TestNewWithoutRedisHasNoCounter() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.Nil(app.RateCounter)
	s.Nil(app.Counter())
	s.NoError(app.Close())
}
