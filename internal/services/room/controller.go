package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/mcoot/countnum/internal/dependencies/clock"
	"github.com/mcoot/countnum/internal/dependencies/random"
	"github.com/mcoot/countnum/internal/model"
	"github.com/mcoot/countnum/internal/storage"
	"github.com/mcoot/countnum/internal/validation"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = validation.RoomCodeLength
	// CodeAlphabet is the characters used in room codes
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// ConsolidationWindow is how close two opposite score edits must be to merge into a transfer
	ConsolidationWindow = 500 * time.Millisecond

	// DefaultMaxAge is the room age after which CleanupOldRooms removes a room
	DefaultMaxAge = 24 * time.Hour

	maxCodeAttempts = 100
	playerIDPrefix  = "player"
	logIDPrefix     = "log"
)

// Controller manages the room state machine: membership, ready/start gating,
// scoring with log consolidation, undo and expiry.
//
// Every operation runs under a single lock and returns a deep copy of the
// room, so callers never share memory with stored state.
type Controller struct {
	mu sync.Mutex

	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateRoom creates a room under a freshly generated code with the given player as its only member
func (c *Controller) CreateRoom(ctx context.Context, maxPlayers int, playerName string) (*model.Room, model.PlayerID, error) {
	name, err := validation.PlayerName(playerName)
	if err != nil {
		return nil, "", err
	}
	if err := validation.MaxPlayers(maxPlayers); err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	code, err := c.generateCode(ctx)
	if err != nil {
		return nil, "", err
	}

	return c.createRoom(ctx, code, maxPlayers, name)
}

// CreateRoomWithCode creates a room under a caller-chosen code
func (c *Controller) CreateRoomWithCode(ctx context.Context, code model.RoomCode, maxPlayers int, playerName string) (*model.Room, model.PlayerID, error) {
	normalized, err := validation.RoomCode(string(code))
	if err != nil {
		return nil, "", err
	}
	name, err := validation.PlayerName(playerName)
	if err != nil {
		return nil, "", err
	}
	if err := validation.MaxPlayers(maxPlayers); err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	exists, err := c.storage.RoomExists(ctx, normalized)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", model.ErrRoomCodeTaken
	}

	return c.createRoom(ctx, normalized, maxPlayers, name)
}

func (c *Controller) createRoom(ctx context.Context, code model.RoomCode, maxPlayers int, name string) (*model.Room, model.PlayerID, error) {
	player := c.newPlayer(name)

	room := &model.Room{
		ID:         code,
		MaxPlayers: maxPlayers,
		Players:    []model.Player{player},
		IsPlaying:  false,
		CreatedAt:  c.clock.Now(),
		History:    []model.RoomHistory{},
		ActionLogs: []model.ActionLog{},
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, "", err
	}
	if err := c.storage.SetPlayerRoom(ctx, player.ID, code); err != nil {
		return nil, "", err
	}

	c.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.String("player_name", name),
		slog.Int("max_players", maxPlayers),
	)

	return room.Clone(), player.ID, nil
}

// generateCode picks a code not used by any live room
func (c *Controller) generateCode(ctx context.Context) (model.RoomCode, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := model.RoomCode(c.random.String(CodeLength, CodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
}

func (c *Controller) newPlayer(name string) model.Player {
	return model.Player{
		ID:      model.PlayerID(c.random.ID(playerIDPrefix)),
		Name:    name,
		Score:   0,
		IsReady: false,
	}
}

// JoinRoom adds a new player to a room that is neither full nor playing
func (c *Controller) JoinRoom(ctx context.Context, code model.RoomCode, playerName string) (*model.Room, model.PlayerID, error) {
	name, err := validation.PlayerName(playerName)
	if err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, "", err
	}

	if room.IsFull() {
		return nil, "", model.ErrRoomFull
	}
	if room.IsPlaying {
		return nil, "", model.ErrGameAlreadyStarted
	}

	player := c.newPlayer(name)
	room.Players = append(room.Players, player)

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, "", err
	}
	if err := c.storage.SetPlayerRoom(ctx, player.ID, code); err != nil {
		return nil, "", err
	}

	c.logger.Info("player joined room",
		slog.String("room", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.String("player_name", name),
	)

	return room.Clone(), player.ID, nil
}

// GetRoom retrieves a room by code
func (c *Controller) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return room.Clone(), nil
}

// FindRoomByPlayer resolves the room a player belongs to through the reverse index
func (c *Controller) FindRoomByPlayer(ctx context.Context, playerID model.PlayerID) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, err := c.storage.GetPlayerRoom(ctx, playerID)
	if err != nil {
		return nil, err
	}
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return room.Clone(), nil
}

// LeaveRoom removes a player from a room, deleting the room once it is empty.
// An unknown room or player is a no-op.
func (c *Controller) LeaveRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	idx := -1
	for i, p := range room.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return room.Clone(), false, nil
	}

	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	if err := c.storage.DeletePlayerRoom(ctx, playerID); err != nil {
		return nil, false, err
	}

	if len(room.Players) == 0 {
		if err := c.storage.DeleteRoom(ctx, code); err != nil {
			return nil, false, err
		}
		c.logger.Info("player left room",
			slog.String("room", string(code)),
			slog.String("player_id", string(playerID)),
			slog.Bool("room_deleted", true),
		)
		return nil, true, nil
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, false, err
	}

	c.logger.Info("player left room",
		slog.String("room", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Bool("room_deleted", false),
	)

	return room.Clone(), false, nil
}

// SetPlayerReady sets a player's ready flag
func (c *Controller) SetPlayerReady(ctx context.Context, code model.RoomCode, playerID model.PlayerID, isReady bool) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	player.IsReady = isReady

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player ready changed",
		slog.String("room", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Bool("ready", isReady),
	)

	return room.Clone(), nil
}

// StartGame moves the room into the playing state once at least two players are all ready
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if len(room.Players) < model.MinPlayers {
		return nil, model.ErrInsufficientPlayers
	}
	if !room.AllReady() {
		return nil, model.ErrNotAllReady
	}

	room.IsPlaying = true

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game started", slog.String("room", string(code)))

	return room.Clone(), nil
}

// UpdateScore adds points (negative to subtract) to the target player's score.
// A nil actorID means the target scored themselves.
//
// Two opposite edits of equal magnitude on different players inside the
// ConsolidationWindow are logged as one transfer from the player who lost
// points to the player who gained them.
func (c *Controller) UpdateScore(ctx context.Context, code model.RoomCode, targetID model.PlayerID, points float64, actorID *model.PlayerID) (*model.Room, error) {
	if err := validation.Points(points); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	target := room.GetPlayer(targetID)
	if target == nil {
		return nil, model.ErrPlayerNotFound
	}
	actor := target
	if actorID != nil {
		actor = room.GetPlayer(*actorID)
		if actor == nil {
			return nil, model.ErrActorNotFound
		}
	}

	now := c.clock.Now()

	// Undo checkpoint is the state before this edit
	room.PushHistory(now)

	target.Score += points

	if last := room.LastLog(); last != nil && canConsolidate(*last, targetID, points, now) {
		prev, _ := room.PopLog()
		room.PushLog(c.transferLog(prev, *target, points, now))
	} else {
		action := model.LogActionDeduct
		if points > 0 {
			action = model.LogActionAdd
		}
		room.PushLog(model.ActionLog{
			ID:         c.newLogID(),
			Timestamp:  now,
			Action:     action,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			TargetID:   target.ID,
			TargetName: target.Name,
			Amount:     math.Abs(points),
		})
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("score updated",
		slog.String("room", string(code)),
		slog.String("player_id", string(targetID)),
		slog.String("actor_id", string(actor.ID)),
		slog.Float64("points", points),
		slog.String("logged_as", string(room.LastLog().Action)),
	)

	return room.Clone(), nil
}

// canConsolidate reports whether an edit of points on targetID completes the
// opposite half of the last logged edit. Anything other than an add, a prior
// transfer included, pairs with a positive edit.
func canConsolidate(last model.ActionLog, targetID model.PlayerID, points float64, now time.Time) bool {
	if now.Sub(last.Timestamp) >= ConsolidationWindow {
		return false
	}
	if last.Amount != math.Abs(points) {
		return false
	}
	if last.TargetID == targetID {
		return false
	}
	if last.Action == model.LogActionAdd {
		return points < 0
	}
	return points > 0
}

func (c *Controller) transferLog(prev model.ActionLog, target model.Player, points float64, now time.Time) model.ActionLog {
	giverID, giverName := prev.TargetID, prev.TargetName
	receiverID, receiverName := target.ID, target.Name
	if points < 0 {
		giverID, giverName = target.ID, target.Name
		receiverID, receiverName = prev.TargetID, prev.TargetName
	}

	return model.ActionLog{
		ID:            c.newLogID(),
		Timestamp:     now,
		Action:        model.LogActionTransfer,
		ActorID:       giverID,
		ActorName:     giverName,
		TargetID:      receiverID,
		TargetName:    receiverName,
		Amount:        math.Abs(points),
		RecipientID:   receiverID,
		RecipientName: receiverName,
	}
}

func (c *Controller) newLogID() model.LogID {
	return model.LogID(c.random.ID(logIDPrefix))
}

// UndoScore rewinds player scores and ready flags to the most recent history snapshot.
// The action log is an audit trail and is left untouched.
func (c *Controller) UndoScore(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	snapshot, ok := room.PopHistory()
	if !ok {
		return nil, model.ErrNoHistory
	}

	restorePlayers(room, snapshot.Players)

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("score change undone",
		slog.String("room", string(code)),
		slog.Int("history_remaining", len(room.History)),
	)

	return room.Clone(), nil
}

// restorePlayers copies snapshot state onto current members. Players who left
// since the snapshot stay gone, so the player index never points at a ghost.
func restorePlayers(room *model.Room, snapshot []model.Player) {
	byID := make(map[model.PlayerID]model.Player, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}
	for i := range room.Players {
		if p, ok := byID[room.Players[i].ID]; ok {
			room.Players[i].Score = p.Score
			room.Players[i].IsReady = p.IsReady
		}
	}
}

// CleanupOldRooms deletes every room older than maxAge along with its index
// entries and returns how many rooms were removed. A non-positive maxAge
// means DefaultMaxAge.
func (c *Controller) CleanupOldRooms(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return 0, err
	}

	now := c.clock.Now()
	removed := 0
	for _, room := range rooms {
		if now.Sub(room.CreatedAt) <= maxAge {
			continue
		}
		for _, p := range room.Players {
			if err := c.storage.DeletePlayerRoom(ctx, p.ID); err != nil {
				return removed, err
			}
		}
		if err := c.storage.DeleteRoom(ctx, room.ID); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		c.logger.Info("cleaned up old rooms",
			slog.Int("removed", removed),
			slog.Duration("max_age", maxAge),
		)
	}

	return removed, nil
}

// RoomCount returns the number of live rooms
func (c *Controller) RoomCount(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage.CountRooms(ctx)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, maxPlayers int, playerName string) (*model.Room, model.PlayerID, error)
	CreateRoomWithCode(ctx context.Context, code model.RoomCode, maxPlayers int, playerName string) (*model.Room, model.PlayerID, error)
	JoinRoom(ctx context.Context, code model.RoomCode, playerName string) (*model.Room, model.PlayerID, error)
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	FindRoomByPlayer(ctx context.Context, playerID model.PlayerID) (*model.Room, error)
	LeaveRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, bool, error)
	SetPlayerReady(ctx context.Context, code model.RoomCode, playerID model.PlayerID, isReady bool) (*model.Room, error)
	StartGame(ctx context.Context, code model.RoomCode) (*model.Room, error)
	UpdateScore(ctx context.Context, code model.RoomCode, targetID model.PlayerID, points float64, actorID *model.PlayerID) (*model.Room, error)
	UndoScore(ctx context.Context, code model.RoomCode) (*model.Room, error)
	CleanupOldRooms(ctx context.Context, maxAge time.Duration) (int, error)
	RoomCount(ctx context.Context) (int, error)
}

var _ ControllerInterface = (*Controller)(nil)
