package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrRoomCodeTaken       = errors.New("room code is already in use")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrInsufficientPlayers = errors.New("need at least 2 players to start")
	ErrNotAllReady         = errors.New("not all players are ready")
	ErrNoHistory           = errors.New("no history to undo")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found in room")
	ErrActorNotFound  = fmt.Errorf("actor: %w", ErrPlayerNotFound)
)
