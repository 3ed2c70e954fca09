package model

import "time"

// LogID uniquely identifies an action log entry
type LogID string

// LogAction is the kind of score change an ActionLog records
type LogAction string

const (
	LogActionAdd      LogAction = "add"
	LogActionDeduct   LogAction = "deduct"
	LogActionTransfer LogAction = "transfer" // merged add/deduct pair
)

// ActionLog is a human-readable record of a score change.
// Amount is always the non-negative magnitude; the direction lives in Action.
type ActionLog struct {
	ID         LogID
	Timestamp  time.Time
	Action     LogAction
	ActorID    PlayerID
	ActorName  string
	TargetID   PlayerID
	TargetName string
	Amount     float64

	// Set for transfers only
	RecipientID   PlayerID
	RecipientName string
}
