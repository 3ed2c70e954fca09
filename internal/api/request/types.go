package request

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	PlayerName string `json:"playerName"`
	MaxPlayers int    `json:"maxPlayers"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	PlayerName string `json:"playerName"`
}

// SetReadyRequest is the request body for toggling readiness
type SetReadyRequest struct {
	PlayerID string `json:"playerId"`
	IsReady  *bool  `json:"isReady"`
}

// UpdateScoreRequest is the request body for changing a player's score.
// ActorID names the player making the change when it differs from the target.
type UpdateScoreRequest struct {
	PlayerID string   `json:"playerId"`
	Points   *float64 `json:"points"`
	ActorID  string   `json:"actorId,omitempty"`
}

// LeaveRoomRequest is the request body for leaving a room
type LeaveRoomRequest struct {
	PlayerID string `json:"playerId"`
}
