package response

import (
	"github.com/mcoot/countnum/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	IsReady bool    `json:"isReady"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:      string(p.ID),
		Name:    p.Name,
		Score:   p.Score,
		IsReady: p.IsReady,
	}
}

func playersFromModel(players []model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// RoomHistory is an undo checkpoint; Timestamp is in Unix milliseconds
type RoomHistory struct {
	Timestamp int64    `json:"timestamp"`
	Players   []Player `json:"players"`
}

// ActionLog is an activity entry; Timestamp is in Unix milliseconds
type ActionLog struct {
	ID            string  `json:"id"`
	Timestamp     int64   `json:"timestamp"`
	Action        string  `json:"action"`
	ActorID       string  `json:"actorId"`
	ActorName     string  `json:"actorName"`
	TargetID      string  `json:"targetId"`
	TargetName    string  `json:"targetName"`
	Amount        float64 `json:"amount"`
	RecipientID   string  `json:"recipientId,omitempty"`
	RecipientName string  `json:"recipientName,omitempty"`
}

// ActionLogFromModel converts model.ActionLog
func ActionLogFromModel(l model.ActionLog) ActionLog {
	return ActionLog{
		ID:            string(l.ID),
		Timestamp:     l.Timestamp.UnixMilli(),
		Action:        string(l.Action),
		ActorID:       string(l.ActorID),
		ActorName:     l.ActorName,
		TargetID:      string(l.TargetID),
		TargetName:    l.TargetName,
		Amount:        l.Amount,
		RecipientID:   string(l.RecipientID),
		RecipientName: l.RecipientName,
	}
}

// Room represents a room in API responses
type Room struct {
	ID         string        `json:"id"`
	MaxPlayers int           `json:"maxPlayers"`
	Players    []Player      `json:"players"`
	IsPlaying  bool          `json:"isPlaying"`
	CreatedAt  int64         `json:"createdAt"`
	History    []RoomHistory `json:"history"`
	ActionLogs []ActionLog   `json:"actionLogs"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	history := make([]RoomHistory, len(r.History))
	for i, h := range r.History {
		history[i] = RoomHistory{
			Timestamp: h.Timestamp.UnixMilli(),
			Players:   playersFromModel(h.Players),
		}
	}

	logs := make([]ActionLog, len(r.ActionLogs))
	for i, l := range r.ActionLogs {
		logs[i] = ActionLogFromModel(l)
	}

	return Room{
		ID:         string(r.ID),
		MaxPlayers: r.MaxPlayers,
		Players:    playersFromModel(r.Players),
		IsPlaying:  r.IsPlaying,
		CreatedAt:  r.CreatedAt.UnixMilli(),
		History:    history,
		ActionLogs: logs,
	}
}

// RoomResponse wraps a single room
type RoomResponse struct {
	Room Room `json:"room"`
}

// NewRoomResponse creates a RoomResponse from a room
func NewRoomResponse(r *model.Room) RoomResponse {
	return RoomResponse{Room: RoomFromModel(r)}
}

// MembershipResponse is returned when a player is added to a room
type MembershipResponse struct {
	Room     Room   `json:"room"`
	PlayerID string `json:"playerId"`
}

// LeaveResponse is returned after leaving; Room is null when the room was
// deleted or did not exist
type LeaveResponse struct {
	Room       *Room `json:"room"`
	WasDeleted bool  `json:"wasDeleted"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Rooms     int    `json:"rooms"`
}
