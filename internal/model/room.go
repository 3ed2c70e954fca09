package model

import "time"

// RoomCode is the short code players share to join a room
type RoomCode string

const (
	// MinPlayers is the smallest allowed room capacity
	MinPlayers = 2
	// MaxPlayers is the largest allowed room capacity
	MaxPlayers = 10

	// HistoryCapacity bounds the undo history of a room
	HistoryCapacity = 50
	// ActionLogCapacity bounds the activity log of a room
	ActionLogCapacity = 100
)

// Room is a group of players sharing one scoreboard
type Room struct {
	ID         RoomCode
	MaxPlayers int
	Players    []Player // Join order
	IsPlaying  bool
	CreatedAt  time.Time
	History    []RoomHistory // Oldest first
	ActionLogs []ActionLog   // Oldest first
}

// RoomHistory is an undo checkpoint holding a value copy of the players
type RoomHistory struct {
	Timestamp time.Time
	Players   []Player
}

// GetPlayer returns the player with the given ID, or nil if not found
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// IsFull returns true if no more players can join
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// AllReady returns true if every player has marked themselves ready
func (r *Room) AllReady() bool {
	for _, p := range r.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// LastLog returns the most recent action log entry, or nil if the log is empty
func (r *Room) LastLog() *ActionLog {
	if len(r.ActionLogs) == 0 {
		return nil
	}
	return &r.ActionLogs[len(r.ActionLogs)-1]
}

// PushLog appends an entry, evicting the oldest entries beyond ActionLogCapacity
func (r *Room) PushLog(entry ActionLog) {
	r.ActionLogs = append(r.ActionLogs, entry)
	if over := len(r.ActionLogs) - ActionLogCapacity; over > 0 {
		r.ActionLogs = append([]ActionLog(nil), r.ActionLogs[over:]...)
	}
}

// PopLog removes and returns the most recent action log entry
func (r *Room) PopLog() (ActionLog, bool) {
	if len(r.ActionLogs) == 0 {
		return ActionLog{}, false
	}
	last := r.ActionLogs[len(r.ActionLogs)-1]
	r.ActionLogs = r.ActionLogs[:len(r.ActionLogs)-1]
	return last, true
}

// PushHistory stores a copy of the current players, evicting the oldest
// snapshots beyond HistoryCapacity
func (r *Room) PushHistory(at time.Time) {
	r.History = append(r.History, RoomHistory{
		Timestamp: at,
		Players:   ClonePlayers(r.Players),
	})
	if over := len(r.History) - HistoryCapacity; over > 0 {
		r.History = append([]RoomHistory(nil), r.History[over:]...)
	}
}

// PopHistory removes and returns the most recent snapshot
func (r *Room) PopHistory() (RoomHistory, bool) {
	if len(r.History) == 0 {
		return RoomHistory{}, false
	}
	last := r.History[len(r.History)-1]
	r.History = r.History[:len(r.History)-1]
	return last, true
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	c := *r
	c.Players = ClonePlayers(r.Players)
	if r.History != nil {
		c.History = make([]RoomHistory, len(r.History))
		for i, h := range r.History {
			c.History[i] = RoomHistory{Timestamp: h.Timestamp, Players: ClonePlayers(h.Players)}
		}
	}
	if r.ActionLogs != nil {
		c.ActionLogs = make([]ActionLog, len(r.ActionLogs))
		copy(c.ActionLogs, r.ActionLogs)
	}
	return &c
}
