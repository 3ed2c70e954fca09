package model

// PlayerID uniquely identifies a player across every room for the lifetime of the process
type PlayerID string

// Player represents a participant in a room
type Player struct {
	ID      PlayerID
	Name    string
	Score   float64
	IsReady bool
}

// ClonePlayers returns an independent copy of the given players
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	copy(out, players)
	return out
}
