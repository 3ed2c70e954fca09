package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// recentLogLines is how many action log entries text output shows
const recentLogLines = 5

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case RoomResult:
		o.printRoom(v.Room)
	case Membership:
		o.printRoom(v.Room)
		o.printf("You are %s\n", v.PlayerID)
	case LeaveResult:
		o.printLeaveResult(v)
	case Session:
		o.printSession(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// Player response type (matches API)
type Player struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	IsReady bool    `json:"isReady"`
}

// ActionLog response type
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

// RoomHistory response type
type RoomHistory struct {
	Timestamp int64    `json:"timestamp"`
	Players   []Player `json:"players"`
}

// Room response type
type Room struct {
	ID         string        `json:"id"`
	MaxPlayers int           `json:"maxPlayers"`
	Players    []Player      `json:"players"`
	IsPlaying  bool          `json:"isPlaying"`
	CreatedAt  int64         `json:"createdAt"`
	History    []RoomHistory `json:"history"`
	ActionLogs []ActionLog   `json:"actionLogs"`
}

// RoomResult wraps a room
type RoomResult struct {
	Room Room `json:"room"`
}

// Membership is returned when creating or joining a room
type Membership struct {
	Room     Room   `json:"room"`
	PlayerID string `json:"playerId"`
}

// LeaveResult response type
type LeaveResult struct {
	Room       *Room `json:"room"`
	WasDeleted bool  `json:"wasDeleted"`
}

// HealthResult response type
type HealthResult struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Rooms     int    `json:"rooms"`
}

func (o *Output) printRoom(r Room) {
	state := "waiting"
	if r.IsPlaying {
		state = "playing"
	}
	o.printf("Room: %s (%s)\n", r.ID, state)
	o.printf("Players (%d/%d):\n", len(r.Players), r.MaxPlayers)
	for _, p := range r.Players {
		ready := ""
		if !r.IsPlaying && p.IsReady {
			ready = " [ready]"
		}
		o.printf("  - %-20s %8s  (%s)%s\n", p.Name, formatPoints(p.Score), p.ID, ready)
	}

	if len(r.ActionLogs) == 0 {
		return
	}
	o.printf("Recent activity:\n")
	start := max(0, len(r.ActionLogs)-recentLogLines)
	for i := len(r.ActionLogs) - 1; i >= start; i-- {
		o.printf("  %s\n", describeLog(r.ActionLogs[i]))
	}
}

func describeLog(l ActionLog) string {
	at := time.UnixMilli(l.Timestamp).Format("15:04:05")
	amount := formatPoints(l.Amount)
	switch l.Action {
	case "transfer":
		return fmt.Sprintf("%s %s gave %s to %s", at, l.ActorName, amount, l.RecipientName)
	case "add":
		if l.ActorID == l.TargetID {
			return fmt.Sprintf("%s %s +%s", at, l.TargetName, amount)
		}
		return fmt.Sprintf("%s %s gave %s +%s", at, l.ActorName, l.TargetName, amount)
	default:
		if l.ActorID == l.TargetID {
			return fmt.Sprintf("%s %s -%s", at, l.TargetName, amount)
		}
		return fmt.Sprintf("%s %s took %s from %s", at, l.ActorName, amount, l.TargetName)
	}
}

// formatPoints drops the fraction for whole numbers
func formatPoints(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func (o *Output) printLeaveResult(l LeaveResult) {
	switch {
	case l.WasDeleted:
		o.printf("Left room; it was closed as the last player left\n")
	case l.Room != nil:
		o.printf("Left room %s\n", l.Room.ID)
	default:
		o.printf("Room no longer exists\n")
	}
}

func (o *Output) printSession(s Session) {
	if !s.Active() {
		o.printf("Not in a room\n")
		return
	}
	o.printf("Room: %s\n", s.RoomCode)
	o.printf("Player: %s (%s)\n", s.PlayerName, s.PlayerID)
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
	o.printf("Rooms: %d\n", h.Rooms)
	if h.Timestamp != "" {
		o.printf("Server time: %s\n", h.Timestamp)
	}
}
