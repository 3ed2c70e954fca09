package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	SessionFile string
	Output      string
	Verbose     bool

	// Session is the room membership remembered between invocations
	Session Session
}

// Session records which room and player this CLI is acting as
type Session struct {
	RoomCode   string `json:"roomCode"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Active reports whether the session points at a room membership
func (s Session) Active() bool {
	return s.RoomCode != "" && s.PlayerID != ""
}

// ErrNoSession is returned by commands that need a room membership
var ErrNoSession = errors.New("not in a room: run 'countnum room create' or 'countnum room join' first")

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("COUNTNUM_SERVER", "http://localhost:3000"),
		SessionFile: getEnvOrDefault("COUNTNUM_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
		Verbose:     false,
	}
}

// LoadSession loads the session from file; a missing file is an empty session
func (c *Config) LoadSession() error {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No session file is fine
		}
		return err
	}

	return json.Unmarshal(data, &c.Session)
}

// SaveSession saves the session to the session file
func (c *Config) SaveSession(s Session) error {
	c.Session = s

	dir := filepath.Dir(c.SessionFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, data, 0600)
}

// ClearSession forgets the current room membership
func (c *Config) ClearSession() error {
	c.Session = Session{}
	if err := os.Remove(c.SessionFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RequireSession returns the current session or ErrNoSession
func (c *Config) RequireSession() (Session, error) {
	if !c.Session.Active() {
		return Session{}, ErrNoSession
	}
	return c.Session, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".countnum/session"
	}
	return filepath.Join(home, ".countnum", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
