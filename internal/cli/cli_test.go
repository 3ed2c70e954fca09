package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/countnum/internal/api"
	"github.com/mcoot/countnum/internal/factory"
	"github.com/mcoot/countnum/internal/testutil"
)

type CLISuite struct {
	suite.Suite
	app         *factory.TestApp
	server      *httptest.Server
	sessionFile string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		RoomController: s.app.RoomController,
		Clock:          s.app.Clock,
	}))
	s.sessionFile = filepath.Join(s.T().TempDir(), "session")
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

// run executes the CLI in-process with JSON output against the test server
func (s *CLISuite) run(sessionFile string, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--server", s.server.URL,
		"--session-file", sessionFile,
		"--output", "json",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) mustRun(sessionFile string, args ...string) string {
	out, err := s.run(sessionFile, args...)
	s.Require().NoError(err, "output: %s", out)
	return out
}

func decodeOutput[T any](s *CLISuite, out string) T {
	var v T
	s.Require().NoError(json.Unmarshal([]byte(out), &v), out)
	return v
}

func (s *CLISuite) TestHealth() {
	out := s.mustRun(s.sessionFile, "health")
	resp := decodeOutput[HealthResult](s, out)
	s.Equal("ok", resp.Status)
	s.Equal(0, resp.Rooms)
}

func (s *CLISuite) TestHealthUnreachableServer() {
	dead := httptest.NewServer(nil)
	url := dead.URL
	dead.Close()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--server", url, "--session-file", s.sessionFile, "health"})
	err := cmd.Execute()
	s.Require().Error(err)
	s.Contains(err.Error(), url)
}

func (s *CLISuite) TestCreateSavesSession() {
	s.app.MockRandom.QueueString("ABC123")

	out := s.mustRun(s.sessionFile, "room", "create", "--name", "Alice", "--max-players", "3")
	resp := decodeOutput[Membership](s, out)
	s.Equal("ABC123", resp.Room.ID)
	s.Equal(3, resp.Room.MaxPlayers)

	data, err := os.ReadFile(s.sessionFile)
	s.Require().NoError(err)
	var session Session
	s.Require().NoError(json.Unmarshal(data, &session))
	s.Equal("ABC123", session.RoomCode)
	s.Equal(resp.PlayerID, session.PlayerID)
	s.Equal("Alice", session.PlayerName)

	out = s.mustRun(s.sessionFile, "room", "whoami")
	s.Equal(session, decodeOutput[Session](s, out))
}

func (s *CLISuite) TestFullRound() {
	aliceSession := s.sessionFile
	bobSession := filepath.Join(s.T().TempDir(), "bob")

	s.app.MockRandom.QueueString("ABC123")
	alice := decodeOutput[Membership](s, s.mustRun(aliceSession, "room", "create", "--name", "Alice", "--max-players", "2"))
	bob := decodeOutput[Membership](s, s.mustRun(bobSession, "room", "join", "abc123", "--name", "Bob"))
	s.Equal("ABC123", bob.Room.ID)

	// Start is refused until both are ready
	_, err := s.run(aliceSession, "room", "start")
	s.Require().Error(err)
	s.Contains(err.Error(), "NOT_ALL_READY")

	s.mustRun(aliceSession, "room", "ready")
	s.mustRun(bobSession, "room", "ready")
	room := decodeOutput[RoomResult](s, s.mustRun(aliceSession, "room", "start")).Room
	s.True(room.IsPlaying)

	// Bob pays Alice 4 points: Alice credits herself, Bob debits himself
	s.mustRun(aliceSession, "room", "score", "--points", "4")
	room = decodeOutput[RoomResult](s, s.mustRun(bobSession, "room", "score", "--points", "-4")).Room
	s.Require().Len(room.ActionLogs, 1)
	s.Equal("transfer", room.ActionLogs[0].Action)
	s.Equal(bob.PlayerID, room.ActionLogs[0].ActorID)
	s.Equal(alice.PlayerID, room.ActionLogs[0].RecipientID)

	// Scoring someone else records you as the actor
	room = decodeOutput[RoomResult](s, s.mustRun(aliceSession, "room", "score", "--points", "1.5", "--player", bob.PlayerID)).Room
	last := room.ActionLogs[len(room.ActionLogs)-1]
	s.Equal(alice.PlayerID, last.ActorID)
	s.Equal(bob.PlayerID, last.TargetID)

	room = decodeOutput[RoomResult](s, s.mustRun(bobSession, "room", "undo")).Room
	s.Equal(4.0, room.Players[0].Score)
	s.Equal(-4.0, room.Players[1].Score)

	// Leaving clears the session
	left := decodeOutput[LeaveResult](s, s.mustRun(bobSession, "room", "leave"))
	s.False(left.WasDeleted)
	_, err = os.Stat(bobSession)
	s.True(os.IsNotExist(err))

	_, err = s.run(bobSession, "room", "undo")
	s.ErrorIs(err, ErrNoSession)

	left = decodeOutput[LeaveResult](s, s.mustRun(aliceSession, "room", "leave"))
	s.True(left.WasDeleted)
}

func (s *CLISuite) TestGetUnknownRoom() {
	_, err := s.run(s.sessionFile, "room", "get", "NOPE00")
	s.Require().Error(err)

	var reqErr *RequestError
	s.Require().ErrorAs(err, &reqErr)
	s.Equal(404, reqErr.Status)
	s.Equal("ROOM_NOT_FOUND", reqErr.Code)
}

func (s *CLISuite) TestWhoamiCheckFollowsServer() {
	s.app.MockRandom.QueueString("ABC123")
	s.mustRun(s.sessionFile, "room", "create", "--name", "Alice")

	out := s.mustRun(s.sessionFile, "room", "whoami", "--check")
	s.Equal("ABC123", decodeOutput[Session](s, out).RoomCode)

	// After leaving there is no membership to check
	s.mustRun(s.sessionFile, "room", "leave")
	out = s.mustRun(s.sessionFile, "room", "whoami", "--check")
	s.False(decodeOutput[Session](s, out).Active())
}

func (s *CLISuite) TestQRWritesPNG() {
	s.app.MockRandom.QueueString("ABC123")
	s.mustRun(s.sessionFile, "room", "create", "--name", "Alice")

	file := filepath.Join(s.T().TempDir(), "room.png")
	s.mustRun(s.sessionFile, "room", "qr", "--file", file)

	data, err := os.ReadFile(file)
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(data, []byte("\x89PNG")))
}

func (s *CLISuite) TestInvalidOutputFormat() {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--server", s.server.URL, "--output", "yaml", "health"})
	s.Error(cmd.Execute())
}

func (s *CLISuite) TestTextOutput() {
	s.app.MockRandom.QueueString("ABC123")
	s.mustRun(s.sessionFile, "room", "create", "--name", "Alice")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--server", s.server.URL, "--session-file", s.sessionFile, "room", "score", "--points", "2.5"})
	s.Require().NoError(cmd.Execute())

	text := out.String()
	s.Contains(text, "Room: ABC123 (waiting)")
	s.Contains(text, "Players (1/4):")
	s.Contains(text, "Alice +2.5")
}

func TestFormatPoints(t *testing.T) {
	cases := map[float64]string{
		3:     "3",
		-4:    "-4",
		2.5:   "2.5",
		0.126: "0.13",
		0:     "0",
	}
	for in, want := range cases {
		if got := formatPoints(in); got != want {
			t.Errorf("formatPoints(%v) = %q, want %q", in, got, want)
		}
	}
}
