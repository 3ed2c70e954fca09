package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room and scoring commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomReadyCmd())
	cmd.AddCommand(newRoomStartCmd())
	cmd.AddCommand(newRoomScoreCmd())
	cmd.AddCommand(newRoomUndoCmd())
	cmd.AddCommand(newRoomQRCmd())
	cmd.AddCommand(newRoomWhoamiCmd())

	return cmd
}

func roomPath(code string, parts ...string) string {
	p := "/api/rooms/" + url.PathEscape(strings.ToUpper(code))
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// codeArg returns the code given on the command line, or the session's room
func codeArg(args []string) (string, error) {
	if len(args) > 0 {
		return strings.ToUpper(args[0]), nil
	}
	s, err := cfg.RequireSession()
	if err != nil {
		return "", err
	}
	return s.RoomCode, nil
}

func newRoomCreateCmd() *cobra.Command {
	var name string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room and join it",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"playerName": name,
				"maxPlayers": maxPlayers,
			}

			var result Membership

			if err := client.Post("/api/rooms", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(Session{RoomCode: result.Room.ID, PlayerID: result.PlayerID, PlayerName: name}); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name (required)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 4, "Maximum number of players (2-10)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [code]",
		Short: "Show a room (defaults to your current room)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := codeArg(args)
			if err != nil {
				return err
			}

			var result RoomResult

			if err := client.Get(roomPath(code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])

			var result Membership

			if err := client.Post(roomPath(code, "join"), map[string]string{"playerName": name}, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(Session{RoomCode: result.Room.ID, PlayerID: result.PlayerID, PlayerName: name}); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave your current room",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.RequireSession()
			if err != nil {
				return err
			}

			var result LeaveResult

			if err := client.Delete(roomPath(s.RoomCode, "leave"), map[string]string{"playerId": s.PlayerID}, &result); err != nil {
				return err
			}

			if err := cfg.ClearSession(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newRoomReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "Mark yourself ready (or not ready with --not)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.RequireSession()
			if err != nil {
				return err
			}

			req := map[string]any{
				"playerId": s.PlayerID,
				"isReady":  !notReady,
			}

			var result RoomResult

			if err := client.Put(roomPath(s.RoomCode, "ready"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "not", false, "Mark yourself not ready")

	return cmd
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the round once everyone is ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.RequireSession()
			if err != nil {
				return err
			}

			var result RoomResult

			if err := client.Post(roomPath(s.RoomCode, "start"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newRoomScoreCmd() *cobra.Command {
	var points float64
	var target string

	cmd := &cobra.Command{
		Use:   "score --points <n> [--player <id>]",
		Short: "Add or subtract points",
		Long: `Add points to a player, or subtract them with a negative value.

Without --player the points apply to you. With --player you are recorded as
the one making the change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.RequireSession()
			if err != nil {
				return err
			}

			req := map[string]any{
				"playerId": s.PlayerID,
				"points":   points,
			}
			if target != "" && target != s.PlayerID {
				req["playerId"] = target
				req["actorId"] = s.PlayerID
			}

			var result RoomResult

			if err := client.Put(roomPath(s.RoomCode, "score"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&points, "points", 0, "Points to add; negative to subtract (required)")
	cmd.Flags().StringVar(&target, "player", "", "Player id to score (default: you)")
	_ = cmd.MarkFlagRequired("points")

	return cmd
}

func newRoomUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last score change in your room",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cfg.RequireSession()
			if err != nil {
				return err
			}

			var result RoomResult

			if err := client.Post(roomPath(s.RoomCode, "undo"), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newRoomQRCmd() *cobra.Command {
	var file string
	var size int

	cmd := &cobra.Command{
		Use:   "qr [code] --file <path>",
		Short: "Save a QR code for joining a room as PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := codeArg(args)
			if err != nil {
				return err
			}

			path := roomPath(code, "qr")
			if size > 0 {
				path += fmt.Sprintf("?size=%d", size)
			}

			png, err := client.GetRaw(path)
			if err != nil {
				return err
			}

			if err := os.WriteFile(file, png, 0644); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage(fmt.Sprintf("QR code for room %s written to %s", code, file))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Output PNG path (required)")
	cmd.Flags().IntVar(&size, "size", 0, "Image size in pixels (default: server default)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newRoomWhoamiCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the room and player this CLI is acting as",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := cfg.Session
			out := NewOutput(cfg.Output, cmd.OutOrStdout())

			if !check || !s.Active() {
				out.Print(s)
				return nil
			}

			// Reconnect check: ask the server which room the player is in
			var result RoomResult
			if err := client.Get("/api/players/"+url.PathEscape(s.PlayerID)+"/room", &result); err != nil {
				return err
			}
			if result.Room.ID != s.RoomCode {
				s.RoomCode = result.Room.ID
				if err := cfg.SaveSession(s); err != nil {
					return fmt.Errorf("failed to save session: %w", err)
				}
			}

			out.Print(s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Confirm membership with the server")

	return cmd
}
