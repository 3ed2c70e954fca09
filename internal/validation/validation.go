// Package validation holds the input checks applied before a request reaches the room controller.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/countnum/internal/model"
)

const (
	// MaxNameLength is the longest allowed player name, in characters
	MaxNameLength = 20
	// RoomCodeLength is the exact length of a room code
	RoomCodeLength = 6
)

// PlayerName trims the name and checks it is 1-20 characters long
func PlayerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: player name is required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return "", fmt.Errorf("%w: player name must be at most %d characters", model.ErrInvalidInput, MaxNameLength)
	}
	return trimmed, nil
}

// RoomCode normalises a code to upper case and checks it is 6 alphanumeric characters
func RoomCode(code string) (model.RoomCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != RoomCodeLength {
		return "", fmt.Errorf("%w: room code must be exactly %d characters", model.ErrInvalidInput, RoomCodeLength)
	}
	for _, c := range normalized {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", fmt.Errorf("%w: room code must be alphanumeric", model.ErrInvalidInput)
		}
	}
	return model.RoomCode(normalized), nil
}

// MaxPlayers checks a room capacity is within [2, 10]
func MaxPlayers(count int) error {
	if count < model.MinPlayers || count > model.MaxPlayers {
		return fmt.Errorf("%w: max players must be between %d and %d", model.ErrInvalidInput, model.MinPlayers, model.MaxPlayers)
	}
	return nil
}

// Points checks a score delta is a finite number. Negative values subtract.
func Points(points float64) error {
	if math.IsNaN(points) || math.IsInf(points, 0) {
		return fmt.Errorf("%w: points must be a finite number", model.ErrInvalidInput)
	}
	return nil
}
