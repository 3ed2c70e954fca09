package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/countnum/internal/model"
)

func TestPlayerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: "Alice", want: "Alice"},
		{name: "trimmed", input: "  Bob  ", want: "Bob"},
		{name: "exactly max", input: strings.Repeat("a", MaxNameLength), want: strings.Repeat("a", MaxNameLength)},
		{name: "multibyte counts characters", input: strings.Repeat("é", MaxNameLength), want: strings.Repeat("é", MaxNameLength)},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxNameLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlayerName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoomCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.RoomCode
		wantErr bool
	}{
		{name: "upper", input: "ABC123", want: "ABC123"},
		{name: "lower is uppercased", input: "abc123", want: "ABC123"},
		{name: "trimmed", input: " XYZ789 ", want: "XYZ789"},
		{name: "too short", input: "ABC12", wantErr: true},
		{name: "too long", input: "ABC1234", wantErr: true},
		{name: "symbols", input: "ABC-12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoomCode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaxPlayers(t *testing.T) {
	for n := model.MinPlayers; n <= model.MaxPlayers; n++ {
		assert.NoError(t, MaxPlayers(n))
	}
	assert.ErrorIs(t, MaxPlayers(1), model.ErrInvalidInput)
	assert.ErrorIs(t, MaxPlayers(11), model.ErrInvalidInput)
	assert.ErrorIs(t, MaxPlayers(0), model.ErrInvalidInput)
}

func TestPoints(t *testing.T) {
	assert.NoError(t, Points(5))
	assert.NoError(t, Points(-2.5))
	assert.NoError(t, Points(0))
	assert.ErrorIs(t, Points(math.NaN()), model.ErrInvalidInput)
	assert.ErrorIs(t, Points(math.Inf(1)), model.ErrInvalidInput)
	assert.ErrorIs(t, Points(math.Inf(-1)), model.ErrInvalidInput)
}
