package handler

import (
	"net/http"

	"github.com/mcoot/countnum/internal/api/response"
	"github.com/mcoot/countnum/internal/dependencies/clock"
	"github.com/mcoot/countnum/internal/services/room"
)

// isoMillis matches the timestamp format browsers produce with toISOString
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// HealthHandler reports liveness and the number of live rooms
type HealthHandler struct {
	rooms room.ControllerInterface
	clock clock.Clock
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(rooms room.ControllerInterface, clk clock.Clock) *HealthHandler {
	return &HealthHandler{rooms: rooms, clock: clk}
}

// Get handles GET /api/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	count, err := h.rooms.RoomCount(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:    "ok",
		Timestamp: h.clock.Now().UTC().Format(isoMillis),
		Rooms:     count,
	})
}
