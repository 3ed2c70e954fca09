package handler

import (
	"net/http"

	"github.com/mcoot/countnum/internal/api/request"
	"github.com/mcoot/countnum/internal/api/response"
	"github.com/mcoot/countnum/internal/model"
	"github.com/mcoot/countnum/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms room.ControllerInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms room.ControllerInterface) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create handles POST /api/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	created, playerID, err := h.rooms.CreateRoom(r.Context(), req.MaxPlayers, req.PlayerName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MembershipResponse{
		Room:     response.RoomFromModel(created),
		PlayerID: string(playerID),
	})
}

// Get handles GET /api/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.rooms.GetRoom(r.Context(), roomCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewRoomResponse(found))
}

// Join handles POST /api/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRoomRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	joined, playerID, err := h.rooms.JoinRoom(r.Context(), roomCode(r), req.PlayerName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MembershipResponse{
		Room:     response.RoomFromModel(joined),
		PlayerID: string(playerID),
	})
}

// SetReady handles PUT /api/rooms/{code}/ready
func (h *RoomHandler) SetReady(w http.ResponseWriter, r *http.Request) {
	var req request.SetReadyRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.PlayerID == "" || req.IsReady == nil {
		WriteError(w, NewInvalidRequestError("playerId and isReady are required"))
		return
	}

	updated, err := h.rooms.SetPlayerReady(r.Context(), roomCode(r), model.PlayerID(req.PlayerID), *req.IsReady)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewRoomResponse(updated))
}

// Start handles POST /api/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	started, err := h.rooms.StartGame(r.Context(), roomCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewRoomResponse(started))
}

// UpdateScore handles PUT /api/rooms/{code}/score
func (h *RoomHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateScoreRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.PlayerID == "" || req.Points == nil {
		WriteError(w, NewInvalidRequestError("playerId and points are required"))
		return
	}

	var actorID *model.PlayerID
	if req.ActorID != "" {
		id := model.PlayerID(req.ActorID)
		actorID = &id
	}

	updated, err := h.rooms.UpdateScore(r.Context(), roomCode(r), model.PlayerID(req.PlayerID), *req.Points, actorID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewRoomResponse(updated))
}

// Undo handles POST /api/rooms/{code}/undo
func (h *RoomHandler) Undo(w http.ResponseWriter, r *http.Request) {
	updated, err := h.rooms.UndoScore(r.Context(), roomCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewRoomResponse(updated))
}

// Leave handles DELETE /api/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req request.LeaveRoomRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return
	}

	left, wasDeleted, err := h.rooms.LeaveRoom(r.Context(), roomCode(r), model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.LeaveResponse{WasDeleted: wasDeleted}
	if left != nil {
		rr := response.RoomFromModel(left)
		resp.Room = &rr
	}
	response.JSON(w, http.StatusOK, resp)
}

// FindByPlayer handles GET /api/players/{playerId}/room
func (h *RoomHandler) FindByPlayer(w http.ResponseWriter, r *http.Request) {
	found, err := h.rooms.FindRoomByPlayer(r.Context(), playerIDParam(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewRoomResponse(found))
}
