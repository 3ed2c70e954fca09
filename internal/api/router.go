package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/countnum/internal/api/handler"
	"github.com/mcoot/countnum/internal/api/middleware"
	"github.com/mcoot/countnum/internal/dependencies/clock"
	basemiddleware "github.com/mcoot/countnum/internal/middleware"
	"github.com/mcoot/countnum/internal/services/room"
	"github.com/mcoot/countnum/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController room.ControllerInterface
	Clock          clock.Clock

	// CORSOrigins lists browser origins allowed to call the API
	CORSOrigins []string
	// JoinURL is the client page encoded into room QR codes (optional)
	JoinURL string

	// RateCounter enables per-client rate limiting when non-nil
	RateCounter storage.Counter
	RateLimit   basemiddleware.RateLimitConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	healthHandler := handler.NewHealthHandler(cfg.RoomController, cfg.Clock)
	qrHandler := handler.NewQRHandler(cfg.RoomController, cfg.JoinURL)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.RateLimit(cfg.RateCounter, cfg.RateLimit, cfg.Logger))

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Room routes
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/ready", roomHandler.SetReady).Methods(http.MethodPut)
	rooms.HandleFunc("/{code}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/score", roomHandler.UpdateScore).Methods(http.MethodPut)
	rooms.HandleFunc("/{code}/undo", roomHandler.Undo).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodDelete)
	rooms.HandleFunc("/{code}/qr", qrHandler.Get).Methods(http.MethodGet)

	// Reconnect lookup
	api.HandleFunc("/players/{playerId}/room", roomHandler.FindByPlayer).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests are answered before route matching
	return basemiddleware.CORS(cfg.CORSOrigins)(r)
}
