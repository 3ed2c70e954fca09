package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/skip2/go-qrcode"

	"github.com/mcoot/countnum/internal/api/response"
	"github.com/mcoot/countnum/internal/services/room"
)

const (
	defaultQRSize = 320 // mobile-friendly size
	minQRSize     = 64
	maxQRSize     = 1024
)

// QRHandler renders join links for rooms as PNG QR codes
type QRHandler struct {
	rooms   room.ControllerInterface
	joinURL string
}

// NewQRHandler creates a QR handler. joinURL is the client page players
// open to join; when empty the request's own origin is used.
func NewQRHandler(rooms room.ControllerInterface, joinURL string) *QRHandler {
	return &QRHandler{rooms: rooms, joinURL: joinURL}
}

// Get handles GET /api/rooms/{code}/qr
func (h *QRHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)
	if _, err := h.rooms.GetRoom(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			WriteError(w, NewInvalidRequestError("size must be between 64 and 1024"))
			return
		}
		size = n
	}

	link, err := h.JoinLink(r, string(code))
	if err != nil {
		WriteError(w, err)
		return
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.PNG(w, png)
}

// JoinLink builds the URL encoded into a room's QR code
func (h *QRHandler) JoinLink(r *http.Request, code string) (string, error) {
	base := h.joinURL
	if base == "" {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host + "/"
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("room", code)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
