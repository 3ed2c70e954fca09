package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/countnum/internal/api/apierr"
	"github.com/mcoot/countnum/internal/model"
)

const maxBodyBytes = 64 << 10

// WriteError writes err as a JSON error body with its mapped status
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError reports a malformed or incomplete request body
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// roomCode reads the {code} path variable; codes are case-insensitive
func roomCode(r *http.Request) model.RoomCode {
	return model.RoomCode(strings.ToUpper(strings.TrimSpace(mux.Vars(r)["code"])))
}

func playerIDParam(r *http.Request) model.PlayerID {
	return model.PlayerID(strings.TrimSpace(mux.Vars(r)["playerId"]))
}

// decode reads a JSON body into v. Bodies over 64KiB are rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}
