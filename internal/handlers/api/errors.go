package api

import (
	"errors"
	"net/http"

	"github.com/KirkDiggler/dobbelen/internal/services/game"
)

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	var gameErr game.GameError
	if !errors.As(err, &gameErr) {
		return http.StatusInternalServerError
	}

	switch gameErr {
	case game.ErrSessionNotFound, game.ErrPlayerNotFound:
		return http.StatusNotFound
	case game.ErrNotYourTurn, game.ErrPlayerEliminated:
		return http.StatusForbidden
	case game.ErrInvalidBid:
		return http.StatusUnprocessableEntity
	case game.ErrInvalidPlayerName, game.ErrInvalidActorKind, game.ErrNilInput:
		return http.StatusBadRequest
	case game.ErrRoundNotAwaitingBid, game.ErrGameAlreadyEnded, game.ErrInvalidGameState,
		game.ErrNotEnoughPlayers, game.ErrGameFull, game.ErrPlayerAlreadyInGame:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}
