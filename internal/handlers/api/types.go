package api

import (
	"time"

	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

type seatRequest struct {
	Name      string           `json:"name" binding:"required"`
	ActorKind models.ActorKind `json:"actorKind"`
}

type createGameRequest struct {
	Players []seatRequest `json:"players"`
	Lobby   bool          `json:"lobby"`
}

type createGameResponse struct {
	GameID    string                 `json:"gameId"`
	PlayerIDs []string               `json:"playerIds"`
	Snapshot  *synchronizer.Snapshot `json:"snapshot"`
}

type joinGameRequest struct {
	Name      string           `json:"name" binding:"required"`
	ActorKind models.ActorKind `json:"actorKind"`
}

type joinGameResponse struct {
	PlayerID string                 `json:"playerId"`
	Snapshot *synchronizer.Snapshot `json:"snapshot"`
}

// playerRequest carries the acting or viewing player
type playerRequest struct {
	PlayerID string `json:"playerId"`
}

type actionRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

type bidRequest struct {
	PlayerID  string `json:"playerId" binding:"required"`
	Quantity  int    `json:"quantity"`
	FaceValue int    `json:"faceValue"`
}

type snapshotResponse struct {
	Snapshot *synchronizer.Snapshot `json:"snapshot"`
}

type roundRecordResponse struct {
	RoundNumber        int                 `json:"roundNumber"`
	Action             models.ActionKind   `json:"action"`
	ChallengerID       string              `json:"challengerId"`
	BidderID           string              `json:"bidderId"`
	BidQuantity        int                 `json:"bidQuantity"`
	BidFaceValue       int                 `json:"bidFaceValue"`
	ActualCount        int                 `json:"actualCount"`
	Outcome            models.RoundOutcome `json:"outcome"`
	PenalizedPlayerID  string              `json:"penalizedPlayerId,omitempty"`
	TokenPlayerID      string              `json:"tokenPlayerId,omitempty"`
	EliminatedPlayerID string              `json:"eliminatedPlayerId,omitempty"`
	Timestamp          time.Time           `json:"timestamp"`
}

type historyResponse struct {
	GameID string                `json:"gameId"`
	Rounds []roundRecordResponse `json:"rounds"`
}

type gameSummaryResponse struct {
	GameID      string           `json:"gameId"`
	State       models.GameState `json:"state"`
	Players     int              `json:"players"`
	Active      int              `json:"active"`
	RoundNumber int              `json:"roundNumber"`
	WinnerID    string           `json:"winnerId,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type archivedGameResponse struct {
	GameID       string    `json:"gameId"`
	WinnerID     string    `json:"winnerId"`
	WinnerName   string    `json:"winnerName"`
	RoundsPlayed int       `json:"roundsPlayed"`
	EndedAt      time.Time `json:"endedAt"`
}

type listGamesResponse struct {
	Games    []gameSummaryResponse  `json:"games"`
	Archived []archivedGameResponse `json:"archived"`
}
