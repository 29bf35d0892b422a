package models

import (
	"time"
)

// RoundRecord is a ledger row written after every resolved round
type RoundRecord struct {
	// ID is the unique identifier for the record
	ID string

	// GameID is the game the round belongs to
	GameID string

	// RoundNumber is the number of the resolved round
	RoundNumber int

	// Action is the challenge that ended the round
	Action ActionKind

	// ChallengerID called the challenge
	ChallengerID string

	// BidderID authored the challenged bid
	BidderID string

	// BidQuantity and BidFaceValue describe the challenged bid
	BidQuantity  int
	BidFaceValue int

	// ActualCount is the number of dice that matched the face
	ActualCount int

	// Outcome tells whether the bid stood
	Outcome RoundOutcome

	// PenalizedPlayerID lost a die
	PenalizedPlayerID string

	// TokenPlayerID gained a token
	TokenPlayerID string

	// EliminatedPlayerID ran out of dice
	EliminatedPlayerID string

	// Timestamp is when the round resolved
	Timestamp time.Time
}

// PlayerResult is a player's final standing in a finished game
type PlayerResult struct {
	PlayerID   string
	PlayerName string
	ActorKind  ActorKind
	WinTokens  int
	DieCount   int
	Eliminated bool
}

// GameRecord archives a finished game
type GameRecord struct {
	// GameID is the finished game
	GameID string

	// WinnerID is the game winner
	WinnerID string

	// WinnerName is the display name of the winner
	WinnerName string

	// RoundsPlayed is the number of the last round
	RoundsPlayed int

	// Results holds every seat in seating order
	Results []PlayerResult

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// EndedAt is when the winner was named
	EndedAt time.Time
}
