package models

import (
	"time"
)

// GameState represents the lifecycle state of a game
type GameState string

const (
	// GameStateWaiting indicates a game is waiting for players to join
	GameStateWaiting GameState = "WAITING"

	// GameStateInProgress indicates a round is being played
	GameStateInProgress GameState = "IN_PROGRESS"

	// GameStateRoundEnded indicates the last round resolved and the next has not started
	GameStateRoundEnded GameState = "ROUND_ENDED"

	// GameStateGameEnded indicates a game winner has been named
	GameStateGameEnded GameState = "GAME_ENDED"
)

func (s GameState) IsWaiting() bool    { return s == GameStateWaiting }
func (s GameState) IsInProgress() bool { return s == GameStateInProgress }
func (s GameState) IsRoundEnded() bool { return s == GameStateRoundEnded }
func (s GameState) IsGameEnded() bool  { return s == GameStateGameEnded }

// LastAction summarizes the most recent turn for display and audit
type LastAction struct {
	// PlayerID is the actor
	PlayerID string

	// Kind is what the actor did
	Kind ActionKind

	// ActualCount is the number of matching dice, set for challenges
	ActualCount int

	// BidQuantity and BidFaceValue describe the bid that was raised or challenged
	BidQuantity  int
	BidFaceValue int

	// PenalizedPlayerID lost a die, empty when nobody did
	PenalizedPlayerID string

	// TokenPlayerID gained a token, empty when nobody did
	TokenPlayerID string

	// EliminatedPlayerID ran out of dice as a result of this action
	EliminatedPlayerID string
}

// Game is the aggregate for a session across rounds
type Game struct {
	// ID is the unique identifier for the game, also used as session id
	ID string

	// Players in seating order
	Players []*Player

	// Round is the current or last played round, nil before the first
	Round *Round

	// State is the lifecycle state of the game
	State GameState

	// DealerIndex points into Players, -1 before the first round
	DealerIndex int

	// WinnerID is set once and never cleared
	WinnerID string

	// LastAction describes the most recent accepted action
	LastAction *LastAction

	// CoolDown suppresses new rounds while observers render a reveal
	CoolDown bool

	// StartingDice is the number of dice each player starts with
	StartingDice int

	// WinningTokens is the token count that wins the game outright
	WinningTokens int

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time
}

// PlayerByID returns the player with the given ID or nil
func (g *Game) PlayerByID(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// SeatOf returns the seat index of a player or -1
func (g *Game) SeatOf(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// ActivePlayers returns the non-eliminated players in seating order
func (g *Game) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Eliminated {
			active = append(active, p)
		}
	}
	return active
}

// TotalDice returns the number of dice held by non-eliminated players
func (g *Game) TotalDice() int {
	total := 0
	for _, p := range g.Players {
		if !p.Eliminated {
			total += p.DieCount()
		}
	}
	return total
}

// Dealer returns the current dealer or nil
func (g *Game) Dealer() *Player {
	if g.DealerIndex < 0 || g.DealerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.DealerIndex]
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	clone := *g
	clone.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		clone.Players[i] = p.Clone()
	}
	clone.Round = g.Round.Clone()
	if g.LastAction != nil {
		la := *g.LastAction
		clone.LastAction = &la
	}
	return &clone
}
