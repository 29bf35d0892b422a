package synchronizer

import (
	"time"

	"github.com/KirkDiggler/dobbelen/internal/models"
)

// PlayerView is a seat as observers see it
type PlayerView struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	DieCount   int              `json:"dieCount"`
	Dice       []int            `json:"dice,omitempty"`
	Eliminated bool             `json:"eliminated"`
	WinTokens  int              `json:"winTokens"`
	ActorKind  models.ActorKind `json:"actorKind"`
}

// BidView is a bid or challenge entry
type BidView struct {
	Quantity  int               `json:"quantity,omitempty"`
	FaceValue int               `json:"faceValue,omitempty"`
	PlayerID  string            `json:"playerId"`
	Kind      models.ActionKind `json:"kind"`
}

// HandView is a revealed hand
type HandView struct {
	PlayerID string `json:"playerId"`
	Dice     []int  `json:"dice"`
}

// LastActionView summarizes the most recent accepted action
type LastActionView struct {
	PlayerID           string            `json:"playerId"`
	Kind               models.ActionKind `json:"kind"`
	ActualCount        int               `json:"actualCount"`
	BidQuantity        int               `json:"bidQuantity"`
	BidFaceValue       int               `json:"bidFaceValue"`
	PenalizedPlayerID  string            `json:"penalizedPlayerId,omitempty"`
	TokenPlayerID      string            `json:"tokenPlayerId,omitempty"`
	EliminatedPlayerID string            `json:"eliminatedPlayerId,omitempty"`
}

// Snapshot is an immutable picture of a session after an accepted change.
// The canonical snapshot holds every hand privately; use ViewFor before
// handing it to an observer.
type Snapshot struct {
	SessionID     string              `json:"sessionId"`
	Version       uint64              `json:"version"`
	State         models.GameState    `json:"state"`
	Players       []PlayerView        `json:"players"`
	RoundNumber   int                 `json:"roundNumber"`
	RoundState    models.RoundState   `json:"roundState,omitempty"`
	RoundOutcome  models.RoundOutcome `json:"roundOutcome,omitempty"`
	CurrentBid    *BidView            `json:"currentBid"`
	PreviousBid   *BidView            `json:"previousBid"`
	Bids          []BidView           `json:"bids"`
	TotalDice     int                 `json:"totalDice"`
	DealerID      string              `json:"dealerId,omitempty"`
	TurnPlayerID  string              `json:"turnPlayerId,omitempty"`
	LastAction    *LastActionView     `json:"lastAction"`
	WinnerID      string              `json:"winnerId,omitempty"`
	CoolDown      bool                `json:"coolDown"`
	RevealedHands []HandView          `json:"revealedHands,omitempty"`
	UpdatedAt     time.Time           `json:"updatedAt"`

	hands map[string][]int
}

// FromGame builds the canonical snapshot of a game at version
func FromGame(g *models.Game, version uint64) *Snapshot {
	s := &Snapshot{
		SessionID: g.ID,
		Version:   version,
		State:     g.State,
		Players:   make([]PlayerView, 0, len(g.Players)),
		Bids:      []BidView{},
		TotalDice: g.TotalDice(),
		WinnerID:  g.WinnerID,
		CoolDown:  g.CoolDown,
		UpdatedAt: g.UpdatedAt,
		hands:     make(map[string][]int, len(g.Players)),
	}

	for _, p := range g.Players {
		s.Players = append(s.Players, PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			DieCount:   p.DieCount(),
			Eliminated: p.Eliminated,
			WinTokens:  p.WinTokens,
			ActorKind:  p.ActorKind,
		})
		if g.Round != nil {
			s.hands[p.ID] = append([]int(nil), p.Dice...)
		}
	}

	if r := g.Round; r != nil {
		s.RoundNumber = r.Number
		s.RoundState = r.State
		s.RoundOutcome = r.Outcome
		s.CurrentBid = bidView(r.CurrentBid)
		s.PreviousBid = bidView(r.PreviousBid)
		s.DealerID = r.DealerID
		if r.State == models.RoundStateAwaitingBid {
			s.TurnPlayerID = r.TurnPlayerID
		}
		for _, b := range r.Bids {
			s.Bids = append(s.Bids, *bidView(b))
		}
		for _, h := range r.RevealedHands {
			s.RevealedHands = append(s.RevealedHands, HandView{
				PlayerID: h.PlayerID,
				Dice:     append([]int(nil), h.Dice...),
			})
		}
	}

	if la := g.LastAction; la != nil {
		s.LastAction = &LastActionView{
			PlayerID:           la.PlayerID,
			Kind:               la.Kind,
			ActualCount:        la.ActualCount,
			BidQuantity:        la.BidQuantity,
			BidFaceValue:       la.BidFaceValue,
			PenalizedPlayerID:  la.PenalizedPlayerID,
			TokenPlayerID:      la.TokenPlayerID,
			EliminatedPlayerID: la.EliminatedPlayerID,
		}
	}

	return s
}

func bidView(b *models.Bid) *BidView {
	if b == nil {
		return nil
	}
	return &BidView{Quantity: b.Quantity, FaceValue: b.FaceValue, PlayerID: b.PlayerID, Kind: b.Kind}
}

// Revealed is true once the round's hands may be shown to everyone
func (s *Snapshot) Revealed() bool {
	return s.RoundState == models.RoundStateResolved
}

// ViewFor returns the snapshot as playerID may see it. Dice are shown for the
// viewer's own seat, and for every seat once the round has resolved. An empty
// playerID is a spectator.
func (s *Snapshot) ViewFor(playerID string) *Snapshot {
	view := *s
	view.hands = nil
	view.Players = make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		p.Dice = nil
		if s.Revealed() {
			p.Dice = s.revealedDice(p.ID)
		} else if playerID != "" && p.ID == playerID {
			p.Dice = append([]int(nil), s.hands[p.ID]...)
		}
		view.Players[i] = p
	}
	if !s.Revealed() {
		view.RevealedHands = nil
	}
	return &view
}

// revealedDice prefers the hand frozen at the challenge over the live one
func (s *Snapshot) revealedDice(playerID string) []int {
	for _, h := range s.RevealedHands {
		if h.PlayerID == playerID {
			return append([]int(nil), h.Dice...)
		}
	}
	return nil
}

// Hand returns a copy of a player's dice from the canonical snapshot
func (s *Snapshot) Hand(playerID string) []int {
	return append([]int(nil), s.hands[playerID]...)
}
