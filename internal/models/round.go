package models

// RoundState represents where a round is in its lifecycle
type RoundState string

const (
	// RoundStateAwaitingBid accepts bids and challenges
	RoundStateAwaitingBid RoundState = "AWAITING_BID"

	// RoundStateResolving is held while a challenge is being counted
	RoundStateResolving RoundState = "RESOLVING"

	// RoundStateResolved is terminal for the round
	RoundStateResolved RoundState = "RESOLVED"
)

// RoundOutcome is the terminal result of a round
type RoundOutcome string

const (
	RoundOutcomeNone      RoundOutcome = "none"
	RoundOutcomeBidStood  RoundOutcome = "bid_stood"
	RoundOutcomeBidBroken RoundOutcome = "bid_broken"
)

// Hand is a player's dice frozen at the moment of a challenge
type Hand struct {
	PlayerID string
	Dice     []int
}

// Round holds the mutable state of a single hand of play
type Round struct {
	// Number increases by one every round within a game
	Number int

	// State is the round state machine position
	State RoundState

	// Bids is the ordered action history for this round
	Bids []*Bid

	// CurrentBid is the standing bid, nil before the first raise
	CurrentBid *Bid

	// PreviousBid is the bid the current one replaced
	PreviousBid *Bid

	// TurnPlayerID is the player expected to act next
	TurnPlayerID string

	// DealerID is the player who opened the round
	DealerID string

	// Outcome is set once the round resolves
	Outcome RoundOutcome

	// RevealedHands is the snapshot of all hands in play taken at the challenge
	RevealedHands []Hand

	// TotalDice is the number of dice in play when the round started
	TotalDice int
}

// Clone returns a deep copy of the round or nil
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Bids = make([]*Bid, len(r.Bids))
	for i, b := range r.Bids {
		clone.Bids[i] = b.Clone()
	}
	clone.CurrentBid = r.CurrentBid.Clone()
	clone.PreviousBid = r.PreviousBid.Clone()
	if r.RevealedHands != nil {
		clone.RevealedHands = make([]Hand, len(r.RevealedHands))
		for i, h := range r.RevealedHands {
			clone.RevealedHands[i] = Hand{PlayerID: h.PlayerID, Dice: append([]int(nil), h.Dice...)}
		}
	}
	return &clone
}
