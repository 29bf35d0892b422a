package rules

import "github.com/KirkDiggler/dobbelen/internal/models"

// Party names who a consequence lands on
type Party string

const (
	PartyNone       Party = "none"
	PartyChallenger Party = "challenger"
	PartyBidder     Party = "bidder"
)

// Consequence is what happens to one party for one resolution case
type Consequence struct {
	Target       Party
	DiceLost     int
	TokensGained int
}

// PenaltyTable maps each resolution case to its consequence
type PenaltyTable struct {
	// DoubtStood applies when a doubted bid had at least its quantity
	DoubtStood Consequence

	// DoubtBroken applies when a doubted bid was short
	DoubtBroken Consequence

	// SpotOnExact applies when a spot-on call matched the quantity exactly
	SpotOnExact Consequence

	// SpotOnMiss applies to any other spot-on call
	SpotOnMiss Consequence
}

// StandardPenalties is the rule set the game is played with
var StandardPenalties = PenaltyTable{
	DoubtStood:  Consequence{Target: PartyChallenger, DiceLost: 1},
	DoubtBroken: Consequence{Target: PartyBidder, DiceLost: 1},
	SpotOnExact: Consequence{Target: PartyChallenger, TokensGained: 1},
	SpotOnMiss:  Consequence{Target: PartyChallenger, DiceLost: 1},
}

// Outcome is the result of resolving a challenge
type Outcome struct {
	// ActualCount is the number of dice showing the bid face
	ActualCount int

	// BidStood is true when the challenged claim held
	BidStood bool

	// Consequence is the table entry that applied
	Consequence Consequence

	// LoserPlayerID loses Consequence.DiceLost dice, empty if nobody does
	LoserPlayerID string

	// TokenPlayerID gains Consequence.TokensGained tokens, empty if nobody does
	TokenPlayerID string
}

// CountFace counts dice showing face across hands
func CountFace(hands []models.Hand, face int) int {
	count := 0
	for _, h := range hands {
		for _, d := range h.Dice {
			if d == face {
				count++
			}
		}
	}
	return count
}

// FaceCounts returns the count of every face, indexed by face value
func FaceCounts(hands []models.Hand) [models.MaxFace + 1]int {
	var counts [models.MaxFace + 1]int
	for _, h := range hands {
		for _, d := range h.Dice {
			if d >= models.MinFace && d <= models.MaxFace {
				counts[d]++
			}
		}
	}
	return counts
}

// Resolve settles a DOUBT or SPOT_ON against bid using the frozen hands
func Resolve(action models.ActionKind, bid *models.Bid, hands []models.Hand, challengerID string, table PenaltyTable) (*Outcome, error) {
	if !action.IsChallenge() {
		return nil, ErrNotAChallenge
	}
	if bid == nil {
		return nil, ErrNoStandingBid
	}
	if challengerID == "" {
		return nil, ErrMissingChallenger
	}

	actual := CountFace(hands, bid.FaceValue)
	out := &Outcome{ActualCount: actual}

	switch action {
	case models.ActionKindDoubt:
		out.BidStood = actual >= bid.Quantity
		if out.BidStood {
			out.Consequence = table.DoubtStood
		} else {
			out.Consequence = table.DoubtBroken
		}
	case models.ActionKindSpotOn:
		out.BidStood = actual == bid.Quantity
		if out.BidStood {
			out.Consequence = table.SpotOnExact
		} else {
			out.Consequence = table.SpotOnMiss
		}
	}

	var target string
	switch out.Consequence.Target {
	case PartyChallenger:
		target = challengerID
	case PartyBidder:
		target = bid.PlayerID
	}
	if out.Consequence.DiceLost > 0 {
		out.LoserPlayerID = target
	}
	if out.Consequence.TokensGained > 0 {
		out.TokenPlayerID = target
	}

	return out, nil
}
