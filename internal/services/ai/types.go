package ai

import "github.com/KirkDiggler/dobbelen/internal/models"

// Observation is what a scripted seat is allowed to see when it acts
type Observation struct {
	// PlayerID is the acting seat
	PlayerID string

	// Hand is the acting seat's own dice
	Hand []int

	// CurrentBid is the standing bid, nil when opening the round
	CurrentBid *models.Bid

	// TotalDice is the number of dice in play
	TotalDice int

	// ActivePlayers is the number of non-eliminated seats
	ActivePlayers int
}

// Decision is the action a strategy picked
type Decision struct {
	Action    models.ActionKind
	Quantity  int
	FaceValue int

	// Reason is a short tag for logs
	Reason string
}

func raise(q, f int, reason string) *Decision {
	return &Decision{Action: models.ActionKindRaise, Quantity: q, FaceValue: f, Reason: reason}
}

func doubt(reason string) *Decision {
	return &Decision{Action: models.ActionKindDoubt, Reason: reason}
}

func spotOn(reason string) *Decision {
	return &Decision{Action: models.ActionKindSpotOn, Reason: reason}
}

func faceCounts(hand []int) [models.MaxFace + 1]int {
	var counts [models.MaxFace + 1]int
	for _, d := range hand {
		if d >= models.MinFace && d <= models.MaxFace {
			counts[d]++
		}
	}
	return counts
}
