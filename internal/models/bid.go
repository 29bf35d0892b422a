package models

// Face value bounds for a six-sided die
const (
	MinFace = 1
	MaxFace = 6
)

// ActionKind represents what a player did on their turn
type ActionKind string

const (
	// ActionKindRaise is a new bid on top of the standing one
	ActionKindRaise ActionKind = "RAISE"

	// ActionKindDoubt challenges the standing bid as too high
	ActionKindDoubt ActionKind = "DOUBT"

	// ActionKindSpotOn claims the standing bid is exactly right
	ActionKindSpotOn ActionKind = "SPOT_ON"
)

// IsChallenge returns true for the actions that end a round
func (k ActionKind) IsChallenge() bool {
	return k == ActionKindDoubt || k == ActionKindSpotOn
}

// Bid is a public claim that at least Quantity dice show FaceValue.
// Challenge entries in a round's history reuse the type with zero quantity and face.
type Bid struct {
	// Quantity is the number of dice claimed
	Quantity int

	// FaceValue is the face claimed, 1 through 6
	FaceValue int

	// PlayerID is the author of the bid
	PlayerID string

	// Kind tags the entry
	Kind ActionKind
}

// Clone returns a copy of the bid or nil
func (b *Bid) Clone() *Bid {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}
