package models

// ActorKind identifies who drives a seat
type ActorKind string

const (
	// ActorKindHuman is a seat controlled by a person through a transport
	ActorKindHuman ActorKind = "human"

	// ActorKindScriptedEasy is a scripted seat using the easy policy
	ActorKindScriptedEasy ActorKind = "scripted_easy"

	// ActorKindScriptedMedium is a scripted seat using the medium policy
	ActorKindScriptedMedium ActorKind = "scripted_medium"
)

// IsScripted returns true if the seat is played by the engine itself
func (k ActorKind) IsScripted() bool {
	return k == ActorKindScriptedEasy || k == ActorKindScriptedMedium
}

// IsValid returns true for the known actor kinds
func (k ActorKind) IsValid() bool {
	return k == ActorKindHuman || k.IsScripted()
}

// Player represents a seat at the table
type Player struct {
	// ID is the unique identifier for the player within a game
	ID string

	// Name is the display name of the player
	Name string

	// Dice holds the current face values, hidden from other players
	Dice []int

	// Eliminated is set once the player runs out of dice and never cleared
	Eliminated bool

	// WinTokens is the number of tokens the player has collected
	WinTokens int

	// ActorKind tells whether the seat is human or scripted
	ActorKind ActorKind
}

// DieCount returns the number of dice the player still holds
func (p *Player) DieCount() int {
	return len(p.Dice)
}

// CountFace returns how many of the player's dice show the given face
func (p *Player) CountFace(face int) int {
	count := 0
	for _, d := range p.Dice {
		if d == face {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	clone := *p
	clone.Dice = append([]int(nil), p.Dice...)
	return &clone
}
