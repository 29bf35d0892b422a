package ai

// AIError is an error raised while building strategies
type AIError string

func (e AIError) Error() string {
	return string(e)
}

const (
	ErrNilConfig        AIError = "config cannot be nil"
	ErrNilDiceRoller    AIError = "dice roller cannot be nil"
	ErrUnknownActorKind AIError = "no strategy for actor kind"
	ErrStrategyNotFound AIError = "no strategy registered for player"
)
