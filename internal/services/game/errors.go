package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Command rejections. A rejected command leaves the session unchanged.
const (
	ErrInvalidBid          GameError = "bid does not beat the standing bid"
	ErrNotYourTurn         GameError = "not your turn"
	ErrPlayerEliminated    GameError = "player is eliminated"
	ErrSessionNotFound     GameError = "session not found"
	ErrRoundNotAwaitingBid GameError = "round is not awaiting a bid"
	ErrGameAlreadyEnded    GameError = "game already ended"
	ErrPlayerNotFound      GameError = "player not found"
	ErrPlayerAlreadyInGame GameError = "player already in game"
	ErrInvalidGameState    GameError = "invalid game state"
	ErrNotEnoughPlayers    GameError = "at least two players are required"
	ErrGameFull            GameError = "game is at maximum capacity"
	ErrInvalidPlayerName   GameError = "player name cannot be empty"
	ErrInvalidActorKind    GameError = "unknown actor kind"
	ErrNilInput            GameError = "input cannot be nil"
)

// Construction errors
const (
	ErrNilConfig          GameError = "config cannot be nil"
	ErrNilGameRepo        GameError = "game repository cannot be nil"
	ErrNilRoundLedgerRepo GameError = "round ledger repository cannot be nil"
	ErrNilDiceRoller      GameError = "dice roller cannot be nil"
	ErrNilClock           GameError = "clock cannot be nil"
	ErrNilUUIDGenerator   GameError = "UUID generator cannot be nil"
	ErrNilLogger          GameError = "logger cannot be nil"
	ErrInvalidThinkDelay  GameError = "minimum think delay cannot exceed the maximum"
)
