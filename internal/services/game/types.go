package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/common/clock"
	"github.com/KirkDiggler/dobbelen/internal/common/uuid"
	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/models"
	gameRepo "github.com/KirkDiggler/dobbelen/internal/repositories/game"
	roundLedgerRepo "github.com/KirkDiggler/dobbelen/internal/repositories/round_ledger"
	"github.com/KirkDiggler/dobbelen/internal/rules"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

// Defaults applied by NewService to zero config values
const (
	DefaultMaxPlayers    = 6
	DefaultStartingDice  = 5
	DefaultWinningTokens = 7
	DefaultCoolDown      = 5 * time.Second
	DefaultMinThinkDelay = 1 * time.Second
	DefaultMaxThinkDelay = 3 * time.Second
	DefaultAuditTimeout  = 5 * time.Second
	DefaultAuditBuffer   = 256
)

// Config holds configuration for the game service
type Config struct {
	// MaxPlayers is the number of seats per game
	MaxPlayers int

	// StartingDice is the number of dice each player starts with
	StartingDice int

	// WinningTokens is the token count that wins the game outright
	WinningTokens int

	// CoolDown is how long a resolved round stays revealed before it can be continued
	CoolDown time.Duration

	// AutoContinue starts the next round this long after the cool-down lifted, 0 disables it
	AutoContinue time.Duration

	// MinThinkDelay and MaxThinkDelay bound the scripted thinking delay
	MinThinkDelay time.Duration
	MaxThinkDelay time.Duration

	// Penalties is the resolution rule set, nil means rules.StandardPenalties
	Penalties *rules.PenaltyTable

	// SubscriberBuffer is the per-observer channel depth
	SubscriberBuffer int

	// EndedRetention is how long a finished game stays in memory, 0 keeps it forever
	EndedRetention time.Duration

	// IdleTimeout evicts a game nothing happened in for this long, 0 disables it
	IdleTimeout time.Duration

	// AuditTimeout bounds each ledger and archive write
	AuditTimeout time.Duration

	// AuditBuffer is how many writes may queue before new ones are dropped
	AuditBuffer int

	// Repository dependencies
	GameRepo        gameRepo.Repository
	RoundLedgerRepo roundLedgerRepo.Repository

	// Service dependencies
	DiceRoller    dice.Roller
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        *zap.Logger
}

// SeatInput describes a player to seat
type SeatInput struct {
	// Name is the display name, unique within the game
	Name string

	// ActorKind defaults to human
	ActorKind models.ActorKind
}

// CreateGameInput contains parameters for creating a new game
type CreateGameInput struct {
	// Players in seating order
	Players []SeatInput

	// Lobby allows creating a game with fewer than two players to be filled by JoinGame
	Lobby bool
}

// CreateGameOutput contains the result of creating a new game
type CreateGameOutput struct {
	// GameID is the unique identifier for the created game
	GameID string

	// PlayerIDs in seating order
	PlayerIDs []string

	// Snapshot is the spectator view of the new session
	Snapshot *synchronizer.Snapshot
}

// JoinGameInput contains parameters for joining a game
type JoinGameInput struct {
	GameID     string
	PlayerName string
	ActorKind  models.ActorKind
}

// JoinGameOutput contains the result of joining a game
type JoinGameOutput struct {
	// PlayerID is the new player's identifier
	PlayerID string

	// Snapshot is the new player's view
	Snapshot *synchronizer.Snapshot
}

// StartRoundInput contains parameters for starting a round
type StartRoundInput struct {
	GameID string

	// PlayerID selects the view returned, empty for a spectator
	PlayerID string
}

// StartRoundOutput contains the result of starting a round
type StartRoundOutput struct {
	Snapshot *synchronizer.Snapshot
}

// BidInput contains parameters for placing a bid
type BidInput struct {
	GameID    string
	PlayerID  string
	Quantity  int
	FaceValue int
}

// BidOutput contains the result of placing a bid
type BidOutput struct {
	Snapshot *synchronizer.Snapshot
}

// DoubtInput contains parameters for doubting the standing bid
type DoubtInput struct {
	GameID   string
	PlayerID string
}

// DoubtOutput contains the result of a doubt
type DoubtOutput struct {
	Snapshot *synchronizer.Snapshot
}

// SpotOnInput contains parameters for calling spot-on
type SpotOnInput struct {
	GameID   string
	PlayerID string
}

// SpotOnOutput contains the result of a spot-on call
type SpotOnOutput struct {
	Snapshot *synchronizer.Snapshot
}

// ContinueInput contains parameters for continuing to the next round
type ContinueInput struct {
	GameID string

	// PlayerID selects the view returned, empty for a spectator
	PlayerID string
}

// ContinueOutput contains the result of continuing
type ContinueOutput struct {
	Snapshot *synchronizer.Snapshot
}

// GetSnapshotInput contains parameters for pulling a snapshot
type GetSnapshotInput struct {
	GameID string

	// PlayerID selects the view, empty for a spectator
	PlayerID string
}

// GetSnapshotOutput contains the pulled snapshot
type GetSnapshotOutput struct {
	Snapshot *synchronizer.Snapshot
}

// SubscribeInput contains parameters for subscribing to a session
type SubscribeInput struct {
	GameID string
}

// SubscribeOutput contains the new subscription. Snapshots received on it are
// canonical and must be passed through ViewFor before delivery.
type SubscribeOutput struct {
	Subscription *synchronizer.Subscription
}

// UnsubscribeInput contains parameters for dropping a subscription
type UnsubscribeInput struct {
	GameID         string
	SubscriptionID string
}

// GetHistoryInput contains parameters for reading the round ledger
type GetHistoryInput struct {
	GameID string
}

// GetHistoryOutput contains the resolved rounds of a game in order
type GetHistoryOutput struct {
	Rounds []*models.RoundRecord
}

// ListGamesInput contains parameters for listing games
type ListGamesInput struct {
	// ArchiveLimit caps the number of finished games read from the archive, 0 skips the archive
	ArchiveLimit int
}

// GameSummary describes a live session
type GameSummary struct {
	GameID      string
	State       models.GameState
	Players     int
	Active      int
	RoundNumber int
	WinnerID    string
	UpdatedAt   time.Time
}

// ListGamesOutput contains live sessions and archived games
type ListGamesOutput struct {
	Games    []GameSummary
	Archived []*models.GameRecord
}
