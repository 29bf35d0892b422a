package game

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/dobbelen/internal/services/game Service

// Service defines the interface for game operations.
// Every command either applies completely and returns the caller's view of
// the new snapshot, or returns a GameError and changes nothing.
type Service interface {
	// CreateGame seats the given players in a new session
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// JoinGame adds a player to a session that has not started
	JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error)

	// StartRound deals the first round, or the next one once the cool-down lifted
	StartRound(ctx context.Context, input *StartRoundInput) (*StartRoundOutput, error)

	// Bid raises the standing bid
	Bid(ctx context.Context, input *BidInput) (*BidOutput, error)

	// Doubt challenges the standing bid as too high
	Doubt(ctx context.Context, input *DoubtInput) (*DoubtOutput, error)

	// SpotOn challenges the standing bid as exactly right
	SpotOn(ctx context.Context, input *SpotOnInput) (*SpotOnOutput, error)

	// Continue starts the next round after a resolved one
	Continue(ctx context.Context, input *ContinueInput) (*ContinueOutput, error)

	// GetSnapshot returns the latest snapshot as a player may see it
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)

	// Subscribe registers a push observer on a session
	Subscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error)

	// Unsubscribe drops a push observer
	Unsubscribe(ctx context.Context, input *UnsubscribeInput) error

	// GetHistory returns the resolved rounds of a game
	GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error)

	// ListGames returns live sessions and recently finished games
	ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error)
}
