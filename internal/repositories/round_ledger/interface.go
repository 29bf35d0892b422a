package round_ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/dobbelen/internal/repositories/round_ledger Repository

import (
	"context"
)

// Repository defines the interface for the resolved-round ledger
type Repository interface {
	// AddRoundRecord appends a resolved round to the ledger
	AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error

	// GetRoundRecordsForGame retrieves every resolved round of a game in round order
	GetRoundRecordsForGame(ctx context.Context, input *GetRoundRecordsForGameInput) (*GetRoundRecordsForGameOutput, error)

	// GetRoundRecordsForPlayer retrieves the rounds a player took part in as challenger, bidder or target
	GetRoundRecordsForPlayer(ctx context.Context, input *GetRoundRecordsForPlayerInput) (*GetRoundRecordsForPlayerOutput, error)

	// GetPlayerStats retrieves the running totals for a player
	GetPlayerStats(ctx context.Context, input *GetPlayerStatsInput) (*GetPlayerStatsOutput, error)

	// DeleteRoundRecords deletes all records for a game
	DeleteRoundRecords(ctx context.Context, input *DeleteRoundRecordsInput) error
}
