package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/dobbelen/internal/repositories/game Repository

import (
	"context"

	"github.com/KirkDiggler/dobbelen/internal/models"
)

// Repository defines the interface for the finished-game archive
type Repository interface {
	// SaveGameRecord archives a finished game
	SaveGameRecord(ctx context.Context, input *SaveGameRecordInput) error

	// GetGameRecord retrieves an archived game by ID
	GetGameRecord(ctx context.Context, input *GetGameRecordInput) (*models.GameRecord, error)

	// ListGameRecords retrieves archived games, most recently ended first
	ListGameRecords(ctx context.Context, input *ListGameRecordsInput) (*ListGameRecordsOutput, error)

	// GetWinsForPlayer retrieves the games a player won
	GetWinsForPlayer(ctx context.Context, input *GetWinsForPlayerInput) (*GetWinsForPlayerOutput, error)

	// DeleteGameRecord removes an archived game
	DeleteGameRecord(ctx context.Context, input *DeleteGameRecordInput) error
}
