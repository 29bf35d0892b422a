package game

import "github.com/KirkDiggler/dobbelen/internal/models"

type SaveGameRecordInput struct {
	Record *models.GameRecord
}

type GetGameRecordInput struct {
	GameID string
}

type ListGameRecordsInput struct {
	// Limit caps the number of records, 0 means all
	Limit int
}

type ListGameRecordsOutput struct {
	Records []*models.GameRecord
}

type GetWinsForPlayerInput struct {
	PlayerID string
}

type GetWinsForPlayerOutput struct {
	GameIDs []string
}

type DeleteGameRecordInput struct {
	GameID string
}
