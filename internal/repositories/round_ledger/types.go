package round_ledger

import "github.com/KirkDiggler/dobbelen/internal/models"

// AddRoundRecordInput contains parameters for adding a round record
type AddRoundRecordInput struct {
	Record *models.RoundRecord
}

// GetRoundRecordsForGameInput contains parameters for retrieving round records for a game
type GetRoundRecordsForGameInput struct {
	GameID string
}

// GetRoundRecordsForGameOutput contains the round records of a game
type GetRoundRecordsForGameOutput struct {
	Records []*models.RoundRecord
}

// GetRoundRecordsForPlayerInput contains parameters for retrieving round records for a player
type GetRoundRecordsForPlayerInput struct {
	PlayerID string
}

// GetRoundRecordsForPlayerOutput contains the round records of a player
type GetRoundRecordsForPlayerOutput struct {
	Records []*models.RoundRecord
}

// GetPlayerStatsInput contains parameters for retrieving player stats
type GetPlayerStatsInput struct {
	PlayerID string
}

// GetPlayerStatsOutput contains the running totals for a player
type GetPlayerStatsOutput struct {
	Challenges   int
	DiceLost     int
	TokensWon    int
	Eliminations int
}

// DeleteRoundRecordsInput contains parameters for deleting the records of a game
type DeleteRoundRecordsInput struct {
	GameID string
}
