package round_ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dobbelen/internal/models"
)

const (
	// Key prefixes for Redis
	roundKeyPrefix        = "round:"
	gameRoundsKeyPrefix   = "game_rounds:"
	playerRoundsKeyPrefix = "player_rounds:"
	playerStatsKeyPrefix  = "player_stats:"
)

// Config holds configuration for the Redis round ledger repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed round ledger repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// involved returns the distinct players a record touches
func involved(record *models.RoundRecord) []string {
	seen := make(map[string]bool, 4)
	var ids []string
	for _, id := range []string{record.ChallengerID, record.BidderID, record.PenalizedPlayerID, record.TokenPlayerID} {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// AddRoundRecord adds a round record to the ledger
func (r *redisRepository) AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}

	record := input.Record
	if record.ID == "" {
		return errors.New("round record ID cannot be empty")
	}
	if record.GameID == "" {
		return errors.New("round record game ID cannot be empty")
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal round record: %w", err)
	}

	pipe := r.client.TxPipeline()

	pipe.Set(ctx, roundKeyPrefix+record.ID, recordJSON, 0)

	pipe.ZAdd(ctx, gameRoundsKeyPrefix+record.GameID, redis.Z{
		Score:  float64(record.RoundNumber),
		Member: record.ID,
	})

	for _, playerID := range involved(record) {
		pipe.ZAdd(ctx, playerRoundsKeyPrefix+playerID, redis.Z{
			Score:  float64(record.Timestamp.UnixNano()),
			Member: record.ID,
		})
	}

	if record.ChallengerID != "" {
		pipe.HIncrBy(ctx, playerStatsKeyPrefix+record.ChallengerID, "challenges", 1)
	}
	if record.PenalizedPlayerID != "" {
		pipe.HIncrBy(ctx, playerStatsKeyPrefix+record.PenalizedPlayerID, "dice_lost", 1)
	}
	if record.TokenPlayerID != "" {
		pipe.HIncrBy(ctx, playerStatsKeyPrefix+record.TokenPlayerID, "tokens_won", 1)
	}
	if record.EliminatedPlayerID != "" {
		pipe.HIncrBy(ctx, playerStatsKeyPrefix+record.EliminatedPlayerID, "eliminations", 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add round record: %w", err)
	}

	return nil
}

// fetch loads records by ID, keeping the order of ids and skipping missing ones
func (r *redisRepository) fetch(ctx context.Context, ids []string) ([]*models.RoundRecord, error) {
	records := make([]*models.RoundRecord, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, roundKeyPrefix+id)
	}

	// redis.Nil from a single GET is handled per command below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get round records: %w", err)
	}

	for i, cmd := range cmds {
		recordJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get round record %s: %w", ids[i], err)
		}

		var record models.RoundRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round record %s: %w", ids[i], err)
		}
		records = append(records, &record)
	}

	return records, nil
}

// GetRoundRecordsForGame retrieves all round records for a game
func (r *redisRepository) GetRoundRecordsForGame(ctx context.Context, input *GetRoundRecordsForGameInput) (*GetRoundRecordsForGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	ids, err := r.client.ZRange(ctx, gameRoundsKeyPrefix+input.GameID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round IDs for game: %w", err)
	}

	records, err := r.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &GetRoundRecordsForGameOutput{
		Records: records,
	}, nil
}

// GetRoundRecordsForPlayer retrieves all round records a player was involved in
func (r *redisRepository) GetRoundRecordsForPlayer(ctx context.Context, input *GetRoundRecordsForPlayerInput) (*GetRoundRecordsForPlayerOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	ids, err := r.client.ZRange(ctx, playerRoundsKeyPrefix+input.PlayerID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round IDs for player: %w", err)
	}

	records, err := r.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &GetRoundRecordsForPlayerOutput{
		Records: records,
	}, nil
}

// GetPlayerStats retrieves the running totals for a player
func (r *redisRepository) GetPlayerStats(ctx context.Context, input *GetPlayerStatsInput) (*GetPlayerStatsOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	fields, err := r.client.HGetAll(ctx, playerStatsKeyPrefix+input.PlayerID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	atoi := func(key string) int {
		n, _ := strconv.Atoi(fields[key])
		return n
	}

	return &GetPlayerStatsOutput{
		Challenges:   atoi("challenges"),
		DiceLost:     atoi("dice_lost"),
		TokensWon:    atoi("tokens_won"),
		Eliminations: atoi("eliminations"),
	}, nil
}

// DeleteRoundRecords deletes all round records for a game and unlinks them from player indexes
func (r *redisRepository) DeleteRoundRecords(ctx context.Context, input *DeleteRoundRecordsInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	gameOutput, err := r.GetRoundRecordsForGame(ctx, &GetRoundRecordsForGameInput{GameID: input.GameID})
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, record := range gameOutput.Records {
		pipe.Del(ctx, roundKeyPrefix+record.ID)
		for _, playerID := range involved(record) {
			pipe.ZRem(ctx, playerRoundsKeyPrefix+playerID, record.ID)
		}
	}
	pipe.Del(ctx, gameRoundsKeyPrefix+input.GameID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete round records: %w", err)
	}

	return nil
}
