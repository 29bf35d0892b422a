package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dobbelen/internal/models"
)

const (
	// Key prefixes for Redis
	gameRecordKeyPrefix = "game_record:"
	playerWinsKeyPrefix = "player_wins:"
	finishedGamesKey    = "finished_games"
)

// ErrGameNotFound is returned when a game record is not found
var ErrGameNotFound = errors.New("game not found")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game archive
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

// SaveGameRecord persists a finished game to Redis
func (r *redisRepository) SaveGameRecord(ctx context.Context, input *SaveGameRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}

	record := input.Record
	if record.GameID == "" {
		return errors.New("game record ID cannot be empty")
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	pipe := r.client.TxPipeline()

	pipe.Set(ctx, gameRecordKeyPrefix+record.GameID, recordJSON, 0)

	pipe.ZAdd(ctx, finishedGamesKey, redis.Z{
		Score:  float64(record.EndedAt.UnixNano()),
		Member: record.GameID,
	})

	if record.WinnerID != "" {
		pipe.ZAdd(ctx, playerWinsKeyPrefix+record.WinnerID, redis.Z{
			Score:  float64(record.EndedAt.UnixNano()),
			Member: record.GameID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save game record: %w", err)
	}

	return nil
}

// GetGameRecord retrieves an archived game by ID from Redis
func (r *redisRepository) GetGameRecord(ctx context.Context, input *GetGameRecordInput) (*models.GameRecord, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	recordJSON, err := r.client.Get(ctx, gameRecordKeyPrefix+input.GameID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game record: %w", err)
	}

	var record models.GameRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game record: %w", err)
	}

	return &record, nil
}

// ListGameRecords retrieves archived games, newest first
func (r *redisRepository) ListGameRecords(ctx context.Context, input *ListGameRecordsInput) (*ListGameRecordsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	ids, err := r.client.ZRevRange(ctx, finishedGamesKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list game records: %w", err)
	}

	records := make([]*models.GameRecord, 0, len(ids))
	if len(ids) == 0 {
		return &ListGameRecordsOutput{Records: records}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, gameRecordKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get game records: %w", err)
	}

	for i, cmd := range cmds {
		recordJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get game record %s: %w", ids[i], err)
		}

		var record models.GameRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game record %s: %w", ids[i], err)
		}
		records = append(records, &record)
	}

	return &ListGameRecordsOutput{Records: records}, nil
}

// GetWinsForPlayer retrieves the IDs of the games a player won, oldest first
func (r *redisRepository) GetWinsForPlayer(ctx context.Context, input *GetWinsForPlayerInput) (*GetWinsForPlayerOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	ids, err := r.client.ZRange(ctx, playerWinsKeyPrefix+input.PlayerID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get wins for player: %w", err)
	}

	return &GetWinsForPlayerOutput{GameIDs: ids}, nil
}

// DeleteGameRecord removes an archived game from Redis
func (r *redisRepository) DeleteGameRecord(ctx context.Context, input *DeleteGameRecordInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	record, err := r.GetGameRecord(ctx, &GetGameRecordInput{GameID: input.GameID})
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, gameRecordKeyPrefix+record.GameID)
	pipe.ZRem(ctx, finishedGamesKey, record.GameID)
	if record.WinnerID != "" {
		pipe.ZRem(ctx, playerWinsKeyPrefix+record.WinnerID, record.GameID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete game record: %w", err)
	}

	return nil
}
