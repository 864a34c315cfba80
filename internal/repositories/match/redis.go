package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/matchbot/internal/models"
)

const (
	// Key layout in Redis
	matchLogKey            = "matches"
	playerMatchesKeyPrefix = "player_matches:"
)

// Config holds configuration for the Redis match repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed match repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// AppendMatch appends a match record to the global log and to every
// participant's history list. LPUSH keeps each history list in
// most-recent-first order. Records are never updated or removed.
func (r *redisRepository) AppendMatch(ctx context.Context, input *AppendMatchInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}

	record := input.Record

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal match record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, matchLogKey, recordJSON)

	for _, playerID := range append(append([]string{}, record.Team1IDs...), record.Team2IDs...) {
		playerMatchesKey := fmt.Sprintf("%s%s", playerMatchesKeyPrefix, playerID)
		pipe.LPush(ctx, playerMatchesKey, recordJSON)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append match record: %w", err)
	}

	return nil
}

// GetPlayerMatches retrieves a player's matches, most recent first
func (r *redisRepository) GetPlayerMatches(ctx context.Context, input *GetPlayerMatchesInput) (*GetPlayerMatchesOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	playerMatchesKey := fmt.Sprintf("%s%s", playerMatchesKeyPrefix, input.PlayerID)
	entries, err := r.client.LRange(ctx, playerMatchesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get matches for player: %w", err)
	}

	records := make([]*models.MatchRecord, 0, len(entries))
	for _, entry := range entries {
		var record models.MatchRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match record: %w", err)
		}

		records = append(records, &record)
	}

	return &GetPlayerMatchesOutput{
		Records: records,
	}, nil
}
