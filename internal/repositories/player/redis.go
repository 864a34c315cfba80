package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/matchbot/internal/models"
)

const (
	// Key prefixes for Redis
	playerKeyPrefix       = "player:"
	playerIndexKey        = "players"
	ratingUpdateKeyPrefix = "rating_update:"

	// ratingUpdateGuardTTL bounds how long an applied update blocks a
	// retry with the same UpdateID; retries happen within minutes
	ratingUpdateGuardTTL = 24 * time.Hour
)

// ErrPlayerNotFound is returned when a player is not found
var ErrPlayerNotFound = errors.New("player not found")

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player repository
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

// GetOrCreatePlayer retrieves a player, creating them with default
// rating values on first reference. A changed display name is written
// back before returning.
func (r *redisRepository) GetOrCreatePlayer(ctx context.Context, input *GetOrCreatePlayerInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	existing, err := r.GetPlayer(ctx, &GetPlayerInput{
		PlayerID: input.PlayerID,
	})
	if err != nil && !errors.Is(err, ErrPlayerNotFound) {
		return nil, err
	}

	if errors.Is(err, ErrPlayerNotFound) {
		created := &models.Player{
			ID:          input.PlayerID,
			DisplayName: input.DisplayName,
			Rating:      models.DefaultRating,
			Deviation:   models.DefaultDeviation,
		}

		if err := r.SavePlayer(ctx, &SavePlayerInput{Player: created}); err != nil {
			return nil, err
		}

		return created, nil
	}

	// Refresh the display name if it has changed
	if input.DisplayName != "" && existing.DisplayName != input.DisplayName {
		existing.DisplayName = input.DisplayName
		if err := r.SavePlayer(ctx, &SavePlayerInput{Player: existing}); err != nil {
			return nil, err
		}
	}

	return existing, nil
}

// GetPlayer retrieves a player by ID from Redis
func (r *redisRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	playerKey := fmt.Sprintf("%s%s", playerKeyPrefix, input.PlayerID)
	playerJSON, err := r.client.Get(ctx, playerKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var player models.Player
	if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &player, nil
}

// SavePlayer persists a player to Redis
func (r *redisRepository) SavePlayer(ctx context.Context, input *SavePlayerInput) error {
	if input == nil || input.Player == nil {
		return errors.New("input and player cannot be nil")
	}

	player := input.Player

	if player.ID == "" {
		return errors.New("player ID cannot be empty")
	}

	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	// Save the player and register them in the index set together
	pipe := r.client.Pipeline()
	playerKey := fmt.Sprintf("%s%s", playerKeyPrefix, player.ID)
	pipe.Set(ctx, playerKey, playerJSON, 0)
	pipe.SAdd(ctx, playerIndexKey, player.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}

	return nil
}

// ListPlayers retrieves every known player from Redis
func (r *redisRepository) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	playerIDs, err := r.client.SMembers(ctx, playerIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list player IDs: %w", err)
	}

	if len(playerIDs) == 0 {
		return &ListPlayersOutput{
			Players: []*models.Player{},
		}, nil
	}

	// Fetch all player records in one round trip
	pipe := r.client.Pipeline()
	playerCommands := make(map[string]*redis.StringCmd, len(playerIDs))

	for _, playerID := range playerIDs {
		playerKey := fmt.Sprintf("%s%s", playerKeyPrefix, playerID)
		playerCommands[playerID] = pipe.Get(ctx, playerKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	players := make([]*models.Player, 0, len(playerIDs))
	for playerID, cmd := range playerCommands {
		playerJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Index entry without a record; skip it
				continue
			}
			return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
		}

		var player models.Player
		if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player %s: %w", playerID, err)
		}

		players = append(players, &player)
	}

	return &ListPlayersOutput{
		Players: players,
	}, nil
}

// ApplyRatingDeltas applies one match's worth of rating changes. All
// writes, including the per-update guard key, go through a single
// transaction so a reported result never half-applies. A retry
// carrying an UpdateID that already landed is a no-op that returns the
// current records, which keeps retrying a failed report safe.
// Deviation is clamped at zero.
func (r *redisRepository) ApplyRatingDeltas(ctx context.Context, input *ApplyRatingDeltasInput) (*ApplyRatingDeltasOutput, error) {
	if input == nil || len(input.Deltas) == 0 {
		return nil, errors.New("input and deltas cannot be empty")
	}

	guardKey := ""
	if input.UpdateID != "" {
		guardKey = fmt.Sprintf("%s%s", ratingUpdateKeyPrefix, input.UpdateID)

		applied, err := r.client.Exists(ctx, guardKey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check rating update guard: %w", err)
		}

		if applied > 0 {
			return r.currentPlayers(ctx, input.Deltas)
		}
	}

	updated := make([]*models.Player, 0, len(input.Deltas))
	for _, delta := range input.Deltas {
		player, err := r.GetPlayer(ctx, &GetPlayerInput{
			PlayerID: delta.PlayerID,
		})
		if err != nil {
			return nil, err
		}

		player.Rating += delta.RatingDelta
		player.Deviation += delta.DeviationDelta
		if player.Deviation < 0 {
			player.Deviation = 0
		}

		updated = append(updated, player)
	}

	pipe := r.client.TxPipeline()
	if guardKey != "" {
		pipe.SetNX(ctx, guardKey, "1", ratingUpdateGuardTTL)
	}
	for _, player := range updated {
		playerJSON, err := json.Marshal(player)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal player %s: %w", player.ID, err)
		}

		playerKey := fmt.Sprintf("%s%s", playerKeyPrefix, player.ID)
		pipe.Set(ctx, playerKey, playerJSON, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to apply rating deltas: %w", err)
	}

	return &ApplyRatingDeltasOutput{
		Players: updated,
	}, nil
}

// currentPlayers loads the records named by a delta set in order,
// without changing anything.
func (r *redisRepository) currentPlayers(ctx context.Context, deltas []RatingDelta) (*ApplyRatingDeltasOutput, error) {
	players := make([]*models.Player, 0, len(deltas))
	for _, delta := range deltas {
		player, err := r.GetPlayer(ctx, &GetPlayerInput{
			PlayerID: delta.PlayerID,
		})
		if err != nil {
			return nil, err
		}

		players = append(players, player)
	}

	return &ApplyRatingDeltasOutput{
		Players: players,
	}, nil
}

// SetRating overrides a player's rating, leaving deviation untouched
func (r *redisRepository) SetRating(ctx context.Context, input *SetRatingInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	player, err := r.GetPlayer(ctx, &GetPlayerInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return nil, err
	}

	player.Rating = input.Rating

	if err := r.SavePlayer(ctx, &SavePlayerInput{Player: player}); err != nil {
		return nil, err
	}

	return player, nil
}
