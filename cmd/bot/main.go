package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/matchbot/internal/common/clock"
	"github.com/KirkDiggler/matchbot/internal/common/shuffle"
	"github.com/KirkDiggler/matchbot/internal/common/uuid"
	"github.com/KirkDiggler/matchbot/internal/handlers/discord"
	matchRepo "github.com/KirkDiggler/matchbot/internal/repositories/match"
	playerRepo "github.com/KirkDiggler/matchbot/internal/repositories/player"
	"github.com/KirkDiggler/matchbot/internal/services/matchmaking"
)

// sweepInterval is how often idle sessions are reclaimed
const sweepInterval = time.Minute

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	// Initialize repositories
	players, err := playerRepo.NewRedis(&playerRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("failed to create player repository", zap.Error(err))
	}

	matches, err := matchRepo.NewRedis(&matchRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("failed to create match repository", zap.Error(err))
	}

	// Initialize the matchmaking service
	matchService, err := matchmaking.New(&matchmaking.Config{
		PlayerRepo:    players,
		MatchRepo:     matches,
		Clock:         &clock.DefaultClock{},
		Shuffler:      shuffle.New(&shuffle.Config{}),
		UUIDGenerator: uuid.New(),
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("failed to create matchmaking service", zap.Error(err))
	}

	// Reclaim idle sessions in the background
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go matchService.Run(sweepCtx, sweepInterval)

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		logger.Fatal("DISCORD_TOKEN environment variable is required")
	}

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:         discordToken,
		ApplicationID: getEnv("APPLICATION_ID", ""),
		GuildID:       getEnv("GUILD_ID", ""),
		MatchService:  matchService,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("failed to create Discord bot", zap.Error(err))
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		logger.Fatal("failed to start Discord bot", zap.Error(err))
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	stopSweep()

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", zap.Error(err))
	}

	logger.Info("bot has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
