package player

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/matchbot/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestGetOrCreatePlayerCreatesWithDefaults() {
	player, err := s.repo.GetOrCreatePlayer(context.Background(), &GetOrCreatePlayerInput{
		PlayerID:    "player-1",
		DisplayName: "Player One",
	})
	s.Require().NoError(err)
	s.Require().NotNil(player)

	s.Equal("player-1", player.ID)
	s.Equal("Player One", player.DisplayName)
	s.Equal(models.DefaultRating, player.Rating)
	s.Equal(models.DefaultDeviation, player.Deviation)

	// The created player must be durable
	retrieved, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Equal(player, retrieved)
}

func (s *RedisRepositoryTestSuite) TestGetOrCreatePlayerReturnsExisting() {
	existing := &models.Player{
		ID:          "player-1",
		DisplayName: "Player One",
		Rating:      1623,
		Deviation:   120,
	}
	s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: existing,
	}))

	player, err := s.repo.GetOrCreatePlayer(context.Background(), &GetOrCreatePlayerInput{
		PlayerID:    "player-1",
		DisplayName: "Player One",
	})
	s.Require().NoError(err)

	s.Equal(1623.0, player.Rating)
	s.Equal(120.0, player.Deviation)
}

func (s *RedisRepositoryTestSuite) TestGetOrCreatePlayerRefreshesDisplayName() {
	s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.Player{
			ID:          "player-1",
			DisplayName: "Old Name",
			Rating:      1623,
			Deviation:   120,
		},
	}))

	player, err := s.repo.GetOrCreatePlayer(context.Background(), &GetOrCreatePlayerInput{
		PlayerID:    "player-1",
		DisplayName: "New Name",
	})
	s.Require().NoError(err)
	s.Equal("New Name", player.DisplayName)

	// The rename must be durable
	retrieved, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Equal("New Name", retrieved.DisplayName)
	s.Equal(1623.0, retrieved.Rating)
}

func (s *RedisRepositoryTestSuite) TestGetPlayerNotFound() {
	_, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "missing",
	})
	s.Require().ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestListPlayers() {
	for _, p := range []*models.Player{
		{ID: "player-1", DisplayName: "One", Rating: 1500, Deviation: 350},
		{ID: "player-2", DisplayName: "Two", Rating: 1710, Deviation: 95},
		{ID: "player-3", DisplayName: "Three", Rating: 1385, Deviation: 180},
	} {
		s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
			Player: p,
		}))
	}

	output, err := s.repo.ListPlayers(context.Background(), &ListPlayersInput{})
	s.Require().NoError(err)
	s.Require().Len(output.Players, 3)

	byID := make(map[string]*models.Player)
	for _, p := range output.Players {
		byID[p.ID] = p
	}
	s.Equal(1710.0, byID["player-2"].Rating)
	s.Equal(180.0, byID["player-3"].Deviation)
}

func (s *RedisRepositoryTestSuite) TestListPlayersEmpty() {
	output, err := s.repo.ListPlayers(context.Background(), &ListPlayersInput{})
	s.Require().NoError(err)
	s.Empty(output.Players)
}

func (s *RedisRepositoryTestSuite) TestApplyRatingDeltas() {
	for _, p := range []*models.Player{
		{ID: "player-1", DisplayName: "One", Rating: 1500, Deviation: 350},
		{ID: "player-2", DisplayName: "Two", Rating: 1600, Deviation: 100},
	} {
		s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
			Player: p,
		}))
	}

	output, err := s.repo.ApplyRatingDeltas(context.Background(), &ApplyRatingDeltasInput{
		Deltas: []RatingDelta{
			{PlayerID: "player-1", RatingDelta: 32, DeviationDelta: -60},
			{PlayerID: "player-2", RatingDelta: -18, DeviationDelta: -5},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(output.Players, 2)

	s.Equal(1532.0, output.Players[0].Rating)
	s.Equal(290.0, output.Players[0].Deviation)
	s.Equal(1582.0, output.Players[1].Rating)
	s.Equal(95.0, output.Players[1].Deviation)

	// The changes must be durable
	retrieved, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Equal(1532.0, retrieved.Rating)
}

func (s *RedisRepositoryTestSuite) TestApplyRatingDeltasClampsDeviation() {
	s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.Player{ID: "player-1", DisplayName: "One", Rating: 1500, Deviation: 30},
	}))

	output, err := s.repo.ApplyRatingDeltas(context.Background(), &ApplyRatingDeltasInput{
		Deltas: []RatingDelta{
			{PlayerID: "player-1", RatingDelta: 10, DeviationDelta: -45},
		},
	})
	s.Require().NoError(err)
	s.Equal(0.0, output.Players[0].Deviation)
}

func (s *RedisRepositoryTestSuite) TestApplyRatingDeltasSameUpdateIDAppliesOnce() {
	s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.Player{ID: "player-1", DisplayName: "One", Rating: 1500, Deviation: 350},
	}))

	input := &ApplyRatingDeltasInput{
		UpdateID: "update-1",
		Deltas: []RatingDelta{
			{PlayerID: "player-1", RatingDelta: 32, DeviationDelta: -60},
		},
	}

	output, err := s.repo.ApplyRatingDeltas(context.Background(), input)
	s.Require().NoError(err)
	s.Equal(1532.0, output.Players[0].Rating)

	// A retry with the same update ID must not change anything again
	retried, err := s.repo.ApplyRatingDeltas(context.Background(), input)
	s.Require().NoError(err)
	s.Require().Len(retried.Players, 1)
	s.Equal(1532.0, retried.Players[0].Rating)
	s.Equal(290.0, retried.Players[0].Deviation)

	retrieved, err := s.repo.GetPlayer(context.Background(), &GetPlayerInput{
		PlayerID: "player-1",
	})
	s.Require().NoError(err)
	s.Equal(1532.0, retrieved.Rating)
	s.Equal(290.0, retrieved.Deviation)
}

func (s *RedisRepositoryTestSuite) TestApplyRatingDeltasDistinctUpdateIDsApply() {
	s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.Player{ID: "player-1", DisplayName: "One", Rating: 1500, Deviation: 350},
	}))

	deltas := []RatingDelta{
		{PlayerID: "player-1", RatingDelta: 10, DeviationDelta: -10},
	}

	_, err := s.repo.ApplyRatingDeltas(context.Background(), &ApplyRatingDeltasInput{
		UpdateID: "update-1",
		Deltas:   deltas,
	})
	s.Require().NoError(err)

	output, err := s.repo.ApplyRatingDeltas(context.Background(), &ApplyRatingDeltasInput{
		UpdateID: "update-2",
		Deltas:   deltas,
	})
	s.Require().NoError(err)
	s.Equal(1520.0, output.Players[0].Rating)
}

func (s *RedisRepositoryTestSuite) TestApplyRatingDeltasWithoutUpdateIDAlwaysApplies() {
	s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.Player{ID: "player-1", DisplayName: "One", Rating: 1500, Deviation: 350},
	}))

	deltas := []RatingDelta{
		{PlayerID: "player-1", RatingDelta: 10},
	}

	_, err := s.repo.ApplyRatingDeltas(context.Background(), &ApplyRatingDeltasInput{Deltas: deltas})
	s.Require().NoError(err)

	output, err := s.repo.ApplyRatingDeltas(context.Background(), &ApplyRatingDeltasInput{Deltas: deltas})
	s.Require().NoError(err)
	s.Equal(1520.0, output.Players[0].Rating)
}

func (s *RedisRepositoryTestSuite) TestApplyRatingDeltasUnknownPlayer() {
	_, err := s.repo.ApplyRatingDeltas(context.Background(), &ApplyRatingDeltasInput{
		Deltas: []RatingDelta{
			{PlayerID: "missing", RatingDelta: 10},
		},
	})
	s.Require().ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestSetRatingLeavesDeviationUntouched() {
	s.Require().NoError(s.repo.SavePlayer(context.Background(), &SavePlayerInput{
		Player: &models.Player{ID: "player-1", DisplayName: "One", Rating: 1500, Deviation: 210},
	}))

	player, err := s.repo.SetRating(context.Background(), &SetRatingInput{
		PlayerID: "player-1",
		Rating:   1800,
	})
	s.Require().NoError(err)
	s.Equal(1800.0, player.Rating)
	s.Equal(210.0, player.Deviation)
}
