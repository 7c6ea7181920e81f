package polls

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"porrapp/internal/fixture"
)

// StatsStore is the slice of persistence the settlement logic needs.
type StatsStore interface {
	GetFixtureByCode(ctx context.Context, code string) (fixture.Fixture, bool, error)
	GetPublicPoll(ctx context.Context, gameCode string) (Poll, bool, error)
	GetUserStats(ctx context.Context, userID string) (UserStats, bool, error)
	UpsertUserStats(ctx context.Context, s UserStats) error
}

// Stats settles the public poll of a finished game: every guess is scored
// against the final result and each author's aggregate record is updated.
type Stats struct {
	store StatsStore
	log   zerolog.Logger
}

func NewStats(store StatsStore, log zerolog.Logger) *Stats {
	return &Stats{store: store, log: log}
}

// HandleFinishedGame is invoked once per fixture, after the Finished
// snapshot has been persisted. A game without a public poll is a no-op.
func (s *Stats) HandleFinishedGame(ctx context.Context, gameCode string) error {
	poll, ok, err := s.store.GetPublicPoll(ctx, gameCode)
	if err != nil {
		return fmt.Errorf("load public poll for %s: %w", gameCode, err)
	}
	if !ok {
		s.log.Debug().Str("game", gameCode).Msg("no public poll, nothing to settle")
		return nil
	}

	game, ok, err := s.store.GetFixtureByCode(ctx, gameCode)
	if err != nil {
		return fmt.Errorf("load fixture %s: %w", gameCode, err)
	}
	if !ok {
		return fmt.Errorf("fixture %s not found for settlement", gameCode)
	}

	finalHome := game.Score.Home.DisplayTotal()
	finalAway := game.Score.Away.DisplayTotal()

	for _, guess := range poll.Guesses {
		if err := s.settleGuess(ctx, guess, finalHome, finalAway); err != nil {
			return err
		}
	}
	s.log.Info().Str("game", gameCode).Int("guesses", len(poll.Guesses)).Msg("poll settled")
	return nil
}

func (s *Stats) settleGuess(ctx context.Context, guess Guess, finalHome, finalAway int) error {
	successful := guess.HomeTeamScore == finalHome && guess.AwayTeamScore == finalAway

	stats, ok, err := s.store.GetUserStats(ctx, guess.Author)
	if err != nil {
		return fmt.Errorf("load stats for %s: %w", guess.Author, err)
	}
	if !ok {
		stats = UserStats{UserID: guess.Author}
	}

	stats.TotalFinished++
	if successful {
		stats.CurrentStreak++
		stats.TotalSuccessful++
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
	} else {
		stats.CurrentStreak = 0
	}
	stats.SuccessRate = float64(stats.TotalSuccessful) / float64(stats.TotalFinished)

	if err := s.store.UpsertUserStats(ctx, stats); err != nil {
		return fmt.Errorf("save stats for %s: %w", guess.Author, err)
	}
	return nil
}
