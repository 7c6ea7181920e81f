// Package store is the persistence layer: fixtures keyed by code plus the
// polls/guesses/stats tables used for settlement.
package store

import (
	"context"
	"errors"
	"time"

	"porrapp/internal/fixture"
	"porrapp/internal/polls"
)

var ErrClosed = errors.New("store closed")

// Store is the durable keyed storage consumed by the scheduling core.
//
// Fixture writes follow an upsert/update-by-code discipline so concurrent
// writers touching different codes are safe by construction.
type Store interface {
	// UpsertFixtures performs an idempotent bulk write keyed by code.
	UpsertFixtures(ctx context.Context, fixtures []fixture.Fixture) error
	// GetFixtureByCode looks up one fixture; absence is not an error.
	GetFixtureByCode(ctx context.Context, code string) (fixture.Fixture, bool, error)
	// UpdateFixtureByCode replaces the whole row for the fixture's code.
	UpdateFixtureByCode(ctx context.Context, f fixture.Fixture) error
	// ListFixturesBetween returns fixtures with kickoff in [from, to).
	ListFixturesBetween(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error)

	// CreatePoll and AddGuess assign ids and timestamps.
	CreatePoll(ctx context.Context, p polls.Poll) (polls.Poll, error)
	AddGuess(ctx context.Context, g polls.Guess) (polls.Guess, error)
	// GetPublicPoll returns the public poll for a game with its guesses.
	GetPublicPoll(ctx context.Context, gameCode string) (polls.Poll, bool, error)
	GetUserStats(ctx context.Context, userID string) (polls.UserStats, bool, error)
	UpsertUserStats(ctx context.Context, s polls.UserStats) error

	Close() error
}
