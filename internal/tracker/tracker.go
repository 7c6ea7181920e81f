// Package tracker is the match-tracking scheduler core: the rolling window
// refresh, the per-fixture live polling jobs and the coordinator that owns
// their lifecycles.
package tracker

import (
	"context"

	"porrapp/internal/fixture"
)

// FixtureStore is the slice of the persistence layer the core depends on.
type FixtureStore interface {
	UpsertFixtures(ctx context.Context, fixtures []fixture.Fixture) error
	GetFixtureByCode(ctx context.Context, code string) (fixture.Fixture, bool, error)
	UpdateFixtureByCode(ctx context.Context, f fixture.Fixture) error
}

// Settler reconciles betting-pool stats once a game reaches Finished.
type Settler interface {
	HandleFinishedGame(ctx context.Context, gameCode string) error
}

// stopper is the slice of a scheduled job a tracker needs to self-terminate.
type stopper interface {
	Stop()
}
