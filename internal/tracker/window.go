package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"porrapp/internal/fixture"
	"porrapp/internal/notify"
	"porrapp/internal/provider"
)

// Window keeps a rolling span of fixtures fresh in the store: yesterday
// through eight days ahead, one provider call per calendar day.
type Window struct {
	provider provider.Provider
	store    FixtureStore
	notifier notify.Notifier
	log      zerolog.Logger
	loc      *time.Location

	daysBack  int
	daysAhead int
	now       func() time.Time
}

func NewWindow(p provider.Provider, st FixtureStore, n notify.Notifier, loc *time.Location, log zerolog.Logger) *Window {
	if loc == nil {
		loc = time.Local
	}
	return &Window{
		provider:  p,
		store:     st,
		notifier:  n,
		log:       log,
		loc:       loc,
		daysBack:  1,
		daysAhead: 8,
		now:       time.Now,
	}
}

// SetSpan overrides the default window of one day back and eight ahead.
// Negative values keep the defaults.
func (w *Window) SetSpan(back, ahead int) {
	if back >= 0 {
		w.daysBack = back
	}
	if ahead >= 0 {
		w.daysAhead = ahead
	}
}

// Run ingests the whole window and returns today's fixtures. Days are
// fetched sequentially to respect provider rate limits and keep ingestion
// deterministic. The first failure aborts the remaining days and yields an
// empty result: downstream must never act on a partial daily set.
func (w *Window) Run(ctx context.Context) []fixture.Fixture {
	today := w.now().In(w.loc)
	var todays []fixture.Fixture

	for offset := -w.daysBack; offset <= w.daysAhead; offset++ {
		day := today.AddDate(0, 0, offset)

		fixtures, err := w.provider.FetchByDate(ctx, day)
		if err != nil {
			w.fail(ctx, day, err)
			return nil
		}
		if offset == 0 {
			todays = append(todays, fixtures...)
		}
		if err := w.store.UpsertFixtures(ctx, fixtures); err != nil {
			w.fail(ctx, day, err)
			return nil
		}
		w.log.Debug().Str("day", day.Format("2006-01-02")).
			Int("fixtures", len(fixtures)).Msg("window day ingested")
	}

	w.log.Info().Int("today", len(todays)).Msg("window refreshed")
	return todays
}

func (w *Window) fail(ctx context.Context, day time.Time, err error) {
	w.log.Error().Err(err).Str("day", day.Format("2006-01-02")).Msg("window refresh failed")
	w.notifier.ReportError(ctx, err.Error(), "window refresh")
}
