package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"porrapp/internal/fixture"
	"porrapp/internal/notify"
	"porrapp/internal/printer"
	"porrapp/internal/provider"
)

// Live tracks one fixture from "not yet started" through Finished at
// one-minute granularity. It waits out the countdown without touching
// provider or store, then polls until it observes the terminal status,
// persists it and stops its own job.
type Live struct {
	game fixture.Fixture // snapshot at creation; Code and kickoff never change

	provider provider.Provider
	store    FixtureStore
	notifier notify.Notifier
	printer  *printer.Printer
	settler  Settler
	log      zerolog.Logger
	loc      *time.Location
	now      func() time.Time

	job stopper
}

func NewLive(game fixture.Fixture, p provider.Provider, st FixtureStore, n notify.Notifier,
	pr *printer.Printer, settler Settler, loc *time.Location, log zerolog.Logger) *Live {
	if loc == nil {
		loc = time.Local
	}
	return &Live{
		game:     game,
		provider: p,
		store:    st,
		notifier: n,
		printer:  pr,
		settler:  settler,
		log:      log.With().Str("game", game.Code).Logger(),
		loc:      loc,
		now:      time.Now,
	}
}

// Bind attaches the scheduled job handle so the tracker can self-terminate.
func (l *Live) Bind(job stopper) { l.job = job }

// Tick is one scheduled invocation. Errors are absorbed at this boundary:
// they are logged and alerted, and the next tick retries independently.
// Only an observed Finished status ends the job.
func (l *Live) Tick(ctx context.Context) {
	now := l.now()
	if now.Before(l.game.Date) {
		minutesLeft := int(l.game.Date.Sub(now).Minutes())
		l.printer.Countdown(l.game, minutesLeft)
		return
	}

	if err := l.poll(ctx, now); err != nil {
		l.log.Error().Err(err).Msg("live tracker tick failed")
		l.notifier.ReportError(ctx, err.Error(), "Real-time tracker - "+l.game.Title())
	}
}

func (l *Live) poll(ctx context.Context, now time.Time) error {
	fixtures, err := l.provider.FetchByDate(ctx, now.In(l.loc))
	if err != nil {
		return fmt.Errorf("fetch day fixtures: %w", err)
	}

	current, found := findByCode(fixtures, l.game.Code)
	if !found {
		// Transient provider gap; the next tick retries.
		l.printer.NotFound(l.game)
		return nil
	}

	previous, ok, err := l.store.GetFixtureByCode(ctx, current.Code)
	if err != nil {
		return fmt.Errorf("read last snapshot: %w", err)
	}

	l.printer.ScoreLine(current)
	if ok {
		l.report(fixture.Diff(previous, current), current)
	} else {
		// First sighting without an ingested baseline: persist as-is and
		// diff against it next tick.
		l.log.Warn().Msg("no persisted snapshot, seeding baseline")
	}

	if err := l.store.UpdateFixtureByCode(ctx, current); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	if current.Finished() {
		l.finish(ctx, current)
	}
	return nil
}

func (l *Live) report(out fixture.Outcome, current fixture.Fixture) {
	if out.StatusChanged {
		l.printer.StatusChanged(current)
	} else {
		l.printer.StatusUnchanged(current)
	}
	if out.HomeScored {
		l.printer.Goal(current.HomeTeam, current.Score.Home)
	}
	if out.AwayScored {
		l.printer.Goal(current.AwayTeam, current.Score.Away)
	}
	if !out.HomeScored && !out.AwayScored {
		l.printer.NoGoals()
	}
}

// finish runs after the terminal snapshot is already persisted.
func (l *Live) finish(ctx context.Context, current fixture.Fixture) {
	l.printer.GameFinished(current)
	l.log.Info().Str("score", current.Score.Home.Total+"-"+current.Score.Away.Total).
		Msg("game finished, stopping tracker")

	if l.settler != nil {
		if err := l.settler.HandleFinishedGame(ctx, current.Code); err != nil {
			l.log.Error().Err(err).Msg("poll settlement failed")
			l.notifier.ReportError(ctx, err.Error(), "Poll settlement - "+current.Title())
		}
	}
	if l.job != nil {
		l.job.Stop()
	}
}

func findByCode(fixtures []fixture.Fixture, code string) (fixture.Fixture, bool) {
	for _, f := range fixtures {
		if f.Code == code {
			return f, true
		}
	}
	return fixture.Fixture{}, false
}
