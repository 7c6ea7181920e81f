package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"porrapp/internal/fixture"
	"porrapp/internal/notify"
	"porrapp/internal/printer"
	"porrapp/internal/provider"
	"porrapp/internal/schedule"
)

const windowJobName = "window:daily"

// Orchestrator wires the window refresh and the live trackers together and
// owns the set of active tracking jobs.
type Orchestrator struct {
	window   *Window
	sched    *schedule.Service
	provider provider.Provider
	store    FixtureStore
	notifier notify.Notifier
	printer  *printer.Printer
	settler  Settler
	log      zerolog.Logger
	dailyAt  string

	mu sync.Mutex
	// tracked is never cleared: one orchestrator lifetime never starts two
	// trackers for the same fixture code, even across daily runs.
	tracked map[string]bool
}

func NewOrchestrator(window *Window, sched *schedule.Service, p provider.Provider,
	st FixtureStore, n notify.Notifier, pr *printer.Printer, settler Settler,
	dailyAt string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		window:   window,
		sched:    sched,
		provider: p,
		store:    st,
		notifier: n,
		printer:  pr,
		settler:  settler,
		log:      log,
		dailyAt:  dailyAt,
		tracked:  map[string]bool{},
	}
}

// Start runs the window once synchronously, starts live tracking for today's
// in-progress fixtures and registers the recurring daily refresh. It does
// not block on tracker completion.
func (o *Orchestrator) Start(ctx context.Context) error {
	spec, err := schedule.DailyAt(o.dailyAt)
	if err != nil {
		return fmt.Errorf("tracker.daily_at: %w", err)
	}

	o.sched.Start(ctx)
	o.printer.Banner()

	o.handleToday(ctx, o.window.Run(ctx))

	if _, err := o.sched.Schedule(windowJobName, spec, func(ctx context.Context) {
		o.handleToday(ctx, o.window.Run(ctx))
	}); err != nil {
		return err
	}
	o.log.Info().Str("at", o.dailyAt).Msg("daily window job registered")
	return nil
}

// Stop tears down the shared scheduler; running trackers stop with it.
func (o *Orchestrator) Stop(ctx context.Context) {
	o.sched.Stop(ctx)
}

// ActiveTrackers returns the codes of fixtures currently being polled.
func (o *Orchestrator) ActiveTrackers() []string {
	var codes []string
	for _, name := range o.sched.Active() {
		if code, ok := strings.CutPrefix(name, "fixture:"); ok {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

func (o *Orchestrator) handleToday(ctx context.Context, todays []fixture.Fixture) {
	if len(todays) == 0 {
		o.printer.NoGamesToday()
		o.log.Info().Msg("no fixtures today")
		return
	}

	o.printer.TodayHeader(len(todays))
	for _, f := range todays {
		o.printer.GameInfo(f)
		// Only fixtures already live at window time get a tracker; Pending
		// fixtures that kick off later today are deliberately not promoted
		// (see DESIGN.md).
		if f.Status == fixture.StatusInProgress {
			o.track(f)
		}
	}
}

func (o *Orchestrator) track(f fixture.Fixture) {
	o.mu.Lock()
	if o.tracked[f.Code] {
		o.mu.Unlock()
		o.log.Debug().Str("game", f.Code).Msg("already tracked this lifetime, skipping")
		return
	}
	o.tracked[f.Code] = true
	o.mu.Unlock()

	live := NewLive(f, o.provider, o.store, o.notifier, o.printer, o.settler,
		o.sched.Location(), o.log)
	job, err := o.sched.Schedule("fixture:"+f.Code, schedule.EveryMinute, live.Tick)
	if err != nil {
		o.log.Error().Err(err).Str("game", f.Code).Msg("failed to schedule live tracker")
		return
	}
	live.Bind(job)
	o.printer.TrackerStarted(f)
	o.log.Info().Str("game", f.Code).Str("title", f.Title()).Msg("live tracker started")
}
