// Package app assembles the tracker from configuration: storage, provider,
// notifier, scheduler, orchestrator and the optional status API.
package app

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"porrapp/internal/config"
	"porrapp/internal/notify"
	"porrapp/internal/polls"
	"porrapp/internal/printer"
	"porrapp/internal/provider/unidadeditorial"
	"porrapp/internal/schedule"
	"porrapp/internal/store"
	"porrapp/internal/tracker"
	"porrapp/internal/web"
	"porrapp/pkg/logx"
)

type App struct {
	cfgPath string
	cfg     config.Config

	log      zerolog.Logger
	logClose func() error

	store    store.Store
	notifier notify.Notifier
	sched    *schedule.Service
	orch     *tracker.Orchestrator
	web      *web.Server

	watchCancel context.CancelFunc
}

func New(cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, logClose, err := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()

	busyTimeout, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(store.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: busyTimeout,
	}, logx.Component(log, "store"))
	if err != nil {
		_ = logClose()
		return nil, err
	}

	providerTimeout, err := config.ParseDurationOrDefault("provider.timeout", cfg.Provider.Timeout, 10*time.Second)
	if err != nil {
		_ = st.Close()
		_ = logClose()
		return nil, err
	}
	prov := unidadeditorial.New(unidadeditorial.Config{
		BaseURL:        cfg.Provider.BaseURL,
		Site:           cfg.Provider.Site,
		Tournament:     cfg.Provider.Tournament,
		TimezoneOffset: cfg.Provider.TimezoneOffset,
		Timeout:        providerTimeout,
	})

	notifier, err := notify.New(notify.Config{
		Enabled:    cfg.Telegram.Enabled,
		Token:      cfg.Telegram.Token,
		ChatID:     cfg.Telegram.ChatID,
		RatePerSec: cfg.Telegram.RatePerSec,
		Timezone:   cfg.Timezone,
	}, log)
	if err != nil {
		_ = st.Close()
		_ = logClose()
		return nil, err
	}

	pr := printer.New(os.Stdout, loc)
	sched := schedule.New(cfg.Timezone, logx.Component(log, "schedule"))
	settler := polls.NewStats(st, logx.Component(log, "polls"))

	window := tracker.NewWindow(prov, st, notifier, loc, logx.Component(log, "window"))
	window.SetSpan(cfg.Tracker.WindowBack, cfg.Tracker.WindowAhead)
	orch := tracker.NewOrchestrator(window, sched, prov, st, notifier, pr, settler,
		cfg.Tracker.DailyAt, logx.Component(log, "tracker"))

	a := &App{
		cfgPath:  cfgPath,
		cfg:      cfg,
		log:      log,
		logClose: logClose,
		store:    st,
		notifier: notifier,
		sched:    sched,
		orch:     orch,
	}
	if cfg.Web.Enabled {
		a.web = web.New(web.Config{
			Enabled: true,
			Addr:    cfg.Web.Addr,
		}, st, orch, loc, logx.Component(log, "web"))
	}
	return a, nil
}

// Start brings the tracker up: startup notice, initial window run, daily
// refresh job, status API and the config watcher for live log-level changes.
func (a *App) Start(ctx context.Context) error {
	a.notifier.Startup(ctx)

	if err := a.orch.Start(ctx); err != nil {
		return err
	}
	if a.web != nil {
		a.web.Start()
	}

	watchCtx, cancel := context.WithCancel(ctx)
	a.watchCancel = cancel
	go func() {
		err := config.Watch(watchCtx, a.cfgPath, logx.Component(a.log, "config"), func(cfg config.Config) {
			logx.SetLevel(cfg.Logging.Level)
		})
		if err != nil {
			a.log.Warn().Err(err).Msg("config watcher unavailable")
		}
	}()

	a.log.Info().Str("daily_at", a.cfg.Tracker.DailyAt).Msg("tracker started")
	return nil
}

// Stop tears everything down in reverse order and flushes the log sinks.
func (a *App) Stop(ctx context.Context) error {
	if a.watchCancel != nil {
		a.watchCancel()
	}
	if a.web != nil {
		if err := a.web.Shutdown(ctx); err != nil {
			a.log.Warn().Err(err).Msg("status api shutdown")
		}
	}
	a.orch.Stop(ctx)
	a.notifier.Shutdown(ctx)

	err := a.store.Close()
	a.log.Info().Msg("tracker stopped")
	if a.logClose != nil {
		_ = a.logClose()
	}
	return err
}
