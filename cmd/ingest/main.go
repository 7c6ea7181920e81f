// ingest is the one-shot companion to the tracker daemon: it refreshes the
// rolling fixture window once and exits. With -teams it scrapes the league
// roster instead and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"porrapp/internal/config"
	"porrapp/internal/notify"
	"porrapp/internal/printer"
	"porrapp/internal/provider/unidadeditorial"
	"porrapp/internal/store"
	"porrapp/internal/teams"
	"porrapp/internal/tracker"
	"porrapp/pkg/logx"
)

func main() {
	var (
		cfgPath  string
		rosterIn bool
	)
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config yaml")
	flag.BoolVar(&rosterIn, "teams", false, "scrape the league roster and print it as JSON")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath, rosterIn); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string, rosterIn bool) error {
	if rosterIn {
		roster, err := teams.NewFetcher(teams.DefaultURL, nil).Fetch(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(roster)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log, logClose, err := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logClose() }()
	loc := cfg.Location()

	busyTimeout, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	if err != nil {
		return err
	}
	st, err := store.Open(store.Config{Path: cfg.Storage.Path, BusyTimeout: busyTimeout}, logx.Component(log, "store"))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	providerTimeout, err := config.ParseDurationOrDefault("provider.timeout", cfg.Provider.Timeout, 10*time.Second)
	if err != nil {
		return err
	}
	prov := unidadeditorial.New(unidadeditorial.Config{
		BaseURL:        cfg.Provider.BaseURL,
		Site:           cfg.Provider.Site,
		Tournament:     cfg.Provider.Tournament,
		TimezoneOffset: cfg.Provider.TimezoneOffset,
		Timeout:        providerTimeout,
	})

	pr := printer.New(os.Stdout, loc)
	pr.Banner()

	window := tracker.NewWindow(prov, st, notify.Nop{Log: log}, loc, logx.Component(log, "window"))
	window.SetSpan(cfg.Tracker.WindowBack, cfg.Tracker.WindowAhead)
	todays := window.Run(ctx)
	if len(todays) == 0 {
		pr.NoGamesToday()
		return nil
	}
	pr.TodayHeader(len(todays))
	for _, f := range todays {
		pr.GameInfo(f)
	}
	return nil
}
