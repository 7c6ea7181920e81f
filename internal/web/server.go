// Package web exposes a small read-only status API next to the tracker:
// health, today's fixtures and the set of live-tracked codes.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"porrapp/internal/fixture"
)

// FixtureLister is the slice of the store the API reads from.
type FixtureLister interface {
	ListFixturesBetween(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error)
}

// TrackerStatus reports which fixtures are currently live-tracked.
type TrackerStatus interface {
	ActiveTrackers() []string
}

type Config struct {
	Enabled bool
	Addr    string
}

type Server struct {
	store    FixtureLister
	trackers TrackerStatus
	log      zerolog.Logger
	loc      *time.Location
	now      func() time.Time

	srv *http.Server
}

func New(cfg Config, store FixtureLister, trackers TrackerStatus, loc *time.Location, log zerolog.Logger) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		store:    store,
		trackers: trackers,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/fixtures/today", s.handleToday)
		r.Get("/trackers", s.handleTrackers)
	})

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("status api listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("status api failed")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)

	fixtures, err := s.store.ListFixturesBetween(r.Context(), from, to)
	if err != nil {
		s.log.Error().Err(err).Msg("list today's fixtures")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}
	if fixtures == nil {
		fixtures = []fixture.Fixture{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":     from.Format("2006-01-02"),
		"fixtures": fixtures,
	})
}

func (s *Server) handleTrackers(w http.ResponseWriter, _ *http.Request) {
	codes := s.trackers.ActiveTrackers()
	if codes == nil {
		codes = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": codes})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
