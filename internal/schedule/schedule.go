// Package schedule wraps robfig/cron with a small registry of named,
// individually cancellable jobs. The tracker uses exactly two interval
// shapes: every minute (live trackers) and once daily (window refresh).
package schedule

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// EveryMinute is the live-tracker polling interval.
const EveryMinute = "* * * * *"

var ErrDuplicateJob = errors.New("job with this name already scheduled")

// Service owns one cron runner and the registry of active jobs, keyed by
// name. Names double as ownership guards: a fixture code can never be
// tracked twice within one service lifetime while its job is registered.
type Service struct {
	mu   sync.Mutex
	log  zerolog.Logger
	loc  *time.Location
	c    *cron.Cron
	jobs map[string]*Job

	runCtx    context.Context
	runCancel context.CancelFunc
	started   bool
}

func New(timezone string, log zerolog.Logger) *Service {
	loc := time.Local
	tz := strings.TrimSpace(timezone)
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn().Str("tz", tz).Err(err).Msg("invalid timezone, falling back to Local")
		} else {
			loc = l
		}
	}
	return &Service{
		log:  log,
		loc:  loc,
		c:    cron.New(cron.WithLocation(loc)),
		jobs: map[string]*Job{},
	}
}

// Location exposes the scheduler timezone ("today" is defined in it).
func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.runCtx, s.runCancel = context.WithCancel(ctx)
	s.started = true
	s.c.Start()
	s.log.Info().Str("tz", s.loc.String()).Msg("scheduler started")
}

// Stop halts the cron runner and waits for in-flight ticks to finish, or for
// ctx to expire, whichever comes first.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.runCancel
	s.mu.Unlock()

	done := s.c.Stop().Done()
	if cancel != nil {
		cancel()
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
	s.log.Info().Msg("scheduler stopped")
}

// Schedule registers fn under name. Ticks for one job never overlap: if the
// previous tick is still running when the next fires, the new one is skipped.
func (s *Service) Schedule(name, spec string, fn func(ctx context.Context)) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &Job{name: name, svc: s, fn: fn}
	entry, err := s.c.AddFunc(spec, j.run)
	if err != nil {
		return nil, fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	j.entry = entry
	s.jobs[name] = j
	s.log.Debug().Str("job", name).Str("spec", spec).Msg("job scheduled")
	return j, nil
}

// Active returns the names of currently registered jobs.
func (s *Service) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

func (s *Service) remove(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Remove(j.entry)
	delete(s.jobs, j.name)
	s.log.Debug().Str("job", j.name).Msg("job stopped")
}

func (s *Service) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runCtx != nil {
		return s.runCtx
	}
	return context.Background()
}

// Job is a handle to one scheduled, repeating unit of work. Its callback may
// call Stop on itself to self-terminate.
type Job struct {
	name  string
	svc   *Service
	fn    func(ctx context.Context)
	entry cron.EntryID

	tickMu   sync.Mutex
	stopOnce sync.Once
}

func (j *Job) Name() string { return j.name }

// Stop removes the job from the runner. Idempotent, safe from inside the
// job's own tick (cron runs each tick in its own goroutine).
func (j *Job) Stop() {
	j.stopOnce.Do(func() { j.svc.remove(j) })
}

func (j *Job) run() {
	if !j.tickMu.TryLock() {
		j.svc.log.Debug().Str("job", j.name).Msg("previous tick still running, skipping")
		return
	}
	defer j.tickMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			j.svc.log.Error().Str("job", j.name).Any("panic", r).
				Str("stack", string(debug.Stack())).Msg("panic in job tick")
		}
	}()
	j.fn(j.svc.runContext())
}

// DailyAt converts "HH:MM" into a five-field cron spec firing once a day.
func DailyAt(hhmm string) (string, error) {
	h, m, err := parseHHMM(hhmm)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", m, h), nil
}

func parseHHMM(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
