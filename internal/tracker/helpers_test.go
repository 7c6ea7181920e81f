package tracker

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"porrapp/internal/fixture"
	"porrapp/internal/printer"
)

var errBoom = errors.New("boom")

// fakeProvider serves fixtures keyed by calendar day (UTC) and can be armed
// to fail from a given call onward.
type fakeProvider struct {
	mu       sync.Mutex
	byDay    map[string][]fixture.Fixture
	calls    int
	failFrom int // 1-based call number; 0 = never fail
}

func (p *fakeProvider) FetchByDate(_ context.Context, date time.Time) ([]fixture.Fixture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failFrom > 0 && p.calls >= p.failFrom {
		return nil, errBoom
	}
	return p.byDay[date.UTC().Format("2006-01-02")], nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeStore struct {
	mu        sync.Mutex
	fixtures  map[string]fixture.Fixture
	upserts   int
	updates   int
	gets      int
	failGet   bool
	failWrite bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{fixtures: map[string]fixture.Fixture{}}
}

func (s *fakeStore) UpsertFixtures(_ context.Context, fixtures []fixture.Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return errBoom
	}
	s.upserts++
	for _, f := range fixtures {
		s.fixtures[f.Code] = f
	}
	return nil
}

func (s *fakeStore) GetFixtureByCode(_ context.Context, code string) (fixture.Fixture, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.failGet {
		return fixture.Fixture{}, false, errBoom
	}
	f, ok := s.fixtures[code]
	return f, ok, nil
}

func (s *fakeStore) UpdateFixtureByCode(_ context.Context, f fixture.Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return errBoom
	}
	s.updates++
	s.fixtures[f.Code] = f
	return nil
}

func (s *fakeStore) snapshot(code string) (fixture.Fixture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fixtures[code]
	return f, ok
}

func (s *fakeStore) counts() (upserts, updates, gets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts, s.updates, s.gets
}

type fakeNotifier struct {
	mu      sync.Mutex
	reports []string
}

func (n *fakeNotifier) ReportError(_ context.Context, message, errContext string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports = append(n.reports, errContext+": "+message)
}

func (n *fakeNotifier) Startup(context.Context)  {}
func (n *fakeNotifier) Shutdown(context.Context) {}

func (n *fakeNotifier) reported() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.reports...)
}

type fakeSettler struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (s *fakeSettler) HandleFinishedGame(_ context.Context, gameCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, gameCode)
	return s.err
}

type fakeJob struct {
	mu    sync.Mutex
	stops int
}

func (j *fakeJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stops++
}

func (j *fakeJob) stopCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stops
}

func testPrinter() (*printer.Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return printer.New(&buf, time.UTC), &buf
}

func fixtureAt(code, status string, kickoff time.Time, home, away string) fixture.Fixture {
	return fixture.Fixture{
		Code:     code,
		Date:     kickoff,
		Status:   status,
		HomeTeam: fixture.Team{FullName: "Real Madrid"},
		AwayTeam: fixture.Team{FullName: "FC Barcelona"},
		Score: fixture.Score{
			Home: fixture.TeamScore{Total: home},
			Away: fixture.TeamScore{Total: away},
		},
	}
}
