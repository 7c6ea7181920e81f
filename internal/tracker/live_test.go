package tracker

import (
	"context"
	"strings"
	"testing"
	"time"

	"porrapp/internal/fixture"
	"porrapp/pkg/logx"
)

var kickoff = time.Date(2026, 3, 7, 21, 0, 0, 0, time.UTC)

func pendingGame() fixture.Fixture {
	return fixtureAt("g1", fixture.StatusPending, kickoff, "0", "0")
}

func TestWaitingTickDoesNoIO(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{byDay: map[string][]fixture.Fixture{}}
	st := newFakeStore()
	n := &fakeNotifier{}
	pr, buf := testPrinter()

	l := NewLive(pendingGame(), p, st, n, pr, nil, time.UTC, logx.Nop())
	l.now = func() time.Time { return kickoff.Add(-time.Minute) }
	l.Tick(context.Background())

	if got := p.callCount(); got != 0 {
		t.Fatalf("provider calls in Waiting state = %d, want 0", got)
	}
	upserts, updates, gets := st.counts()
	if upserts+updates+gets != 0 {
		t.Fatalf("store touched in Waiting state: %d/%d/%d", upserts, updates, gets)
	}
	if !strings.Contains(buf.String(), "Starts in 1 min") {
		t.Fatalf("missing countdown output: %q", buf.String())
	}
}

func TestPollingTickReportsAndPersists(t *testing.T) {
	t.Parallel()
	game := pendingGame()
	live := fixtureAt("g1", fixture.StatusInProgress, kickoff, "1", "0")

	p := &fakeProvider{byDay: map[string][]fixture.Fixture{
		"2026-03-07": {live},
	}}
	st := newFakeStore()
	st.fixtures["g1"] = game // previous Pending snapshot
	n := &fakeNotifier{}
	pr, buf := testPrinter()

	l := NewLive(game, p, st, n, pr, nil, time.UTC, logx.Nop())
	l.now = func() time.Time { return kickoff.Add(time.Minute) }
	job := &fakeJob{}
	l.Bind(job)
	l.Tick(context.Background())

	out := buf.String()
	if !strings.Contains(out, "Status Changed → InProgress") {
		t.Fatalf("missing status change: %q", out)
	}
	if !strings.Contains(out, "Real Madrid scored! (1)") {
		t.Fatalf("missing home goal: %q", out)
	}
	if strings.Contains(out, "FC Barcelona scored!") {
		t.Fatalf("unexpected away goal: %q", out)
	}

	got, ok := st.snapshot("g1")
	if !ok || got.Status != fixture.StatusInProgress || got.Score.Home.Total != "1" {
		t.Fatalf("freshly fetched snapshot not persisted: %+v", got)
	}
	if job.stopCount() != 0 {
		t.Fatal("job must stay active while not Finished")
	}
	if len(n.reported()) != 0 {
		t.Fatalf("unexpected error reports: %v", n.reported())
	}
}

func TestFinishedTickPersistsThenStopsOnce(t *testing.T) {
	t.Parallel()
	game := fixtureAt("g1", fixture.StatusInProgress, kickoff, "1", "0")
	final := fixtureAt("g1", fixture.StatusFinished, kickoff, "2", "1")

	p := &fakeProvider{byDay: map[string][]fixture.Fixture{
		"2026-03-07": {final},
	}}
	st := newFakeStore()
	st.fixtures["g1"] = game
	settler := &fakeSettler{}
	pr, buf := testPrinter()

	l := NewLive(game, p, st, &fakeNotifier{}, pr, settler, time.UTC, logx.Nop())
	l.now = func() time.Time { return kickoff.Add(95 * time.Minute) }
	job := &fakeJob{}
	l.Bind(job)
	l.Tick(context.Background())

	got, _ := st.snapshot("g1")
	if got.Status != fixture.StatusFinished {
		t.Fatalf("finishing snapshot not persisted before stop: %+v", got)
	}
	if job.stopCount() != 1 {
		t.Fatalf("job stops = %d, want exactly 1", job.stopCount())
	}
	if len(settler.codes) != 1 || settler.codes[0] != "g1" {
		t.Fatalf("settlement not triggered: %v", settler.codes)
	}
	if !strings.Contains(buf.String(), "GAME FINISHED") {
		t.Fatalf("missing finished banner: %q", buf.String())
	}
}

func TestMissingFixtureIsToleratedWithoutStoreAccess(t *testing.T) {
	t.Parallel()
	game := fixtureAt("g1", fixture.StatusInProgress, kickoff, "0", "0")
	p := &fakeProvider{byDay: map[string][]fixture.Fixture{
		"2026-03-07": {fixtureAt("other", fixture.StatusInProgress, kickoff, "0", "0")},
	}}
	st := newFakeStore()
	pr, buf := testPrinter()

	l := NewLive(game, p, st, &fakeNotifier{}, pr, nil, time.UTC, logx.Nop())
	l.now = func() time.Time { return kickoff.Add(time.Minute) }
	job := &fakeJob{}
	l.Bind(job)
	l.Tick(context.Background())

	upserts, updates, gets := st.counts()
	if upserts+updates+gets != 0 {
		t.Fatalf("store touched on not-found tick: %d/%d/%d", upserts, updates, gets)
	}
	if job.stopCount() != 0 {
		t.Fatal("job must remain active after a provider gap")
	}
	if !strings.Contains(buf.String(), "Game Not Found") {
		t.Fatalf("missing not-found output: %q", buf.String())
	}
}

func TestTickErrorIsAbsorbedAndAlerted(t *testing.T) {
	t.Parallel()
	game := fixtureAt("g1", fixture.StatusInProgress, kickoff, "0", "0")
	p := &fakeProvider{failFrom: 1}
	st := newFakeStore()
	n := &fakeNotifier{}
	pr, _ := testPrinter()

	l := NewLive(game, p, st, n, pr, nil, time.UTC, logx.Nop())
	l.now = func() time.Time { return kickoff.Add(time.Minute) }
	job := &fakeJob{}
	l.Bind(job)
	l.Tick(context.Background())

	if job.stopCount() != 0 {
		t.Fatal("transient errors must not stop the job")
	}
	reports := n.reported()
	if len(reports) != 1 {
		t.Fatalf("error reports = %d, want 1", len(reports))
	}
	if !strings.Contains(reports[0], "Real Madrid vs FC Barcelona") {
		t.Fatalf("report must identify the fixture: %q", reports[0])
	}
	_, updates, _ := st.counts()
	if updates != 0 {
		t.Fatal("nothing may be persisted on a failed tick")
	}
}

func TestStoreReadErrorSkipsPersist(t *testing.T) {
	t.Parallel()
	game := fixtureAt("g1", fixture.StatusInProgress, kickoff, "0", "0")
	p := &fakeProvider{byDay: map[string][]fixture.Fixture{
		"2026-03-07": {fixtureAt("g1", fixture.StatusInProgress, kickoff, "1", "0")},
	}}
	st := newFakeStore()
	st.failGet = true
	n := &fakeNotifier{}
	pr, _ := testPrinter()

	l := NewLive(game, p, st, n, pr, nil, time.UTC, logx.Nop())
	l.now = func() time.Time { return kickoff.Add(time.Minute) }
	l.Bind(&fakeJob{})
	l.Tick(context.Background())

	_, updates, _ := st.counts()
	if updates != 0 {
		t.Fatal("persist must not happen when the snapshot read failed")
	}
	if len(n.reported()) != 1 {
		t.Fatalf("error reports = %d, want 1", len(n.reported()))
	}
}

func TestFirstSightingSeedsBaselineWithoutSignals(t *testing.T) {
	t.Parallel()
	game := fixtureAt("g1", fixture.StatusInProgress, kickoff, "1", "0")
	p := &fakeProvider{byDay: map[string][]fixture.Fixture{
		"2026-03-07": {game},
	}}
	st := newFakeStore() // empty: window never ingested this fixture
	pr, buf := testPrinter()

	l := NewLive(game, p, st, &fakeNotifier{}, pr, nil, time.UTC, logx.Nop())
	l.now = func() time.Time { return kickoff.Add(time.Minute) }
	l.Bind(&fakeJob{})
	l.Tick(context.Background())

	if _, ok := st.snapshot("g1"); !ok {
		t.Fatal("baseline must be persisted on first sighting")
	}
	out := buf.String()
	if strings.Contains(out, "Status Changed") || strings.Contains(out, "GOAL!") {
		t.Fatalf("no diff signals expected without a baseline: %q", out)
	}
}
