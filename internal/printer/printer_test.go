package printer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"porrapp/internal/fixture"
)

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	p := New(&buf, time.UTC)
	p.now = func() time.Time { return time.Date(2026, 3, 7, 21, 5, 0, 0, time.UTC) }
	return p, &buf
}

func liveFixture() fixture.Fixture {
	return fixture.Fixture{
		Code:     "g1",
		Date:     time.Date(2026, 3, 7, 21, 0, 0, 0, time.UTC),
		Status:   fixture.StatusInProgress,
		HomeTeam: fixture.Team{FullName: "Real Madrid"},
		AwayTeam: fixture.Team{FullName: "FC Barcelona"},
		Score: fixture.Score{
			Home: fixture.TeamScore{Total: "1"},
			Away: fixture.TeamScore{Total: "0"},
		},
	}
}

func TestCountdownLine(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()
	p.Countdown(liveFixture(), 12)

	out := buf.String()
	if !strings.Contains(out, "Starts in 12 min") {
		t.Fatalf("missing countdown: %q", out)
	}
	if !strings.Contains(out, "Real Madrid vs FC Barcelona") {
		t.Fatalf("missing title: %q", out)
	}
	if !strings.Contains(out, "[21:05:00]") {
		t.Fatalf("missing timestamp: %q", out)
	}
}

func TestScoreAndGoalLines(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()
	f := liveFixture()
	p.ScoreLine(f)
	p.Goal(f.HomeTeam, f.Score.Home)
	p.NoGoals()

	out := buf.String()
	if !strings.Contains(out, "1-0") {
		t.Fatalf("missing score: %q", out)
	}
	if !strings.Contains(out, "Real Madrid scored! (1)") {
		t.Fatalf("missing goal line: %q", out)
	}
	if !strings.Contains(out, "No goals scored") {
		t.Fatalf("missing no-goals line: %q", out)
	}
}

func TestGameInfoVariants(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()

	pending := liveFixture()
	pending.Status = fixture.StatusPending
	p.GameInfo(pending)

	finished := liveFixture()
	finished.Status = fixture.StatusFinished
	finished.Score.Home.Total = "2"
	p.GameInfo(finished)

	out := buf.String()
	if !strings.Contains(out, "07/03 21:00") {
		t.Fatalf("pending line must show kickoff time: %q", out)
	}
	if !strings.Contains(out, "2 - 0") {
		t.Fatalf("finished line must show numeric score: %q", out)
	}
}

func TestStatusChangeIcons(t *testing.T) {
	t.Parallel()
	p, buf := newTestPrinter()
	f := liveFixture()
	f.Status = fixture.StatusFinished
	p.StatusChanged(f)
	if !strings.Contains(buf.String(), "Status Changed → Finished") {
		t.Fatalf("unexpected status line: %q", buf.String())
	}
}
