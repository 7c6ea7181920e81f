// Package printer renders human-readable tracker output. It is constructed
// once and injected wherever needed; there is no package-level singleton.
package printer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"porrapp/internal/fixture"
)

const rule = "════════════════════════════════════════════════════════════════════════════════"

// Printer writes formatted match lines to a single writer. Safe for use from
// multiple tracker jobs.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	loc *time.Location
	now func() time.Time
}

func New(w io.Writer, loc *time.Location) *Printer {
	if loc == nil {
		loc = time.Local
	}
	return &Printer{w: w, loc: loc, now: time.Now}
}

func (p *Printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) stamp() string {
	return p.now().In(p.loc).Format("15:04:05")
}

// Banner announces service startup.
func (p *Printer) Banner() {
	p.printf("\n%s\n\n  ⚽ LaLiga Match Tracker │ Service Started\n  %s\n\n%s\n\n",
		rule, p.now().In(p.loc).Format("Monday, January 2, 2006 - 15:04:05"), rule)
}

func (p *Printer) NoGamesToday() {
	p.printf("   ℹ️  No games scheduled for today\n\n")
}

func (p *Printer) TodayHeader(count int) {
	p.printf("📋 Today's Games (%d)\n\n", count)
}

// GameInfo prints one line of the daily fixture list.
func (p *Printer) GameInfo(f fixture.Fixture) {
	switch f.Status {
	case fixture.StatusPending:
		p.printf("   📅 %-12s │ %s vs %s │ %s\n",
			f.Status, f.HomeTeam.FullName, f.AwayTeam.FullName,
			f.Date.In(p.loc).Format("02/01 15:04"))
	default:
		icon := "📋"
		if f.Status == fixture.StatusInProgress {
			icon = "🟢"
		} else if f.Status == fixture.StatusFinished {
			icon = "✅"
		}
		p.printf("   %s %-12s │ %-20s %d - %d %s\n",
			icon, f.Status, f.HomeTeam.FullName,
			f.Score.Home.DisplayTotal(), f.Score.Away.DisplayTotal(),
			f.AwayTeam.FullName)
	}
}

func (p *Printer) TrackerStarted(f fixture.Fixture) {
	p.printf("\n%s\n\n🎮 Real-Time Tracker Started │ %s\n   Started at: %s\n\n",
		rule, f.Title(), p.stamp())
}

// Countdown is emitted once per tick while the fixture has not kicked off.
func (p *Printer) Countdown(f fixture.Fixture, minutesLeft int) {
	p.printf("[%s] ⏱️  Countdown │ %s │ Starts in %d min\n", p.stamp(), f.Title(), minutesLeft)
}

func (p *Printer) NotFound(f fixture.Fixture) {
	p.printf("[%s] ❌ Game Not Found │ %s\n", p.stamp(), f.Title())
}

// ScoreLine heads every polled tick with the current score.
func (p *Printer) ScoreLine(f fixture.Fixture) {
	p.printf("[%s] %s vs %s │ %s-%s\n", p.stamp(),
		f.HomeTeam.FullName, f.AwayTeam.FullName,
		f.Score.Home.Total, f.Score.Away.Total)
}

func (p *Printer) StatusChanged(f fixture.Fixture) {
	icon := "📋"
	switch f.Status {
	case fixture.StatusFinished:
		icon = "🏁"
	case fixture.StatusInProgress:
		icon = "▶️"
	}
	p.printf("   %s Status Changed → %s\n", icon, f.Status)
}

func (p *Printer) StatusUnchanged(f fixture.Fixture) {
	p.printf("   📊 Status: %s\n", f.Status)
}

func (p *Printer) Goal(team fixture.Team, score fixture.TeamScore) {
	p.printf("   ⚽ GOAL! │ %s scored! (%s)\n", team.FullName, score.Total)
}

func (p *Printer) NoGoals() {
	p.printf("   💤 No goals scored\n")
}

func (p *Printer) GameFinished(f fixture.Fixture) {
	p.printf("🏁 GAME FINISHED │ Final Score: %s-%s\n%s\n\n",
		f.Score.Home.Total, f.Score.Away.Total, rule)
}
