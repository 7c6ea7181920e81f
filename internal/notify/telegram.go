package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"porrapp/pkg/logx"
)

type Config struct {
	Enabled    bool
	Token      string
	ChatID     int64
	RatePerSec int
	Timezone   string
}

// Telegram delivers alerts to a fixed chat over the Bot API.
type Telegram struct {
	bot     *tele.Bot
	chatID  int64
	limiter *rate.Limiter
	log     zerolog.Logger
	loc     *time.Location
	now     func() time.Time
}

// New builds the Telegram notifier. Missing credentials degrade to the Nop
// notifier with a single warning, matching the tracker's best-effort stance.
func New(cfg Config, log zerolog.Logger) (Notifier, error) {
	if !cfg.Enabled || strings.TrimSpace(cfg.Token) == "" || cfg.ChatID == 0 {
		log.Warn().Msg("telegram credentials not configured, notifications disabled")
		return Nop{Log: log}, nil
	}

	bot, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}

	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 3
	}
	loc, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil || cfg.Timezone == "" {
		loc = time.Local
	}

	return &Telegram{
		bot:     bot,
		chatID:  cfg.ChatID,
		limiter: rate.NewLimiter(rate.Limit(perSec), perSec),
		log:     logx.Component(log, "telegram"),
		loc:     loc,
		now:     time.Now,
	}, nil
}

func (t *Telegram) ReportError(ctx context.Context, message, errContext string) {
	lines := []string{
		"❌ <b>Critical Error</b>",
		"",
		fmt.Sprintf("⏰ <i>%s</i>", t.timestamp()),
	}
	if errContext != "" {
		lines = append(lines, fmt.Sprintf("📍 Context: %s", escapeHTML(errContext)), "")
	}
	lines = append(lines, fmt.Sprintf("<code>%s</code>", escapeHTML(message)))
	t.send(ctx, strings.Join(lines, "\n"))
}

func (t *Telegram) Startup(ctx context.Context) {
	t.send(ctx, strings.Join([]string{
		"🚀 <b>Porrapp Tracker Started</b>",
		"",
		fmt.Sprintf("⏰ <i>%s</i>", t.timestamp()),
		"✅ Scheduler initialized",
		"📊 Real-time tracking active",
	}, "\n"))
}

func (t *Telegram) Shutdown(ctx context.Context) {
	t.send(ctx, strings.Join([]string{
		"🛑 <b>Porrapp Tracker Stopped</b>",
		"",
		fmt.Sprintf("⏰ <i>%s</i>", t.timestamp()),
		"👋 Service gracefully terminated",
	}, "\n"))
}

// send never returns an error to the caller. Bursts beyond the rate limit
// are dropped rather than queued so a failing tick can't block on Telegram.
func (t *Telegram) send(_ context.Context, text string) {
	if !t.limiter.Allow() {
		t.log.Warn().Msg("notification dropped, rate limit exceeded")
		return
	}
	_, err := t.bot.Send(tele.ChatID(t.chatID), text, &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	})
	if err != nil {
		t.log.Warn().Err(err).Msg("telegram notification failed")
	}
}

func (t *Telegram) timestamp() string {
	return t.now().In(t.loc).Format("Monday, 2 January 2006 15:04:05")
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
