// Package notify is the out-of-band alert channel for operational errors.
// Sends are best-effort: failures are logged and swallowed, never returned
// to the tick that triggered them.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier is the fire-and-forget alert contract used by the tracker core.
type Notifier interface {
	// ReportError alerts operators about a failure, with enough context to
	// identify the affected fixture or job.
	ReportError(ctx context.Context, message, errContext string)
	// Startup and Shutdown announce service lifecycle transitions.
	Startup(ctx context.Context)
	Shutdown(ctx context.Context)
}

// Nop is the disabled notifier: it only logs locally.
type Nop struct {
	Log zerolog.Logger
}

func (n Nop) ReportError(_ context.Context, message, errContext string) {
	n.Log.Warn().Str("context", errContext).Msg(message)
}

func (n Nop) Startup(context.Context)  {}
func (n Nop) Shutdown(context.Context) {}
