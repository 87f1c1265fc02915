// Package notify delivers milestone notifications to the admin
// side-channel: best-effort, one attempt, never on the success path of
// the transition that produced them.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dkazmin/rotabot/internal/domain"
	"github.com/dkazmin/rotabot/internal/ports"
)

// Sink delivers one notification; implementations may block.
type Sink interface {
	Send(ctx context.Context, n domain.Notification) error
}

// Async wraps a Sink into a fire-and-forget ports.Notifier: each
// notification is sent on its own goroutine, failures are logged and
// never propagated.
type Async struct {
	sink Sink
	log  *slog.Logger
}

var _ ports.Notifier = (*Async)(nil)

func NewAsync(sink Sink, logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.Default()
	}
	return &Async{sink: sink, log: logger}
}

func (a *Async) Notify(ctx context.Context, n domain.Notification) {
	// Detach from the request's cancellation: the turn that produced
	// the notification is already committed.
	ctx = context.WithoutCancel(ctx)

	go func() {
		if err := a.sink.Send(ctx, n); err != nil {
			a.log.Warn("notification dropped", "id", n.ID, "user", n.UserID, "tag", n.Tag, "err", err)
		}
	}()
}

// WriterSink formats notifications as "<user> #<tag>" lines, the shape
// the admin channel expects, with the detail on a second line.
type WriterSink struct {
	out io.Writer
}

func NewWriterSink(out io.Writer) *WriterSink {
	return &WriterSink{out: out}
}

func (s *WriterSink) Send(_ context.Context, n domain.Notification) error {
	line := fmt.Sprintf("%d #%s", n.UserID, n.Tag)
	if n.Detail != "" {
		line += "\n" + n.Detail
	}
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

// LogSink records notifications on the operator log; the default sink
// when no admin channel is configured.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{log: logger}
}

func (s *LogSink) Send(_ context.Context, n domain.Notification) error {
	s.log.Info("notification", "id", n.ID, "user", n.UserID, "tag", n.Tag, "detail", n.Detail, "at", n.At)
	return nil
}
