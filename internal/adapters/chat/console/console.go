// Package console is a development stand-in for the real chat
// transport: a line-oriented stdin/stdout loop. Typing the payload of
// a button shown with the previous reply counts as pressing it; any
// other line is a plain text message.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dkazmin/rotabot/internal/application"
	"github.com/dkazmin/rotabot/internal/domain"
)

type Loop struct {
	router  *application.Router
	userID  int64
	in      io.Reader
	out     io.Writer
	offered map[string]struct{}
}

func New(router *application.Router, userID int64, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		router:  router,
		userID:  userID,
		in:      in,
		out:     out,
		offered: map[string]struct{}{},
	}
}

// Run reads lines until EOF or context cancellation. The conversation
// opens with /start, like a fresh chat would.
func (l *Loop) Run(ctx context.Context) error {
	l.deliver(l.router.Dispatch(ctx, domain.TextEvent(l.userID, "/start")))

	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		event := domain.TextEvent(l.userID, line)
		if _, ok := l.offered[line]; ok {
			event = domain.ButtonEvent(l.userID, line)
		}

		l.deliver(l.router.Dispatch(ctx, event))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func (l *Loop) deliver(replies []domain.Reply) {
	// Buttons stay pressable until the next reply that carries any.
	for _, reply := range replies {
		if len(reply.Options) > 0 {
			l.offered = map[string]struct{}{}
			break
		}
	}

	for _, reply := range replies {
		fmt.Fprintln(l.out, reply.Text)
		for _, option := range reply.Options {
			l.offered[option.Payload] = struct{}{}
			fmt.Fprintf(l.out, "  [%s] %s\n", option.Payload, option.Label)
		}
	}
}
