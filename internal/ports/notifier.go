package ports

import (
	"context"

	"github.com/dkazmin/rotabot/internal/domain"
)

// Notifier delivers milestone notifications to the admin side-channel.
// Implementations are best-effort: one attempt, failures logged, never
// blocking or failing the transition that produced the notification.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}
