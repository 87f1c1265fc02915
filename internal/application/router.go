package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dkazmin/rotabot/internal/domain"
	"github.com/dkazmin/rotabot/internal/ports"
	"github.com/dkazmin/rotabot/internal/render"
)

// Router owns the in-memory session table and the per-user ordering
// gates. Events for one user are handled strictly one at a time; events
// for different users run in parallel since their sessions and store
// rows are disjoint. Notifications are dispatched only after the
// user's gate is released so a slow notifier never blocks other turns.
type Router struct {
	engine   *Engine
	notifier ports.Notifier
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*domain.Session
	gates    map[int64]*sync.Mutex
}

func NewRouter(engine *Engine, notifier ports.Notifier, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		engine:   engine,
		notifier: notifier,
		log:      logger,
		sessions: map[int64]*domain.Session{},
		gates:    map[int64]*sync.Mutex{},
	}
}

// Dispatch runs one inbound event through the engine and returns the
// ordered replies. Storage failures surface as a generic failure
// notice; the session does not advance.
func (r *Router) Dispatch(ctx context.Context, event domain.Event) []domain.Reply {
	gate := r.gateFor(event.UserID)
	gate.Lock()
	sess := r.Session(event.UserID)
	replies, notes, err := r.engine.Handle(ctx, sess, event)
	gate.Unlock()

	if err != nil {
		r.log.Error("handle event", "user", event.UserID, "state", sess.State, "err", err)
		return []domain.Reply{render.Failure()}
	}

	for _, note := range notes {
		r.notifier.Notify(ctx, note)
	}

	return replies
}

// Session returns the user's session, creating it at the passphrase
// gate on first contact.
func (r *Router) Session(userID int64) *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[userID]; ok {
		return sess
	}
	sess := domain.NewSession(userID)
	r.sessions[userID] = sess
	return sess
}

func (r *Router) gateFor(userID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gate, ok := r.gates[userID]; ok {
		return gate
	}
	gate := &sync.Mutex{}
	r.gates[userID] = gate
	return gate
}
