package application

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazmin/rotabot/internal/domain"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) recorded() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.notes...)
}

func newTestRouter(t *testing.T, store *memStore) (*Router, *recordingNotifier) {
	t.Helper()

	engine := newTestEngine(t, store, fixedRand{})
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(engine, notifier, logger), notifier
}

func TestDispatchDeliversNotificationsAfterTheTurn(t *testing.T) {
	t.Parallel()

	store := newMemStore("meditate")
	router, notifier := newTestRouter(t, store)
	ctx := context.Background()

	router.Dispatch(ctx, domain.TextEvent(1, testPassphrases()[0]))
	router.Dispatch(ctx, domain.ButtonEvent(1, domain.PayloadOpenMenu))
	replies := router.Dispatch(ctx, domain.ButtonEvent(1, domain.PayloadGet))

	require.NotEmpty(t, replies)
	notes := notifier.recorded()
	require.Len(t, notes, 1)
	assert.Equal(t, "got", notes[0].Tag)
	assert.Equal(t, "meditate", notes[0].Detail)
	assert.Equal(t, int64(1), notes[0].UserID)
}

func TestDispatchAnswersStorageFailureWithGenericNotice(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	router, notifier := newTestRouter(t, store)
	ctx := context.Background()

	store.failWrites = true
	replies := router.Dispatch(ctx, domain.TextEvent(1, testPassphrases()[0]))

	require.Len(t, replies, 1)
	assert.Equal(t, "Something went wrong. Try again.", replies[0].Text)
	assert.Empty(t, notifier.recorded())

	// The gate stayed shut, so the next attempt is answered as a
	// passphrase again.
	store.failWrites = false
	replies = router.Dispatch(ctx, domain.TextEvent(1, "nope"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Wrong password.", replies[0].Text)
}

func TestSessionIsCreatedOncePerUser(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, newMemStore())

	first := router.Session(7)
	assert.Equal(t, domain.StatePassword, first.State)
	assert.Same(t, first, router.Session(7))
	assert.NotSame(t, first, router.Session(8))
}

func TestDispatchSerializesPerUserAndRunsUsersInParallel(t *testing.T) {
	t.Parallel()

	store := newMemStore("a", "b", "c", "d")
	router, _ := newTestRouter(t, store)
	ctx := context.Background()

	const users = 8
	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			router.Dispatch(ctx, domain.TextEvent(userID, testPassphrases()[0]))
			router.Dispatch(ctx, domain.ButtonEvent(userID, domain.PayloadOpenMenu))
			router.Dispatch(ctx, domain.ButtonEvent(userID, domain.PayloadGet))
			router.Dispatch(ctx, domain.ButtonEvent(userID, domain.PayloadKeep))
		}(u)
	}
	wg.Wait()

	for u := int64(1); u <= users; u++ {
		current, err := store.Load(ctx, u, domain.KindCurrent)
		require.NoError(t, err)
		require.Len(t, current, 1, "user %d", u)
		assert.Equal(t, domain.Activity("a"), current[0])

		pool, err := store.Load(ctx, u, domain.KindPool)
		require.NoError(t, err)
		assert.Len(t, pool, 3, "user %d", u)
	}
}
