package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkazmin/rotabot/internal/domain"
	"github.com/dkazmin/rotabot/internal/ports"
)

var errWriteFailed = errors.New("disk full")

type memStore struct {
	mu          sync.Mutex
	seed        []domain.Activity
	collections map[int64]map[domain.Kind][]domain.Activity
	touched     map[int64]bool
	writes      int
	failWrites  bool
}

var _ ports.Store = (*memStore)(nil)

func newMemStore(seed ...domain.Activity) *memStore {
	return &memStore{
		seed:        seed,
		collections: map[int64]map[domain.Kind][]domain.Activity{},
		touched:     map[int64]bool{},
	}
}

func (s *memStore) Load(_ context.Context, userID int64, kind domain.Kind) ([]domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneActivities(s.collections[userID][kind]), nil
}

func (s *memStore) Replace(_ context.Context, userID int64, kind domain.Kind, activities []domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errWriteFailed
	}
	s.ensure(userID)[kind] = cloneActivities(activities)
	s.writes++
	return nil
}

func (s *memStore) Append(_ context.Context, userID int64, kind domain.Kind, activity domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errWriteFailed
	}
	user := s.ensure(userID)
	user[kind] = append(user[kind], activity)
	s.writes++
	return nil
}

func (s *memStore) LoadSeed(_ context.Context) ([]domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneActivities(s.seed), nil
}

func (s *memStore) AppendSeed(_ context.Context, activity domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errWriteFailed
	}
	s.seed = append(s.seed, activity)
	s.writes++
	return nil
}

func (s *memStore) ReplaceSeed(_ context.Context, activities []domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errWriteFailed
	}
	s.seed = cloneActivities(activities)
	s.writes++
	return nil
}

func (s *memStore) InitializeIfAbsent(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errWriteFailed
	}
	s.touched[userID] = true
	user := s.ensure(userID)
	if len(user[domain.KindPool]) == 0 {
		user[domain.KindPool] = cloneActivities(s.seed)
	}
	s.writes++
	return nil
}

func (s *memStore) Initialized(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[userID], nil
}

func (s *memStore) WipeAll(_ context.Context, includeSeed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return errWriteFailed
	}
	s.collections = map[int64]map[domain.Kind][]domain.Activity{}
	s.touched = map[int64]bool{}
	if includeSeed {
		s.seed = nil
	}
	return nil
}

func (s *memStore) ensure(userID int64) map[domain.Kind][]domain.Activity {
	user, ok := s.collections[userID]
	if !ok {
		user = map[domain.Kind][]domain.Activity{}
		s.collections[userID] = user
	}
	return user
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func cloneActivities(activities []domain.Activity) []domain.Activity {
	if activities == nil {
		return nil
	}
	out := make([]domain.Activity, len(activities))
	copy(out, activities)
	return out
}

type fixedRand struct {
	v int
}

func (f fixedRand) IntN(n int) int {
	return f.v % n
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func testPassphrases() []string {
	return []string{"🐱", "🦁"}
}

func newTestEngine(t *testing.T, store ports.Store, rnd ports.Rand) *Engine {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine, err := NewEngine(store, rnd, fixedClock{now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}, testPassphrases(), logger)
	require.NoError(t, err)
	return engine
}

func handle(t *testing.T, engine *Engine, sess *domain.Session, event domain.Event) ([]domain.Reply, []domain.Notification) {
	t.Helper()

	replies, notes, err := engine.Handle(context.Background(), sess, event)
	require.NoError(t, err)
	return replies, notes
}

func tags(notes []domain.Notification) []string {
	out := make([]string, 0, len(notes))
	for _, note := range notes {
		out = append(out, note.Tag)
	}
	return out
}
