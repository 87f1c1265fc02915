package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkazmin/rotabot/internal/domain"
)

// The current slot and the pool must stay disjoint through any legal
// event sequence. Submitted ideas are unique so membership checks are
// exact; drawing does not remove, promoting does, swapping requeues.
func TestCurrentAndPoolStayDisjoint(t *testing.T) {
	t.Parallel()

	const steps = 400
	rng := rand.New(rand.NewPCG(7, 13))

	store := newMemStore("seed-a", "seed-b", "seed-c")
	engine := newTestEngine(t, store, nil)
	sess := domain.NewSession(1)
	handle(t, engine, sess, domain.TextEvent(1, testPassphrases()[0]))

	buttons := []string{
		domain.PayloadOpenMenu, domain.PayloadStartSync,
		domain.PayloadSubmit, domain.PayloadGet, domain.PayloadList,
		domain.PayloadChoose, domain.PayloadDelete,
		domain.PayloadDiscard, domain.PayloadKeep,
		domain.PayloadDone, domain.PayloadChange,
		domain.PayloadYes, domain.PayloadNo,
		"ready", "tired", "sunny",
	}

	ideas := 0
	for step := 0; step < steps; step++ {
		var event domain.Event
		switch {
		case sess.State == domain.StateSubmitActivity:
			ideas++
			event = domain.TextEvent(1, fmt.Sprintf("idea-%d", ideas))
		case sess.State == domain.StateChooseFromList && rng.IntN(4) > 0:
			event = domain.TextEvent(1, fmt.Sprintf("%d %d", rng.IntN(6), rng.IntN(6)))
		case rng.IntN(10) == 0:
			event = domain.TextEvent(1, "/reset")
		case rng.IntN(10) == 0:
			event = domain.TextEvent(1, testPassphrases()[1])
		default:
			event = domain.ButtonEvent(1, buttons[rng.IntN(len(buttons))])
		}

		_, _, err := engine.Handle(context.Background(), sess, event)
		require.NoError(t, err, "step %d state %s", step, sess.State)

		current, err := store.Load(context.Background(), 1, domain.KindCurrent)
		require.NoError(t, err)
		require.LessOrEqual(t, len(current), 1, "step %d", step)
		if len(current) == 0 {
			continue
		}

		pool, err := store.Load(context.Background(), 1, domain.KindPool)
		require.NoError(t, err)
		for _, a := range pool {
			require.NotEqual(t, current[0], a, "step %d: current leaked into the pool", step)
		}
	}
}
