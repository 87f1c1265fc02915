package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionStartsAtPasswordGate(t *testing.T) {
	t.Parallel()

	sess := NewSession(42)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, StatePassword, sess.State)
}

func TestResetClearsTransientScratch(t *testing.T) {
	t.Parallel()

	sess := &Session{
		UserID:      7,
		State:       StateActivityDecision,
		Offered:     "walk",
		PendingIdea: "read",
		DeleteMode:  true,
		SyncStep:    5,
	}

	sess.Reset(StateMain)

	assert.Equal(t, StateMain, sess.State)
	assert.Empty(t, sess.Offered)
	assert.Empty(t, sess.PendingIdea)
	assert.False(t, sess.DeleteMode)
	assert.Zero(t, sess.SyncStep)
	assert.Equal(t, int64(7), sess.UserID)
}
