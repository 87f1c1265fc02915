package domain

// State tags one position in the conversation state machine.
type State string

const (
	StatePassword          State = "password"
	StateMain              State = "main"
	StateAction            State = "action"
	StateSubmitActivity    State = "submit_activity"
	StateConfirmNewCurrent State = "confirm_new_current"
	StateChooseFromList    State = "choose_from_list"
	StateActivityDecision  State = "activity_decision"
	StateGoalDecision      State = "goal_decision"
	StateSync              State = "sync"
)

// Session is one user's in-memory conversational position. It is
// created lazily on first contact and reset in place; the durable
// collections live in the store, never here. Everything in a Session
// is reconstructible: after a restart the decision states treat a
// missing Offered value as "offer lost" and fall back to the action
// menu rather than trusting stale scratch.
type Session struct {
	UserID int64
	State  State

	// Offered is the activity shown during the discard/keep decision.
	// Held only in memory; empty when no offer is outstanding.
	Offered Activity

	// PendingIdea is a submitted activity awaiting the make-it-current
	// confirmation.
	PendingIdea Activity

	// DeleteMode distinguishes "delete many" from "choose one" inside
	// the shared list-input state.
	DeleteMode bool

	// SyncStep indexes the check-in questionnaire ladder while State
	// is StateSync.
	SyncStep int
}

// NewSession returns a session at the passphrase gate.
func NewSession(userID int64) *Session {
	return &Session{UserID: userID, State: StatePassword}
}

// Reset clears all transient scratch and moves the session to the
// given state.
func (s *Session) Reset(to State) {
	s.State = to
	s.Offered = ""
	s.PendingIdea = ""
	s.DeleteMode = false
	s.SyncStep = 0
}
