package domain

import "strings"

// Activity is one pool entry: an opaque free-text task or idea. An
// activity has no identity beyond its text; duplicate texts are
// distinct entries by position.
type Activity string

// Blank reports whether the activity is empty after trimming. Blank
// activities are rejected on submission and skipped on load.
func (a Activity) Blank() bool {
	return strings.TrimSpace(string(a)) == ""
}

// Kind names one persisted per-user collection.
type Kind string

const (
	// KindPool holds the remaining, not-yet-taken activities.
	KindPool Kind = "pool"
	// KindCurrent holds zero or one activity the user is pursuing.
	KindCurrent Kind = "current"
	// KindDone is the append-only completion history.
	KindDone Kind = "done"
	// KindTouched is an empty marker: the user has passed the
	// passphrase gate and their collections are initialized.
	KindTouched Kind = "touched"
)
