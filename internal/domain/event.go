package domain

import "time"

// EventKind distinguishes typed messages from button presses.
type EventKind string

const (
	EventText   EventKind = "text"
	EventButton EventKind = "button"
)

// Event is one inbound transport event. The core never sees
// transport-specific framing, only the user, the kind, and the payload.
type Event struct {
	UserID  int64
	Kind    EventKind
	Text    string // set when Kind is EventText
	Payload string // set when Kind is EventButton
}

// TextEvent builds a typed-message event.
func TextEvent(userID int64, text string) Event {
	return Event{UserID: userID, Kind: EventText, Text: text}
}

// ButtonEvent builds a button-press event.
func ButtonEvent(userID int64, payload string) Event {
	return Event{UserID: userID, Kind: EventButton, Payload: payload}
}

// Button payloads understood by the state machine. Replies offer these
// and the transport echoes them back on a press.
const (
	PayloadOpenMenu  = "main"
	PayloadStartSync = "sync"
	PayloadSubmit    = "submit"
	PayloadGet       = "get"
	PayloadList      = "list"
	PayloadChoose    = "choose"
	PayloadDelete    = "delete"
	PayloadDiscard   = "discard"
	PayloadKeep      = "keep"
	PayloadDone      = "done"
	PayloadChange    = "change"
	PayloadYes       = "yes"
	PayloadNo        = "no"
)

// Option is one inline button offered with a reply.
type Option struct {
	Label   string
	Payload string
}

// Reply is one outbound message. The transport owns delivery and
// editing semantics; the core only emits content, in order.
type Reply struct {
	Text    string
	Options []Option
}

// Notification is one milestone event for the admin side-channel.
// Delivery is best-effort and never on the success path of the
// transition that produced it.
type Notification struct {
	ID     string
	UserID int64
	Tag    string
	Detail string
	At     time.Time
}
