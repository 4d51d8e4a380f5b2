// Package omnibot defines the wire envelopes exchanged with the
// chat-integration router: the inbound webhook event it delivers, and the
// declarative response describing the chat-UI updates to perform.
package omnibot

// Inbound event kinds. The router normalizes chat-platform callbacks into
// one of these before delivery.
const (
	KindCommand          = "command"
	KindInteractive      = "interactive_message"
	KindDialogSubmission = "dialog_submission"
)

// Event is the inbound webhook payload.
type Event struct {
	// Kind discriminates command / button action / dialog submission.
	Kind string `json:"kind"`

	// CallbackID correlates an interactive component to its handler.
	CallbackID string `json:"callback_id,omitempty"`

	// Text carries the command text for KindCommand events.
	Text string `json:"text,omitempty"`

	User    EventUser    `json:"parsed_user"`
	Channel EventChannel `json:"channel"`

	// MessageTS is the timestamp token of the originating message. It is
	// the correlation key for event records.
	MessageTS string `json:"message_ts,omitempty"`

	// TriggerID is required by the platform to open a dialog.
	TriggerID string `json:"trigger_id,omitempty"`

	// Actions lists the interactive components the user activated. Only
	// the first is ever processed.
	Actions []EventAction `json:"actions,omitempty"`

	// Submission maps dialog form field names to submitted values.
	Submission map[string]string `json:"submission,omitempty"`

	// State is the opaque correlation token round-tripped through a
	// dialog (action kind + reference id, no server-side session).
	State string `json:"state,omitempty"`
}

// EventUser identifies the acting user.
type EventUser struct {
	ID string `json:"id"`
}

// EventChannel identifies the channel the interaction happened in.
type EventChannel struct {
	ID string `json:"id"`
}

// EventAction is one activated interactive component.
type EventAction struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// UserID returns the acting user's id.
func (e *Event) UserID() string { return e.User.ID }

// ChannelID returns the originating channel's id.
func (e *Event) ChannelID() string { return e.Channel.ID }
