package omnibot

// Response action discriminators understood by the router.
const (
	ActionPostMessage = "chat.postMessage"
	ActionUpdate      = "chat.update"
	ActionDialogOpen  = "dialog.open"
)

// Response is the outbound envelope returned to the router.
//
// Responses carries simple text replies; Actions carries structured chat
// operations. The two are independent: an ephemeral acknowledgement and a
// message update can travel in the same envelope.
type Response struct {
	Responses []Message        `json:"responses,omitempty"`
	Actions   []ResponseAction `json:"actions,omitempty"`
}

// Message is a simple text reply. Ephemeral messages are shown only to the
// acting user, not broadcast to the channel.
type Message struct {
	Text      string `json:"text"`
	Ephemeral bool   `json:"ephemeral,omitempty"`
}

// ResponseAction is one chat operation for the router to perform.
type ResponseAction struct {
	Action string `json:"action"`
	Kwargs Kwargs `json:"kwargs"`
}

// Kwargs holds the per-action arguments. The populated fields depend on the
// action: postMessage/update use the message fields, dialog.open uses
// TriggerID and Dialog.
type Kwargs struct {
	ThreadTS       string       `json:"thread_ts,omitempty"`
	TS             string       `json:"ts,omitempty"`
	Text           string       `json:"text,omitempty"`
	Channel        string       `json:"channel,omitempty"`
	AttachmentType string       `json:"attachment_type,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	TriggerID      string       `json:"trigger_id,omitempty"`
	Dialog         *Dialog      `json:"dialog,omitempty"`
}

// Attachment is one structured block of a chat message.
type Attachment struct {
	CallbackID string             `json:"callback_id"`
	Title      string             `json:"title,omitempty"`
	Fields     []AttachmentField  `json:"fields,omitempty"`
	Actions    []AttachmentAction `json:"actions,omitempty"`
}

// AttachmentField is one titled value on an attachment.
type AttachmentField struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// AttachmentAction is an actionable component (button) on an attachment.
type AttachmentAction struct {
	Name  string `json:"name"`
	Text  string `json:"text"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Dialog describes a modal form to open on the chat platform.
type Dialog struct {
	CallbackID string          `json:"callback_id"`
	Title      string          `json:"title"`
	State      string          `json:"state"`
	Elements   []DialogElement `json:"elements"`
}

// DialogElement is one labeled form field.
type DialogElement struct {
	Label    string `json:"label"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
	Hint     string `json:"hint,omitempty"`
	Value    string `json:"value"`
}

// SimpleResponse wraps a single text reply in a response envelope.
func SimpleResponse(text string, ephemeral bool) *Response {
	return &Response{
		Responses: []Message{{Text: text, Ephemeral: ephemeral}},
	}
}
