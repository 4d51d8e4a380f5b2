// Package payload builds the chat-UI structures eventbot responds with.
// Everything here is a pure function from domain state to an envelope; all
// storage access happens in the dispatch layer.
package payload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/money"
	"github.com/mmynk/eventbot/internal/omnibot"
)

// CallbackID tags every interactive component this bot emits, so the router
// delivers their callbacks back to us.
const CallbackID = "eventbot_events"

// Correlation-token prefixes embedded in dialog state. The token carries
// the action kind plus the originating message ts, so the submission
// handler can recover context without server-side sessions.
const (
	StateUpdateEvent = "update_event:"
	StateUpdateVenmo = "update_venmo:"
)

// nonePlaceholder fills attendee lists that would otherwise be empty.
const nonePlaceholder = "None"

// Mention formats a user id as a chat mention.
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// CreateEventPrompt returns the initial interactive message inviting the
// user to finalize a new event.
func CreateEventPrompt() *omnibot.Response {
	return &omnibot.Response{
		Actions: []omnibot.ResponseAction{{
			Action: omnibot.ActionPostMessage,
			Kwargs: omnibot.Kwargs{
				AttachmentType: "default",
				Attachments: []omnibot.Attachment{{
					CallbackID: CallbackID,
					Title:      "To finalize creation of event, edit its details",
					Actions: []omnibot.AttachmentAction{{
						Name: "edit",
						Text: "Edit event details",
						Type: "button",
					}},
				}},
			},
		}},
	}
}

// EditEventDialog returns a dialog.open response with the event edit form.
// A nil event yields blank defaults for first-time creation. The dialog
// state embeds the originating message ts so the submission can find (or
// allocate) the event record.
func EditEventDialog(triggerID, messageTS string, event *models.Event) *omnibot.Response {
	var (
		name, description string
		cost              int64
		extraAttendees    int
	)
	if event != nil {
		name = event.Name
		description = event.Description
		cost = event.Cost
		extraAttendees = event.ExtraAttendees
	}

	return &omnibot.Response{
		Actions: []omnibot.ResponseAction{{
			Action: omnibot.ActionDialogOpen,
			Kwargs: omnibot.Kwargs{
				TriggerID: triggerID,
				Dialog: &omnibot.Dialog{
					CallbackID: CallbackID,
					Title:      "Create event",
					State:      StateUpdateEvent + messageTS,
					Elements: []omnibot.DialogElement{
						{
							Label: "Event Name",
							Name:  "name",
							Type:  "text",
							Value: name,
						},
						{
							Label:    "Event Description",
							Name:     "description",
							Type:     "text",
							Optional: true,
							Value:    description,
						},
						{
							Label:    "Event Cost",
							Name:     "cost",
							Type:     "text",
							Optional: true,
							// Stored in cents, displayed in dollars.
							Value: money.Format(cost),
						},
						{
							Label:    "Extra Attendees",
							Name:     "extra_attendees",
							Type:     "text",
							Optional: true,
							Hint: "Number of attendees unable to self-register," +
								" or who forgot (used to split cost)",
							Value: strconv.Itoa(extraAttendees),
						},
					},
				},
			},
		}},
	}
}

// UpdateVenmoDialog returns a dialog.open response with the venmo-handle
// form, pre-filled with the user's current handle.
func UpdateVenmoDialog(triggerID, messageTS, venmoHandle string) *omnibot.Response {
	return &omnibot.Response{
		Actions: []omnibot.ResponseAction{{
			Action: omnibot.ActionDialogOpen,
			Kwargs: omnibot.Kwargs{
				TriggerID: triggerID,
				Dialog: &omnibot.Dialog{
					CallbackID: CallbackID,
					Title:      "Update Venmo Handle",
					State:      StateUpdateVenmo + messageTS,
					Elements: []omnibot.DialogElement{{
						Label: "Venmo Handle",
						Name:  "venmo_handle",
						Type:  "text",
						Value: venmoHandle,
					}},
				},
			},
		}},
	}
}

// EventMessage renders the event status card as chat.update kwargs.
// venmoHandles and missingMentions are the attendee partition resolved by
// the caller from a user batch lookup: handles of attendees who set one,
// mentions of those who did not.
func EventMessage(event *models.Event, channelID string, venmoHandles, missingMentions []string) omnibot.Kwargs {
	costText := fmt.Sprintf(
		"Total cost: $%s; Cost per attendee: $%s",
		money.Format(event.Cost),
		money.Format(event.CostPerAttendee()),
	)

	return omnibot.Kwargs{
		ThreadTS:       event.EventID,
		TS:             event.EventID,
		Text:           fmt.Sprintf("Event *%s*", event.Name),
		Channel:        channelID,
		AttachmentType: "default",
		Attachments: []omnibot.Attachment{
			{
				CallbackID: CallbackID,
				Fields: []omnibot.AttachmentField{
					{Title: "Description", Value: event.Description},
					{Title: "Total attendees", Value: strconv.Itoa(event.TotalAttendees())},
					{Title: "Attendee Venmo handles", Value: joinOrNone(venmoHandles)},
					{Title: "Attendees missing Venmo handle", Value: joinOrNone(missingMentions)},
					{Title: "Cost", Value: costText},
					{Title: "Extra attendees", Value: strconv.Itoa(event.ExtraAttendees)},
				},
				Actions: []omnibot.AttachmentAction{
					{Name: "update", Text: "Update event details", Type: "button", Value: event.EventID},
					{Name: "refresh", Text: "Refresh event details", Type: "button", Value: event.EventID},
				},
			},
			{
				CallbackID: CallbackID,
				Title:      "Manage your registration",
				Actions: []omnibot.AttachmentAction{
					{Name: "register", Text: "Register", Type: "button", Value: event.EventID},
					{Name: "unregister", Text: "Unregister", Type: "button", Value: event.EventID},
					{Name: "update_venmo", Text: "Update Venmo", Type: "button", Value: event.EventID},
				},
			},
		},
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return nonePlaceholder
	}
	return strings.Join(values, ", ")
}
