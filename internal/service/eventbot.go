// Package service implements the eventbot dispatcher: it maps inbound chat
// events to domain operations and builds the response envelopes.
//
// General flow:
//
//  1. User messages the bot: "@eventbot create". The bot replies with an
//     interactive message carrying an "Edit event details" button.
//  2. The button opens an edit dialog; its submission creates the event
//     record (keyed by the message ts) and rewrites the message into the
//     event status card.
//  3. Users interact with the card's buttons (register, unregister,
//     refresh, update, update_venmo); every mutating interaction re-renders
//     the card.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/money"
	"github.com/mmynk/eventbot/internal/omnibot"
	"github.com/mmynk/eventbot/internal/payload"
	"github.com/mmynk/eventbot/internal/storage"
)

// helpText is returned for commands the bot does not recognize.
const helpText = "Hi! I'll help you create and manage events!"

// Diagnostic messages for malformed interactive events.
const (
	msgMissingActionValue = "Missing value or text in interactive component event"
	msgMissingActions     = "Missing actions in interactive event"
	msgUnrecognizedAction = "Unrecognized action"
)

// handlerFunc processes one routed inbound event.
type handlerFunc func(ctx context.Context, ev *omnibot.Event) *omnibot.Response

// routeKey addresses a handler by event kind and callback id (command text
// for commands).
type routeKey struct {
	kind     string
	callback string
}

// Bot dispatches inbound chat events to domain operations. It holds no
// per-request state; a single Bot serves all requests.
type Bot struct {
	store  storage.Store
	routes map[routeKey]handlerFunc
}

// NewBot creates a Bot backed by the given store. The route table is built
// once, here; dispatch is a plain map lookup, no reflection.
func NewBot(store storage.Store) *Bot {
	b := &Bot{store: store}
	b.routes = map[routeKey]handlerFunc{
		{omnibot.KindCommand, "create"}:                    b.createEventCommand,
		{omnibot.KindCommand, "event create"}:              b.createEventCommand,
		{omnibot.KindDialogSubmission, payload.CallbackID}: b.handleDialogSubmission,
		{omnibot.KindInteractive, payload.CallbackID}:      b.handleInteractiveEvent,
	}
	return b
}

// HandleEvent dispatches one inbound event and returns the response
// envelope. It never returns nil: unroutable events get a diagnostic or
// help reply.
func (b *Bot) HandleEvent(ctx context.Context, ev *omnibot.Event) *omnibot.Response {
	key := routeKey{kind: ev.Kind}
	switch ev.Kind {
	case omnibot.KindCommand:
		key.callback = strings.ToLower(strings.TrimSpace(ev.Text))
	default:
		key.callback = ev.CallbackID
	}

	handler, ok := b.routes[key]
	if !ok {
		if ev.Kind == omnibot.KindCommand {
			return omnibot.SimpleResponse(helpText, true)
		}
		slog.Warn("No handler for event", "kind", ev.Kind, "callback_id", ev.CallbackID)
		return omnibot.SimpleResponse("Unsupported event", true)
	}
	return handler(ctx, ev)
}

// createEventCommand receives "create" command messages. It responds with
// an interactive message letting the user click through to the edit dialog.
// No record is created yet; that happens on dialog submission.
func (b *Bot) createEventCommand(_ context.Context, _ *omnibot.Event) *omnibot.Response {
	return payload.CreateEventPrompt()
}

// handleDialogSubmission receives dialog submissions and routes them by the
// correlation token in the dialog state.
func (b *Bot) handleDialogSubmission(ctx context.Context, ev *omnibot.Event) *omnibot.Response {
	switch {
	case strings.HasPrefix(ev.State, payload.StateUpdateVenmo):
		return b.updateVenmoSubmission(ctx, ev)
	case strings.HasPrefix(ev.State, payload.StateUpdateEvent):
		return b.upsertEventSubmission(ctx, ev)
	default:
		// backwards compat: state is a bare event id
		return b.upsertEventSubmission(ctx, ev)
	}
}

// handleInteractiveEvent receives button clicks on the bot's messages. Only
// the first action is processed; the platform never sends more than one.
func (b *Bot) handleInteractiveEvent(ctx context.Context, ev *omnibot.Event) *omnibot.Response {
	userID := ev.UserID()
	venmoHandle := ""
	user, err := b.store.GetUser(ctx, userID)
	switch {
	case err == nil:
		venmoHandle = user.VenmoHandle
	case !errors.Is(err, storage.ErrNotFound):
		slog.Warn("Failed to load user", "user_id", userID, "error", err)
	}

	for _, action := range ev.Actions {
		if action.Name == "" {
			return omnibot.SimpleResponse(msgMissingActionValue, true)
		}
		if action.Name == "edit" {
			return payload.EditEventDialog(ev.TriggerID, ev.MessageTS, nil)
		}

		eventID := strings.ToLower(action.Value)
		if eventID == "" {
			return omnibot.SimpleResponse(msgMissingActionValue, true)
		}
		event, err := b.store.GetEvent(ctx, eventID)
		if errors.Is(err, storage.ErrNotFound) {
			msg := fmt.Sprintf("Event with event_id %s does not exist.", eventID)
			return omnibot.SimpleResponse(msg, true)
		}
		if err != nil {
			slog.Error("Failed to load event", "event_id", eventID, "error", err)
			return omnibot.SimpleResponse("Failed to load event", true)
		}

		var resp *omnibot.Response
		switch action.Name {
		case "register":
			resp = b.registerAttendee(ctx, event, userID)
		case "unregister":
			resp = b.unregisterAttendee(ctx, event, userID)
		case "update":
			// Opens a dialog without touching the record, so no card
			// re-render: return immediately.
			return payload.EditEventDialog(ev.TriggerID, ev.MessageTS, event)
		case "update_venmo":
			return payload.UpdateVenmoDialog(ev.TriggerID, ev.MessageTS, venmoHandle)
		case "refresh":
			resp = &omnibot.Response{}
		default:
			return omnibot.SimpleResponse(msgUnrecognizedAction, true)
		}

		// Shared post-action step: always re-render the status card,
		// whether or not the mutation changed anything.
		resp.Actions = []omnibot.ResponseAction{{
			Action: omnibot.ActionUpdate,
			Kwargs: b.eventMessage(ctx, event, ev.ChannelID()),
		}}
		return resp
	}
	return omnibot.SimpleResponse(msgMissingActions, true)
}

func (b *Bot) registerAttendee(ctx context.Context, event *models.Event, userID string) *omnibot.Response {
	mention := payload.Mention(userID)
	if event.UserIsAttendee(userID) {
		return omnibot.SimpleResponse(mention+" already registered", true)
	}
	event.AddAttendee(userID)
	if err := b.store.PutEvent(ctx, event); err != nil {
		slog.Error("Failed to register attendee", "event_id", event.EventID, "user_id", userID, "error", err)
		return omnibot.SimpleResponse("Failed to register "+mention, true)
	}
	return omnibot.SimpleResponse("Registered "+mention, true)
}

func (b *Bot) unregisterAttendee(ctx context.Context, event *models.Event, userID string) *omnibot.Response {
	mention := payload.Mention(userID)
	if !event.UserIsAttendee(userID) {
		return omnibot.SimpleResponse(mention+" not registered.", true)
	}
	event.RemoveAttendee(userID)
	if err := b.store.PutEvent(ctx, event); err != nil {
		slog.Error("Failed to unregister attendee", "event_id", event.EventID, "user_id", userID, "error", err)
		return omnibot.SimpleResponse("Failed to unregister "+mention, true)
	}
	return omnibot.SimpleResponse("Unregistered "+mention, true)
}

// updateVenmoSubmission upserts the submitting user's venmo handle, then
// re-renders the related event card. A vanished event downgrades to an
// ephemeral warning; the handle save is still acknowledged.
func (b *Bot) updateVenmoSubmission(ctx context.Context, ev *omnibot.Event) *omnibot.Response {
	userID := ev.UserID()
	handle, ok := ev.Submission["venmo_handle"]
	if !ok {
		return omnibot.SimpleResponse("Error: venmo_handle missing from form submission.", true)
	}

	user, err := b.store.GetUser(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		user = &models.User{UserID: userID}
	case err != nil:
		slog.Error("Failed to save venmo handle", "user_id", userID, "error", err)
		return omnibot.SimpleResponse("Failed to save venmo handle", true)
	}
	user.VenmoHandle = handle
	if err := b.store.PutUser(ctx, user); err != nil {
		slog.Error("Failed to save venmo handle", "user_id", userID, "error", err)
		return omnibot.SimpleResponse("Failed to save venmo handle", true)
	}

	eventID := strings.TrimPrefix(ev.State, payload.StateUpdateVenmo)
	event, err := b.store.GetEvent(ctx, eventID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("Failed to load event after venmo save", "event_id", eventID, "error", err)
		}
		msg := "Successfully saved venmo handle." +
			" However, we could not find the related event; please update manually."
		return omnibot.SimpleResponse(msg, true)
	}

	resp := omnibot.SimpleResponse("Successfully saved venmo handle.", true)
	resp.Actions = []omnibot.ResponseAction{{
		Action: omnibot.ActionUpdate,
		Kwargs: b.eventMessage(ctx, event, ev.ChannelID()),
	}}
	return resp
}

// upsertEventSubmission creates or edits the event referenced by the dialog
// state and rewrites the originating message into the status card.
func (b *Bot) upsertEventSubmission(ctx context.Context, ev *omnibot.Event) *omnibot.Response {
	eventID := ev.State
	if strings.HasPrefix(ev.State, payload.StateUpdateEvent) {
		eventID = strings.TrimPrefix(ev.State, payload.StateUpdateEvent)
	}
	if eventID == "" {
		return omnibot.SimpleResponse("Error: missing event reference in form submission.", true)
	}

	name, ok := ev.Submission["name"]
	if !ok || name == "" {
		return omnibot.SimpleResponse("Error: name missing from form submission.", true)
	}
	description := ev.Submission["description"]

	extraAttendees := 0
	if v := ev.Submission["extra_attendees"]; v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return omnibot.SimpleResponse("Error: extra_attendees must be a number.", true)
		}
		extraAttendees = n
	}

	cost, err := money.ParseCents(ev.Submission["cost"])
	if err != nil {
		return omnibot.SimpleResponse("Error: cost must be a dollar amount.", true)
	}

	event, err := b.store.GetEvent(ctx, eventID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Creator is recorded only at creation time.
		event = &models.Event{
			EventID: eventID,
			Status:  models.StatusOpen,
			Creator: ev.UserID(),
		}
	case err != nil:
		slog.Error("Failed to load event", "event_id", eventID, "error", err)
		return omnibot.SimpleResponse("Failed to create event", true)
	}

	event.Name = name
	event.Description = description
	event.ExtraAttendees = extraAttendees
	event.Cost = cost

	if err := b.store.PutEvent(ctx, event); err != nil {
		slog.Error("Failed to create event", "event_id", eventID, "error", err)
		return omnibot.SimpleResponse("Failed to create event", true)
	}
	slog.Info("Event saved", "event_id", eventID, "creator", event.Creator)

	return &omnibot.Response{
		Actions: []omnibot.ResponseAction{{
			Action: omnibot.ActionUpdate,
			Kwargs: b.eventMessage(ctx, event, ev.ChannelID()),
		}},
	}
}

// eventMessage resolves attendee payment handles with a batch lookup and
// renders the status card. Attendees with no User record at all appear in
// neither list. Lookup failures degrade to an empty partition; the card
// still renders.
func (b *Bot) eventMessage(ctx context.Context, event *models.Event, channelID string) omnibot.Kwargs {
	var venmoHandles, missingMentions []string
	if len(event.Attendees) > 0 {
		users, err := b.store.BatchGetUsers(ctx, event.Attendees)
		if err != nil {
			slog.Error("Failed to batch get attendees", "event_id", event.EventID, "error", err)
		} else {
			withHandle, withoutHandle := lo.FilterReject(users, func(u *models.User, _ int) bool {
				return u.VenmoHandle != ""
			})
			venmoHandles = lo.Map(withHandle, func(u *models.User, _ int) string {
				return u.VenmoHandle
			})
			missingMentions = lo.Map(withoutHandle, func(u *models.User, _ int) string {
				return payload.Mention(u.UserID)
			})
		}
	}
	return payload.EventMessage(event, channelID, venmoHandles, missingMentions)
}
