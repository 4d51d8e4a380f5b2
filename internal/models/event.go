package models

import "time"

// StatusOpen is the only event status currently written. The status
// listing index exists so closed/archived states can be added later.
const StatusOpen = "open"

// Event represents a shared event users can register for.
// The event_id doubles as the chat message-thread timestamp of the
// interactive message announcing the event, so a dialog submission can be
// correlated back to the message it should update.
type Event struct {
	// EventID is the immutable identity of the event (a message ts token
	// allocated by the chat platform).
	EventID string `json:"event_id"`

	Name        string `json:"name"`
	Description string `json:"description"`

	// CreatedDate is set exactly once, on first save.
	CreatedDate time.Time `json:"created_date"`
	// ModifiedDate is refreshed on every save.
	ModifiedDate time.Time `json:"modified_date"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Status  string `json:"status"`
	Creator string `json:"creator"`

	// Attendees is the ordered set of self-registered attendee user ids.
	// Uniqueness is enforced by AddAttendee, not by storage.
	Attendees []string `json:"attendees,omitempty"`

	// ExtraAttendees counts attendees unable to self-register (used to
	// split cost).
	ExtraAttendees int `json:"extra_attendees"`

	// Cost is the total event cost in cents.
	Cost int64 `json:"cost"`
}

// TotalAttendees returns the registered attendee count plus extras.
func (e *Event) TotalAttendees() int {
	return len(e.Attendees) + e.ExtraAttendees
}

// CostPerAttendee returns the per-head cost in cents. An event with no
// attendees at all is treated as having one, so the division is always
// defined.
func (e *Event) CostPerAttendee() int64 {
	return e.Cost / int64(max(e.TotalAttendees(), 1))
}

// UserIsAttendee reports whether userID is already registered.
func (e *Event) UserIsAttendee(userID string) bool {
	for _, a := range e.Attendees {
		if a == userID {
			return true
		}
	}
	return false
}

// AddAttendee appends userID to the attendee list. Callers are expected to
// check UserIsAttendee first; AddAttendee itself does not deduplicate.
func (e *Event) AddAttendee(userID string) {
	e.Attendees = append(e.Attendees, userID)
}

// RemoveAttendee rebuilds the attendee list without userID. Removing a
// non-member leaves the list unchanged.
func (e *Event) RemoveAttendee(userID string) {
	if e.Attendees == nil {
		return
	}
	attendees := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		if a != userID {
			attendees = append(attendees, a)
		}
	}
	e.Attendees = attendees
}

// Touch stamps the record for saving: CreatedDate on first save only,
// ModifiedDate always.
func (e *Event) Touch(now time.Time) {
	if e.CreatedDate.IsZero() {
		e.CreatedDate = now
	}
	e.ModifiedDate = now
}
