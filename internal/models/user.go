package models

import "time"

// User represents a chat-platform user known to the bot.
//
// Users are created lazily, the first time they set a payment handle;
// attendees who never set one may have no User record at all.
type User struct {
	// UserID is the chat-platform user identifier.
	UserID string `json:"user_id"`

	// VenmoHandle is the user's payment handle. Empty when unset.
	// TODO(mmynk): support payment platforms other than venmo.
	VenmoHandle string `json:"venmo_handle"`

	// CreatedDate is set exactly once, on first save.
	CreatedDate time.Time `json:"created_date"`
	// ModifiedDate is refreshed on every save.
	ModifiedDate time.Time `json:"modified_date"`
}

// Touch stamps the record for saving: CreatedDate on first save only,
// ModifiedDate always.
func (u *User) Touch(now time.Time) {
	if u.CreatedDate.IsZero() {
		u.CreatedDate = now
	}
	u.ModifiedDate = now
}
