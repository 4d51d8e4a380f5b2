// Package models defines the core domain records for eventbot.
//
// # Records
//
//   - Event: a shared event users can register for, with cost splitting
//   - User: a chat-platform user and their payment (venmo) handle
//
// Both records carry snake_case JSON tags: the same shape is used for the
// stored record layout and for the listing API.
//
// # Design Principles
//
//  1. **Flat records**: Event.Attendees references User.UserID by value;
//     there is no stored relation object and no foreign-key enforcement.
//  2. **Minor currency units**: Event.Cost is integer cents. Dollars only
//     exist at display time (see the money package).
//  3. **Timestamps are the store's job**: Touch is called by the storage
//     backends on every put, never by handlers.
package models
