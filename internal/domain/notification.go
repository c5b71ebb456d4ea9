package domain

import "time"

// Broadcast is a store-wide message published by staff.
type Broadcast struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	SentAt  time.Time `json:"sentAt"`
}

// Notification is an entry of a session's local notification history.
type Notification struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Read    bool      `json:"read"`
	Date    time.Time `json:"date"`
}
