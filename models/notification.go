package models

import "time"

// DeepLink is an optional navigation target embedded in a notification.
type DeepLink struct {
	Screen string            `json:"screen"`
	Params map[string]string `json:"params,omitempty"`
}

// AppNotification is created by server-side triggers; the client only
// reads it and marks it read.
type AppNotification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	Link      *DeepLink `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}
