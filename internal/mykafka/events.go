package mykafka

import "time"

const (
	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
	EventUserLoggedOut  = "user_logged_out"
	EventTokenRefreshed = "token_refreshed"
	EventUserDeleted    = "user_deleted"
)

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserEvent(typ, userID, username string) UserEvent {
	return UserEvent{Type: typ, UserID: userID, Username: username, OccurredAt: time.Now().UTC()}
}
