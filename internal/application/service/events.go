package service

import (
	"context"
	"time"
)

type UserEventType string

const (
	UserEventRegistered     UserEventType = "user.registered"
	UserEventLoggedIn       UserEventType = "user.logged_in"
	UserEventProfileUpdated UserEventType = "user.profile_updated"

	ViewEventWatched = "video.watched"
)

type UserEvent struct {
	EventType  UserEventType `json:"event_type"`
	Email      string        `json:"email"`
	Fields     []string      `json:"fields,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type ViewEvent struct {
	EventType  string    `json:"event_type"`
	VideoTitle string    `json:"video_title"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher fans domain activity out to the broker. Publishing is
// best-effort: callers log failures and carry on.
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, evt UserEvent) error
	PublishViewEvent(ctx context.Context, evt ViewEvent) error
}
