package models

import (
	"fmt"
	"time"
)

// NotificationKind is the closed set of events the portal notifies about.
type NotificationKind string

const (
	NotifySessionRequested NotificationKind = "session_requested"
	NotifySessionApproved  NotificationKind = "session_approved"
	NotifySessionRejected  NotificationKind = "session_rejected"
	NotifySessionScheduled NotificationKind = "session_scheduled"
)

// Notification is an in-app message delivered to a user's dashboard.
// New notifications start unread; the read flag only ever moves false -> true.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Kind      NotificationKind `db:"kind" json:"kind"`
	Message   string           `db:"message" json:"message"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// NotificationInput carries the structured fields a notification is rendered
// from. Message text is derived from the kind, never passed in free-form.
type NotificationInput struct {
	UserID         string
	Kind           NotificationKind
	ProgrammerName string
	GuideName      string
	SessionTitle   string
	MeetingLink    string
}

// RenderMessage produces the user-visible text for the input.
func (in NotificationInput) RenderMessage() string {
	switch in.Kind {
	case NotifySessionRequested:
		return fmt.Sprintf("You have a new session request from %s.", in.ProgrammerName)
	case NotifySessionApproved:
		return fmt.Sprintf("Your session request has been approved by %s. Meeting link: %s", in.GuideName, in.MeetingLink)
	case NotifySessionRejected:
		return "Your session request has been rejected."
	case NotifySessionScheduled:
		return fmt.Sprintf("A new 1:1 session has been created for you: %s", in.SessionTitle)
	}
	return ""
}
