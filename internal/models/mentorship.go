package models

import "time"

// RequestStatus is the lifecycle state of a mentorship session request.
// The only legal transitions are pending -> approved and pending -> rejected;
// both terminal states are immutable once set.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// SessionRequest is a programmer's ask for mentorship time with a guide.
// Requests are never deleted; resolved rows remain as an audit trail.
type SessionRequest struct {
	ID              string        `db:"id" json:"id"`
	GuideID         string        `db:"guide_id" json:"guide_id"`
	ProgrammerID    string        `db:"programmer_id" json:"programmer_id"`
	ProgrammerName  string        `db:"programmer_name" json:"programmer_name"`
	ProgrammerEmail string        `db:"programmer_email" json:"programmer_email"`
	Status          RequestStatus `db:"status" json:"status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// SubmitRequestRequest is the programmer payload for requesting a session.
type SubmitRequestRequest struct {
	GuideID      string `json:"guide_id" validate:"required"`
	ProgrammerID string `json:"programmer_id" validate:"required"`
}

// Decision is a guide's verdict on a pending request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// DecisionRequest is the guide payload resolving a request. Title,
// description and meeting link are required only when approving.
type DecisionRequest struct {
	Status      Decision `json:"status" validate:"required"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MeetingLink string   `json:"meeting_link"`
}

// DecisionResult reports the outcome of resolving a request. SessionID is
// set only on the approval path.
type DecisionResult struct {
	Request   *SessionRequest `json:"request"`
	SessionID string          `json:"session_id,omitempty"`
}

// Session is a scheduled mentorship meeting, created when a guide approves
// a request or schedules one directly.
type Session struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	MeetingLink     string    `db:"meeting_link" json:"meeting_link"`
	GuideID         string    `db:"guide_id" json:"guide_id"`
	GuideName       string    `db:"guide_name" json:"guide_name,omitempty"`
	ProgrammerEmail string    `db:"programmer_email" json:"programmer_email"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateSessionRequest is the guide payload for scheduling a session directly.
type CreateSessionRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description" validate:"required"`
	MeetingLink     string `json:"meeting_link" validate:"required,url"`
	GuideID         string `json:"guide_id" validate:"required"`
	ProgrammerEmail string `json:"programmer_email" validate:"required,email"`
}
