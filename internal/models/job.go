package models

import "time"

// Job represents a posted job opening.
type Job struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Requirements string    `db:"requirements" json:"requirements"`
	Location     string    `db:"location" json:"location"`
	CompanyID    string    `db:"company_id" json:"company_id"`
	RecruiterID  string    `db:"recruiter_id" json:"recruiter_id,omitempty"`
	CompanyName  string    `db:"company_name" json:"company_name,omitempty"`
	Industry     string    `db:"industry" json:"industry,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UpsertJobRequest is the recruiter payload for posting or updating a job.
// Jobs are keyed by (title, company): posting the same title again updates
// the existing description instead of creating a duplicate.
type UpsertJobRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	CompanyName  string `json:"company_name" validate:"required"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
}

// UpsertJobResponse reports the affected job and whether it already existed.
type UpsertJobResponse struct {
	JobID   string `json:"job_id"`
	Updated bool   `json:"updated"`
}
