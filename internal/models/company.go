package models

import "time"

// Company represents a hiring organisation.
type Company struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Location    string    `db:"location" json:"location"`
	Industry    string    `db:"industry" json:"industry"`
	Employees   string    `db:"employees" json:"employees"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CompanyWithJobs groups a company with its open job roles for the browse view.
type CompanyWithJobs struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JobRoles []JobRole `json:"job_roles"`
}

// JobRole is the compact job reference shown under a company.
type JobRole struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
