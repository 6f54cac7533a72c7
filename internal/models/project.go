package models

import (
	"time"

	"github.com/lib/pq"
)

// ProjectStatus tracks a development project through its lifecycle.
type ProjectStatus string

const (
	ProjectProposed   ProjectStatus = "proposed"
	ProjectApproved   ProjectStatus = "approved"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// Valid reports whether the status is a declared lifecycle state.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectProposed, ProjectApproved, ProjectInProgress, ProjectCompleted:
		return true
	}
	return false
}

// Project represents a funded development project in a village. Budget and
// spent amounts are stored in the smallest currency unit.
type Project struct {
	ID              string         `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	Category        string         `db:"category" json:"category"`
	VillageID       string         `db:"village_id" json:"village_id"`
	Status          ProjectStatus  `db:"status" json:"status"`
	Budget          int64          `db:"budget" json:"budget"`
	SpentAmount     int64          `db:"spent_amount" json:"spent_amount"`
	StartDate       time.Time      `db:"start_date" json:"start_date"`
	ExpectedEndDate time.Time      `db:"expected_end_date" json:"expected_end_date"`
	CompletionDate  *time.Time     `db:"completion_date" json:"completion_date,omitempty"`
	AssignedOfficer string         `db:"assigned_officer" json:"assigned_officer"`
	Documents       pq.StringArray `db:"documents" json:"documents"`
	Photos          pq.StringArray `db:"photos" json:"photos"`
	Progress        int            `db:"progress" json:"progress"`
	CreatedAt       time.Time      `db:"created_at" json:"-"`
	UpdatedAt       time.Time      `db:"updated_at" json:"-"`
}

// ProjectFilter captures list query parameters for projects.
type ProjectFilter struct {
	Query  string
	Status ProjectStatus
}

// UpdateProjectProgressRequest advances a project's progress and status.
type UpdateProjectProgressRequest struct {
	Progress int           `json:"progress" validate:"min=0,max=100"`
	Status   ProjectStatus `json:"status" validate:"required"`
}
