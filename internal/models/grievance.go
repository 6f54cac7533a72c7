package models

import (
	"time"

	"github.com/lib/pq"
)

// GrievanceStatus tracks a citizen grievance through resolution.
type GrievanceStatus string

const (
	GrievancePending  GrievanceStatus = "pending"
	GrievanceInReview GrievanceStatus = "in_review"
	GrievanceResolved GrievanceStatus = "resolved"
	GrievanceClosed   GrievanceStatus = "closed"
)

// Valid reports whether the status is a declared state.
func (s GrievanceStatus) Valid() bool {
	switch s {
	case GrievancePending, GrievanceInReview, GrievanceResolved, GrievanceClosed:
		return true
	}
	return false
}

// GrievancePriority grades urgency as declared by intake triage.
type GrievancePriority string

const (
	PriorityLow    GrievancePriority = "low"
	PriorityMedium GrievancePriority = "medium"
	PriorityHigh   GrievancePriority = "high"
	PriorityUrgent GrievancePriority = "urgent"
)

// Valid reports whether the priority is a declared grade.
func (p GrievancePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Grievance represents a citizen complaint lodged against a village.
type Grievance struct {
	ID              string            `db:"id" json:"id"`
	Title           string            `db:"title" json:"title"`
	Description     string            `db:"description" json:"description"`
	Category        string            `db:"category" json:"category"`
	VillageID       string            `db:"village_id" json:"village_id"`
	CitizenID       string            `db:"citizen_id" json:"citizen_id"`
	CitizenName     string            `db:"citizen_name" json:"citizen_name"`
	CitizenPhone    string            `db:"citizen_phone" json:"citizen_phone"`
	Status          GrievanceStatus   `db:"status" json:"status"`
	Priority        GrievancePriority `db:"priority" json:"priority"`
	SubmittedDate   time.Time         `db:"submitted_date" json:"submitted_date"`
	ResolvedDate    *time.Time        `db:"resolved_date" json:"resolved_date,omitempty"`
	AssignedOfficer *string           `db:"assigned_officer" json:"assigned_officer,omitempty"`
	Photos          pq.StringArray    `db:"photos" json:"photos"`
	AudioFiles      pq.StringArray    `db:"audio_files" json:"audio_files"`
	Response        *string           `db:"response" json:"response,omitempty"`
	Latitude        float64           `db:"latitude" json:"latitude"`
	Longitude       float64           `db:"longitude" json:"longitude"`
	CreatedAt       time.Time         `db:"created_at" json:"-"`
	UpdatedAt       time.Time         `db:"updated_at" json:"-"`
}

// GrievanceFilter captures list query parameters for grievances.
type GrievanceFilter struct {
	Query    string
	Status   GrievanceStatus
	Priority GrievancePriority
}

// CreateGrievanceRequest is the citizen submission payload.
type CreateGrievanceRequest struct {
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description" validate:"required"`
	Category     string            `json:"category" validate:"required"`
	VillageID    string            `json:"village_id" validate:"required"`
	CitizenID    string            `json:"citizen_id" validate:"required"`
	CitizenName  string            `json:"citizen_name" validate:"required"`
	CitizenPhone string            `json:"citizen_phone" validate:"required"`
	Priority     GrievancePriority `json:"priority" validate:"required"`
	Photos       []string          `json:"photos"`
	AudioFiles   []string          `json:"audio_files"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
}

// UpdateGrievanceStatusRequest moves a grievance between states.
type UpdateGrievanceStatusRequest struct {
	Status GrievanceStatus `json:"status" validate:"required"`
}

// GrievanceResponseRequest records the official response to a grievance.
type GrievanceResponseRequest struct {
	Response        string `json:"response" validate:"required"`
	AssignedOfficer string `json:"assigned_officer" validate:"required"`
}
