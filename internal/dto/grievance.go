package dto

import "github.com/pm-ajay/adarsh-gram-api/internal/models"

// GrievanceView is a grievance together with its resolved village name.
type GrievanceView struct {
	models.Grievance
	VillageName string `json:"village_name"`
}
