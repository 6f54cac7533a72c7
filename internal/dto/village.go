package dto

import "github.com/pm-ajay/adarsh-gram-api/internal/models"

// FacilityView is the classified rendering of one infrastructure facility.
type FacilityView struct {
	Name    string                 `json:"name"`
	Label   models.FacilityLabel   `json:"label"`
	Quality models.FacilityQuality `json:"quality,omitempty"`
}

// VillageDetail combines a village record with its classified facilities.
type VillageDetail struct {
	Village    models.Village      `json:"village"`
	Band       models.PriorityBand `json:"priority_band"`
	Facilities []FacilityView      `json:"facilities"`
}

// VillageSummary is the list-view projection of a village.
type VillageSummary struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	State             string              `json:"state"`
	District          string              `json:"district"`
	Block             string              `json:"block"`
	Population        int                 `json:"population"`
	SCPercentage      float64             `json:"sc_percentage"`
	SatisfactionScore float64             `json:"satisfaction_score"`
	PriorityIndex     float64             `json:"priority_index"`
	Band              models.PriorityBand `json:"priority_band"`
	Onboarded         bool                `json:"onboarded"`
}
