package dto

import "github.com/pm-ajay/adarsh-gram-api/internal/models"

// DashboardResponse carries the aggregate counters plus the derived rates
// clients render as headline figures.
type DashboardResponse struct {
	Stats             models.DashboardStats `json:"stats"`
	CompletionRate    int                   `json:"completion_rate"`
	ResolutionRate    int                   `json:"resolution_rate"`
	OnboardingRate    int                   `json:"onboarding_rate"`
	BudgetUtilization float64               `json:"budget_utilization"`
}

// PublicPortalResponse is the unauthenticated transparency snapshot. It
// deliberately exposes aggregates only, never citizen-level records.
type PublicPortalResponse struct {
	TotalVillages     int                          `json:"total_villages"`
	OnboardedVillages int                          `json:"onboarded_villages"`
	ProjectsByStatus  map[models.ProjectStatus]int `json:"projects_by_status"`
	CompletionRate    int                          `json:"completion_rate"`
	ResolutionRate    int                          `json:"resolution_rate"`
}
