package models

import "math"

// DashboardStats aggregates programme-wide counters. The counters are
// recomputed from the village, project, and grievance collections; derived
// percentages come from Rate below so that stored snapshots and live
// recomputation agree.
type DashboardStats struct {
	TotalVillages      int     `json:"total_villages"`
	OnboardedVillages  int     `json:"onboarded_villages"`
	ActiveProjects     int     `json:"active_projects"`
	CompletedProjects  int     `json:"completed_projects"`
	PendingGrievances  int     `json:"pending_grievances"`
	ResolvedGrievances int     `json:"resolved_grievances"`
	AverageSatisfaction float64 `json:"average_satisfaction"`
	BudgetUtilization  float64 `json:"budget_utilization"`
}

// Rate returns done/(done+open) as a rounded integer percentage. An empty
// population yields 0 rather than NaN.
func Rate(done, open int) int {
	total := done + open
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// CompletionRate is the share of projects finished among completed + active.
func (s DashboardStats) CompletionRate() int {
	return Rate(s.CompletedProjects, s.ActiveProjects)
}

// ResolutionRate is the share of grievances resolved among resolved + pending.
func (s DashboardStats) ResolutionRate() int {
	return Rate(s.ResolvedGrievances, s.PendingGrievances)
}
