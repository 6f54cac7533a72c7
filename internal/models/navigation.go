package models

// Section identifies a navigable area of the portal.
type Section string

const (
	SectionDashboard    Section = "dashboard"
	SectionVillages     Section = "villages"
	SectionProjects     Section = "projects"
	SectionGrievances   Section = "grievances"
	SectionReports      Section = "reports"
	SectionTransparency Section = "transparency"
	SectionUsers        Section = "users"
	SectionSettings     Section = "settings"
)

// SectionInfo describes a navigation entry as rendered by clients.
type SectionInfo struct {
	ID    Section `json:"id"`
	Label string  `json:"label"`
}
