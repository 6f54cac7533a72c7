package service

import (
	"github.com/pm-ajay/adarsh-gram-api/internal/models"
)

// sectionEntry pairs a navigable section with the roles allowed into it.
// Order matters: it is the order clients render the navigation in.
type sectionEntry struct {
	info  models.SectionInfo
	roles []models.UserRole
}

var sectionTable = []sectionEntry{
	{
		info:  models.SectionInfo{ID: models.SectionDashboard, Label: "Dashboard"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin, models.RoleDistrictAdmin, models.RoleVillageAdmin},
	},
	{
		info:  models.SectionInfo{ID: models.SectionVillages, Label: "Villages"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin, models.RoleDistrictAdmin},
	},
	{
		info:  models.SectionInfo{ID: models.SectionProjects, Label: "Projects"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin, models.RoleDistrictAdmin, models.RoleVillageAdmin},
	},
	{
		info:  models.SectionInfo{ID: models.SectionGrievances, Label: "Grievances"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin, models.RoleDistrictAdmin, models.RoleVillageAdmin},
	},
	{
		info:  models.SectionInfo{ID: models.SectionReports, Label: "Reports"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin, models.RoleDistrictAdmin},
	},
	{
		info:  models.SectionInfo{ID: models.SectionTransparency, Label: "Public Portal"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin, models.RoleDistrictAdmin, models.RoleVillageAdmin},
	},
	{
		info:  models.SectionInfo{ID: models.SectionUsers, Label: "User Management"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin},
	},
	{
		info:  models.SectionInfo{ID: models.SectionSettings, Label: "Settings"},
		roles: []models.UserRole{models.RoleCentralAdmin, models.RoleStateAdmin, models.RoleDistrictAdmin, models.RoleVillageAdmin},
	},
}

// NavigationService resolves which portal sections a role may access.
type NavigationService struct{}

// NewNavigationService constructs a NavigationService.
func NewNavigationService() *NavigationService {
	return &NavigationService{}
}

// SectionsForRole returns the sections visible to the role, in declared
// order. An unknown role gets an empty slice, never nil-role panics.
func (s *NavigationService) SectionsForRole(role models.UserRole) []models.SectionInfo {
	sections := make([]models.SectionInfo, 0, len(sectionTable))
	for _, entry := range sectionTable {
		if roleAllowed(entry.roles, role) {
			sections = append(sections, entry.info)
		}
	}
	return sections
}

// Allowed reports whether the role may access the given section. Route
// guards use this so menus and endpoints share one policy.
func (s *NavigationService) Allowed(role models.UserRole, section models.Section) bool {
	for _, entry := range sectionTable {
		if entry.info.ID == section {
			return roleAllowed(entry.roles, role)
		}
	}
	return false
}

func roleAllowed(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
