package users

import "github.com/campusweb/portal-backend/pkg/enums"

// MenuItem is a navigation entry gated by role.
type MenuItem struct {
	ID    string           `json:"id"`
	Label string           `json:"label"`
	Path  string           `json:"path"`
	Roles []enums.UserRole `json:"roles"`
}

var allRoles = []enums.UserRole{enums.UserRoleStudent, enums.UserRoleLecturer, enums.UserRoleAdmin}

var staffRoles = []enums.UserRole{enums.UserRoleLecturer, enums.UserRoleAdmin}

// menuItems is the full navigation tree. MenuFor filters it per role.
var menuItems = []MenuItem{
	{ID: "home", Label: "Home", Path: "/", Roles: allRoles},
	{ID: "profile", Label: "Profile", Path: "/profile", Roles: allRoles},
	{ID: "cafeteria", Label: "Cafeteria", Path: "/cafeteria", Roles: allRoles},
	{ID: "lostfound", Label: "Lost & Found", Path: "/lost-found", Roles: allRoles},
	{ID: "community", Label: "Community", Path: "/community", Roles: allRoles},
	{ID: "forum", Label: "Forum", Path: "/forum", Roles: allRoles},
	{ID: "help", Label: "Help", Path: "/help", Roles: allRoles},
	{ID: "students", Label: "Students", Path: "/students", Roles: staffRoles},
	{ID: "forms", Label: "Forms", Path: "/forms", Roles: staffRoles},
	{ID: "debug", Label: "Debug", Path: "/debug", Roles: staffRoles},
	{ID: "learning", Label: "Learning", Path: "/learning", Roles: []enums.UserRole{enums.UserRoleStudent}},
}

// MenuFor returns the navigation entries visible to the given role.
func MenuFor(role enums.UserRole) []MenuItem {
	var visible []MenuItem
	for _, item := range menuItems {
		if roleAllowed(item.Roles, role) {
			visible = append(visible, item)
		}
	}
	return visible
}

// HasPermissionForRoute reports whether the role may navigate to path.
// Unknown paths are open to everyone.
func HasPermissionForRoute(role enums.UserRole, path string) bool {
	for _, item := range menuItems {
		if item.Path == path {
			return roleAllowed(item.Roles, role)
		}
	}
	return true
}

func roleAllowed(roles []enums.UserRole, role enums.UserRole) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}
