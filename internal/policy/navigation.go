package policy

import "aegisai/internal/model"

// NavItem is one entry of the application navigation, reachable only by the
// listed roles.
type NavItem struct {
	Label string           `json:"label"`
	Path  string           `json:"path"`
	Roles []model.UserRole `json:"roles"`
}

// navItems is the fixed navigation table. Reachability of a path for a role
// is defined entirely by this table.
var navItems = []NavItem{
	{Label: "Chat", Path: "/chat", Roles: []model.UserRole{model.RoleAdmin, model.RoleIT, model.RoleHR, model.RoleFinance}},
	{Label: "Dashboard", Path: "/admin/dashboard", Roles: []model.UserRole{model.RoleAdmin}},
	{Label: "Roles", Path: "/admin/roles", Roles: []model.UserRole{model.RoleAdmin}},
	{Label: "Users", Path: "/admin/users", Roles: []model.UserRole{model.RoleAdmin}},
	{Label: "Documents", Path: "/admin/documents", Roles: []model.UserRole{model.RoleAdmin}},
	{Label: "Security Logs", Path: "/admin/security", Roles: []model.UserRole{model.RoleAdmin}},
	{Label: "Security Dashboard", Path: "/security/dashboard", Roles: []model.UserRole{model.RoleSecurity}},
	{Label: "Document Access", Path: "/security/documents", Roles: []model.UserRole{model.RoleSecurity}},
}

// Navigation returns a copy of the full navigation table.
func Navigation() []NavItem {
	items := make([]NavItem, len(navItems))
	copy(items, navItems)
	return items
}

// NavigationFor filters the navigation table down to the items reachable by
// the given role.
func NavigationFor(role model.UserRole) []NavItem {
	items := make([]NavItem, 0, len(navItems))
	for _, item := range navItems {
		if IsAllowed(role, item.Roles) {
			items = append(items, item)
		}
	}
	return items
}
