package policy

import (
	"testing"

	"aegisai/internal/model"

	"github.com/stretchr/testify/assert"
)

// reachability is the expected role → path table. Every (role, item) pair is
// checked exhaustively against the navigation filter.
var reachability = map[model.UserRole][]string{
	model.RoleAdmin: {
		"/chat", "/admin/dashboard", "/admin/roles", "/admin/users",
		"/admin/documents", "/admin/security",
	},
	model.RoleSecurity: {"/security/dashboard", "/security/documents"},
	model.RoleIT:       {"/chat"},
	model.RoleHR:       {"/chat"},
	model.RoleFinance:  {"/chat"},
}

func TestNavigationFor_ExhaustiveRoleTable(t *testing.T) {
	for _, role := range model.AllRoles {
		expected := reachability[role]

		items := NavigationFor(role)
		paths := make([]string, 0, len(items))
		for _, item := range items {
			paths = append(paths, item.Path)
		}
		assert.ElementsMatch(t, expected, paths, "navigation for role %s", role)

		// Cross-check: each item in the full table is reachable iff the role
		// is in its allowed set.
		for _, item := range Navigation() {
			reachable := false
			for _, p := range paths {
				if p == item.Path {
					reachable = true
				}
			}
			assert.Equal(t, IsAllowed(role, item.Roles), reachable, "role %s item %s", role, item.Path)
		}
	}
}

func TestIsAllowed(t *testing.T) {
	allowed := []model.UserRole{model.RoleAdmin, model.RoleIT}

	assert.True(t, IsAllowed(model.RoleAdmin, allowed))
	assert.True(t, IsAllowed(model.RoleIT, allowed))
	assert.False(t, IsAllowed(model.RoleHR, allowed))
	assert.False(t, IsAllowed(model.RoleSecurity, nil))
}

func TestIsPermitted_FailClosed(t *testing.T) {
	perms := NewPermissionSet([]string{"chat", "admin.users"})

	assert.True(t, IsPermitted(perms, "chat"))
	assert.True(t, IsPermitted(perms, "admin.users"))
	assert.False(t, IsPermitted(perms, "admin.security"), "unknown permission must deny")
	assert.False(t, IsPermitted(perms, ""), "empty permission must deny")
	assert.False(t, IsPermitted(nil, "chat"), "nil set must deny")
}

func TestDocumentVisible(t *testing.T) {
	doc := model.Document{
		Title:        "Annual Budget Plan",
		AllowedRoles: []model.UserRole{model.RoleAdmin, model.RoleFinance},
	}

	assert.True(t, DocumentVisible(model.RoleFinance, &doc))
	assert.True(t, DocumentVisible(model.RoleAdmin, &doc))
	assert.False(t, DocumentVisible(model.RoleHR, &doc))
	assert.False(t, DocumentVisible(model.RoleIT, &doc))
}

func TestFilterDocuments(t *testing.T) {
	docs := []model.Document{
		{Title: "Handbook", AllowedRoles: []model.UserRole{model.RoleAdmin, model.RoleHR, model.RoleIT, model.RoleFinance}},
		{Title: "Network Diagram", AllowedRoles: []model.UserRole{model.RoleAdmin, model.RoleIT}},
		{Title: "Budget", AllowedRoles: []model.UserRole{model.RoleAdmin, model.RoleFinance}},
	}

	visible := FilterDocuments(model.RoleIT, docs)
	assert.Len(t, visible, 2)
	assert.Equal(t, "Handbook", visible[0].Title)
	assert.Equal(t, "Network Diagram", visible[1].Title)

	assert.Len(t, FilterDocuments(model.RoleAdmin, docs), 3)
	assert.Len(t, FilterDocuments(model.RoleSecurity, docs), 0)
}
