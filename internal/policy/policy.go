// Package policy is the single place role and permission checks live.
// Every gate in the system calls into it; no handler or service reimplements
// the predicate. All functions are pure and total: they are defined for every
// role/permission pair and an unknown permission denies (fail-closed).
package policy

import "aegisai/internal/model"

// PermissionSet is a role's capability tokens, keyed for O(1) lookup.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a PermissionSet from capability token codes.
func NewPermissionSet(codes []string) PermissionSet {
	set := make(PermissionSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// IsAllowed reports whether role is a member of the allowed set.
func IsAllowed(role model.UserRole, allowed []model.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// IsPermitted reports whether the permission set grants the capability.
// A nil set or unknown permission denies.
func IsPermitted(perms PermissionSet, permission string) bool {
	if perms == nil {
		return false
	}
	_, ok := perms[permission]
	return ok
}

// DocumentVisible reports whether a user of the given role may see the
// document. Visibility is governed solely by the document's allowed roles,
// independent of who uploaded it.
func DocumentVisible(role model.UserRole, doc *model.Document) bool {
	return IsAllowed(role, doc.AllowedRoles)
}

// FilterDocuments returns the subset of docs visible to the role.
func FilterDocuments(role model.UserRole, docs []model.Document) []model.Document {
	visible := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if DocumentVisible(role, &d) {
			visible = append(visible, d)
		}
	}
	return visible
}
