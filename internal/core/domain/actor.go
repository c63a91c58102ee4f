package domain

import "slices"

// Actor is the authenticated caller as supplied by the identity provider.
type Actor struct {
	UserID      string
	Roles       []string
	Permissions []string
}

// SystemActor is used for automatic transitions.
var SystemActor = Actor{UserID: SystemUserID}

// HasRole reports whether the actor holds role.
func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// HasPermission reports whether the actor holds permission.
func (a Actor) HasPermission(permission string) bool {
	return slices.Contains(a.Permissions, permission)
}

// CanActOn reports whether the actor satisfies the step's role or permission
// requirement. A step naming both accepts either.
func (a Actor) CanActOn(step WorkflowStep) bool {
	if step.ApproverRole == "" && step.ApproverPermission == "" {
		return true
	}
	if step.ApproverRole != "" && a.HasRole(step.ApproverRole) {
		return true
	}
	return step.ApproverPermission != "" && a.HasPermission(step.ApproverPermission)
}
