// domain/session/session.domain.go
package session

import (
	"github.com/vuthysan/school-management-system-sub000/domain/membership"
	"github.com/vuthysan/school-management-system-sub000/domain/user"
)

// Context is the resolved tenancy for one principal: the single school the
// principal is currently operating as, plus the flags derived from it.
// It is an immutable value passed to every tenancy-scoped operation, so the
// resolution algorithm stays testable without a UI harness.
type Context struct {
	Principal user.Principal

	// SchoolID is empty when no school is selectable (no memberships, or none
	// with a resolvable school). All school-scoped operations are disabled
	// in that state.
	SchoolID string
	BranchID string

	Role        membership.Role
	Permissions []string

	IsOwner bool
	IsAdmin bool

	// SchoolApproved gates operational features on the selected school.
	SchoolApproved bool

	// HasApprovedSchool is fleet-wide: true when any resolved school across
	// all memberships is approved. It drives "pending approval" messaging.
	HasApprovedSchool bool
}

// HasSchool reports whether a current school is selected.
func (c Context) HasSchool() bool {
	return c.SchoolID != ""
}

// Can reports whether the session carries the given fine-grained permission.
func (c Context) Can(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
