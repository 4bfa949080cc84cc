// domain/membership/membership.domain.go
package membership

import (
	"fmt"
	"strings"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
)

// Role is the closed set of roles a principal can hold within one school.
type Role string

const (
	RoleOwner          Role = "Owner"
	RoleDirector       Role = "Director"
	RoleDeputyDirector Role = "DeputyDirector"
	RoleAdmin          Role = "Admin"
	RoleHeadTeacher    Role = "HeadTeacher"
	RoleTeacher        Role = "Teacher"
	RoleStaff          Role = "Staff"
	RoleAccountant     Role = "Accountant"
	RoleLibrarian      Role = "Librarian"
	RoleStudent        Role = "Student"
	RoleParent         Role = "Parent"
)

var roles = []Role{
	RoleOwner, RoleDirector, RoleDeputyDirector, RoleAdmin, RoleHeadTeacher,
	RoleTeacher, RoleStaff, RoleAccountant, RoleLibrarian, RoleStudent, RoleParent,
}

// ParseRole maps a wire-format role string onto the closed enumeration.
// Matching is case-insensitive; anything outside the enumeration is rejected
// loudly instead of falling through to a default role.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range roles {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domainError.ErrUnknownRole, s)
}

// Status is the lifecycle state of a membership.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// ParseStatus maps a wire-format membership status onto the enumeration.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusActive, StatusInactive} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: membership status %q", domainError.ErrInvalidInput, s)
}

// Membership binds a principal to one school with a role and permission set.
// Invariant: a principal holds at most one Membership per school.
type Membership struct {
	ID          string
	UserID      string
	SchoolID    string
	BranchID    string // empty means school-wide
	Role        Role
	Status      Status
	Permissions []string
	Title       string
}

// Active reports whether the membership is usable at all.
func (m Membership) Active() bool {
	return m.Status == StatusActive
}
