// domain/policy/role_policy.go
package policy

import (
	"strings"

	"github.com/vuthysan/school-management-system-sub000/domain/membership"
)

// IsOwner reports whether the role carries ownership of the school.
// Comparison is case-insensitive because role strings arrive from the wire.
func IsOwner(r membership.Role) bool {
	return strings.EqualFold(string(r), string(membership.RoleOwner))
}

// IsAdmin reports whether the role carries administrative authority.
// Invariant: owners are always admins, regardless of the stored role casing.
func IsAdmin(r membership.Role) bool {
	return IsOwner(r) || strings.EqualFold(string(r), string(membership.RoleAdmin))
}
