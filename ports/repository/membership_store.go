// ports/repository/membership_store.go
package repository

import (
	"context"

	"github.com/vuthysan/school-management-system-sub000/domain/membership"
	"github.com/vuthysan/school-management-system-sub000/domain/user"
)

// AddMemberInput is the payload for granting a membership.
type AddMemberInput struct {
	SchoolID string          `validate:"required"`
	UserID   string          `validate:"required"`
	Role     membership.Role `validate:"required"`
	BranchID string
}

// MembershipStore reads and mutates the memberships of the signed-in
// principal through the backend. The principal is identified by the
// transport's auth token, so MyMemberships takes no explicit argument.
type MembershipStore interface {
	MyMemberships(ctx context.Context) ([]membership.Membership, error)

	AddMember(ctx context.Context, input AddMemberInput) (membership.Membership, error)
	UpdateMemberRole(ctx context.Context, memberID string, role membership.Role) (membership.Membership, error)
	RemoveMember(ctx context.Context, memberID string) (bool, error)

	// SearchUser finds a principal by email or username. A nil result with a
	// nil error means no match.
	SearchUser(ctx context.Context, query string) (*user.Principal, error)
}
