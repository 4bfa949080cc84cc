// infra/graphql/membership_store.graphql.go
package graphql

import (
	"context"
	"fmt"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/membership"
	"github.com/vuthysan/school-management-system-sub000/domain/user"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// MembershipStore implements repository.MembershipStore over the endpoint.
type MembershipStore struct {
	client *Client
}

func NewMembershipStore(c *Client) *MembershipStore {
	return &MembershipStore{client: c}
}

var _ repository.MembershipStore = (*MembershipStore)(nil)

// memberWire is the backend's membership shape.
type memberWire struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	SchoolID    string   `json:"schoolId"`
	BranchID    string   `json:"branchId"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Permissions []string `json:"permissions"`
	Title       string   `json:"title"`
}

func (w memberWire) toDomain() (membership.Membership, error) {
	role, err := membership.ParseRole(w.Role)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("membership %s: %w", w.ID, err)
	}
	status, err := membership.ParseStatus(w.Status)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("membership %s: %w", w.ID, err)
	}
	return membership.Membership{
		ID:          w.ID,
		UserID:      w.UserID,
		SchoolID:    w.SchoolID,
		BranchID:    w.BranchID,
		Role:        role,
		Status:      status,
		Permissions: w.Permissions,
		Title:       w.Title,
	}, nil
}

func (s *MembershipStore) MyMemberships(ctx context.Context) ([]membership.Membership, error) {
	var data struct {
		MyMemberships []memberWire `json:"myMemberships"`
	}
	if err := s.client.Run(ctx, opMyMemberships, nil, &data); err != nil {
		return nil, err
	}
	out := make([]membership.Membership, 0, len(data.MyMemberships))
	for _, w := range data.MyMemberships {
		m, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *MembershipStore) AddMember(ctx context.Context, input repository.AddMemberInput) (membership.Membership, error) {
	if input.SchoolID == "" || input.UserID == "" || input.Role == "" {
		return membership.Membership{}, fmt.Errorf("%w: schoolId, userId and role are required", domainError.ErrInvalidInput)
	}
	vars := map[string]any{
		"input": map[string]any{
			"schoolId": input.SchoolID,
			"userId":   input.UserID,
			"role":     string(input.Role),
		},
	}
	if input.BranchID != "" {
		vars["input"].(map[string]any)["branchId"] = input.BranchID
	}
	var data struct {
		AddMember memberWire `json:"addMember"`
	}
	if err := s.client.Run(ctx, opAddMember, vars, &data); err != nil {
		return membership.Membership{}, err
	}
	return data.AddMember.toDomain()
}

func (s *MembershipStore) UpdateMemberRole(ctx context.Context, memberID string, role membership.Role) (membership.Membership, error) {
	if memberID == "" || role == "" {
		return membership.Membership{}, fmt.Errorf("%w: member id and role are required", domainError.ErrInvalidInput)
	}
	var data struct {
		UpdateMemberRole memberWire `json:"updateMemberRole"`
	}
	vars := map[string]any{"id": memberID, "role": string(role)}
	if err := s.client.Run(ctx, opUpdateMemberRole, vars, &data); err != nil {
		return membership.Membership{}, err
	}
	return data.UpdateMemberRole.toDomain()
}

func (s *MembershipStore) RemoveMember(ctx context.Context, memberID string) (bool, error) {
	if memberID == "" {
		return false, fmt.Errorf("%w: member id is required", domainError.ErrInvalidInput)
	}
	var data struct {
		RemoveMember bool `json:"removeMember"`
	}
	if err := s.client.Run(ctx, opRemoveMember, map[string]any{"id": memberID}, &data); err != nil {
		return false, err
	}
	return data.RemoveMember, nil
}

func (s *MembershipStore) SearchUser(ctx context.Context, query string) (*user.Principal, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", domainError.ErrInvalidInput)
	}
	var data struct {
		SearchUser *struct {
			IDStr       string `json:"idStr"`
			DisplayName string `json:"displayName"`
			Email       string `json:"email"`
		} `json:"searchUser"`
	}
	if err := s.client.Run(ctx, opSearchUser, map[string]any{"query": query}, &data); err != nil {
		return nil, err
	}
	if data.SearchUser == nil {
		return nil, nil
	}
	return &user.Principal{
		ID:    data.SearchUser.IDStr,
		Name:  data.SearchUser.DisplayName,
		Email: data.SearchUser.Email,
	}, nil
}
