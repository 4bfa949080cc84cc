// infra/memory/directory_stores.memory.go
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/membership"
	"github.com/vuthysan/school-management-system-sub000/domain/school"
	"github.com/vuthysan/school-management-system-sub000/domain/student"
	"github.com/vuthysan/school-management-system-sub000/domain/user"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// MembershipStore is an in-memory repository.MembershipStore. Memberships
// keep insertion order because the tenancy resolver's default selection is
// order sensitive.
type MembershipStore struct {
	mu          sync.RWMutex
	memberships []membership.Membership
	users       []user.Principal
}

func NewMembershipStore(seed ...membership.Membership) *MembershipStore {
	return &MembershipStore{memberships: append([]membership.Membership(nil), seed...)}
}

var _ repository.MembershipStore = (*MembershipStore)(nil)

func (s *MembershipStore) MyMemberships(ctx context.Context) ([]membership.Membership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]membership.Membership(nil), s.memberships...), nil
}

func (s *MembershipStore) AddMember(ctx context.Context, in repository.AddMemberInput) (membership.Membership, error) {
	if err := ctx.Err(); err != nil {
		return membership.Membership{}, err
	}
	if in.SchoolID == "" || in.UserID == "" || in.Role == "" {
		return membership.Membership{}, fmt.Errorf("%w: school, user and role are required", domainError.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Invariant: at most one membership per (user, school) pair. Role changes
	// go through UpdateMemberRole, not a second grant.
	for _, existing := range s.memberships {
		if existing.UserID == in.UserID && existing.SchoolID == in.SchoolID {
			return membership.Membership{}, fmt.Errorf("%w: user %s in school %s",
				domainError.ErrDuplicateMembership, in.UserID, in.SchoolID)
		}
	}
	m := membership.Membership{
		ID:       uuid.NewString(),
		UserID:   in.UserID,
		SchoolID: in.SchoolID,
		BranchID: in.BranchID,
		Role:     in.Role,
		Status:   membership.StatusActive,
	}
	s.memberships = append(s.memberships, m)
	return m, nil
}

func (s *MembershipStore) UpdateMemberRole(ctx context.Context, memberID string, role membership.Role) (membership.Membership, error) {
	if err := ctx.Err(); err != nil {
		return membership.Membership{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.memberships {
		if s.memberships[i].ID == memberID {
			s.memberships[i].Role = role
			return s.memberships[i], nil
		}
	}
	return membership.Membership{}, fmt.Errorf("%w: membership %s", domainError.ErrNotFound, memberID)
}

func (s *MembershipStore) RemoveMember(ctx context.Context, memberID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.memberships {
		if s.memberships[i].ID == memberID {
			s.memberships = append(s.memberships[:i], s.memberships[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MembershipStore) SearchUser(ctx context.Context, query string) (*user.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", domainError.ErrInvalidInput)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		u := s.users[i]
		if strings.EqualFold(u.Email, query) || strings.EqualFold(u.Name, query) {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

// AddUser registers a principal for SearchUser lookups.
func (s *MembershipStore) AddUser(u user.Principal) {
	s.mu.Lock()
	s.users = append(s.users, u)
	s.mu.Unlock()
}

// SchoolStore is an in-memory repository.SchoolStore.
type SchoolStore struct {
	mu           sync.RWMutex
	schools      map[string]school.School
	pending      []school.School
	unauthorized bool
}

func NewSchoolStore(seed ...school.School) *SchoolStore {
	s := &SchoolStore{schools: make(map[string]school.School, len(seed))}
	for _, sc := range seed {
		s.schools[sc.ID] = sc
	}
	return s
}

var _ repository.SchoolStore = (*SchoolStore)(nil)

func (s *SchoolStore) SchoolByID(ctx context.Context, id string) (*school.School, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.schools[id]
	if !ok {
		return nil, fmt.Errorf("%w: school %s", domainError.ErrNotFound, id)
	}
	cp := sc
	return &cp, nil
}

func (s *SchoolStore) PendingSchools(ctx context.Context) (repository.PendingSchools, error) {
	if err := ctx.Err(); err != nil {
		return repository.PendingSchools{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.unauthorized {
		return repository.PendingSchools{Unauthorized: true}, nil
	}
	return repository.PendingSchools{Schools: append([]school.School(nil), s.pending...)}, nil
}

// SetPending replaces the pending queue (test helper).
func (s *SchoolStore) SetPending(pending []school.School) {
	s.mu.Lock()
	s.pending = append([]school.School(nil), pending...)
	s.mu.Unlock()
}

// SetUnauthorized makes PendingSchools report the unauthorized variant.
func (s *SchoolStore) SetUnauthorized(v bool) {
	s.mu.Lock()
	s.unauthorized = v
	s.mu.Unlock()
}

// Put inserts or replaces a school.
func (s *SchoolStore) Put(sc school.School) {
	s.mu.Lock()
	s.schools[sc.ID] = sc
	s.mu.Unlock()
}

// Delete removes a school, making its memberships unselectable.
func (s *SchoolStore) Delete(id string) {
	s.mu.Lock()
	delete(s.schools, id)
	s.mu.Unlock()
}

// RosterProvider is an in-memory repository.RosterProvider keyed by class.
type RosterProvider struct {
	mu      sync.RWMutex
	rosters map[string][]student.Student
}

func NewRosterProvider() *RosterProvider {
	return &RosterProvider{rosters: make(map[string][]student.Student)}
}

var _ repository.RosterProvider = (*RosterProvider)(nil)

func (p *RosterProvider) StudentsByClass(ctx context.Context, classID string) ([]student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if classID == "" {
		return nil, fmt.Errorf("%w: class id is required", domainError.ErrInvalidInput)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]student.Student(nil), p.rosters[classID]...), nil
}

// SetRoster replaces the roster for a class.
func (p *RosterProvider) SetRoster(classID string, students []student.Student) {
	p.mu.Lock()
	p.rosters[classID] = append([]student.Student(nil), students...)
	p.mu.Unlock()
}
