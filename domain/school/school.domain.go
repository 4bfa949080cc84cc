// domain/school/school.domain.go
package school

import (
	"fmt"
	"strings"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
)

// Status is the approval state of a school. Non-Approved schools must not be
// used as operational tenancy contexts even when a membership exists.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ParseStatus maps a wire-format school status onto the enumeration,
// case-insensitively, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domainError.ErrUnknownSchoolSts, s)
}

// LocalizedName is the school's display name in the languages the backend
// serves (English plus Khmer).
type LocalizedName struct {
	En string
	Km string
}

// Display returns the best available rendering of the name.
func (n LocalizedName) Display() string {
	if n.En != "" {
		return n.En
	}
	return n.Km
}

// Stats are the aggregate counters the backend computes per school.
type Stats struct {
	TotalStudents int
	TotalTeachers int
	TotalClasses  int
	TotalBranches int
}

// School is one organization a principal can operate as.
type School struct {
	ID     string
	Name   LocalizedName
	Code   string
	Type   string
	Status Status
	Stats  *Stats
}

// Approved reports whether the school is a usable tenancy context.
func (s *School) Approved() bool {
	return s != nil && s.Status == StatusApproved
}
