// ports/repository/roster_provider.go
package repository

import (
	"context"

	"github.com/vuthysan/school-management-system-sub000/domain/student"
)

// RosterProvider returns the ordered set of students enrolled in a class.
// List order is the backend's order; the core never re-sorts it.
type RosterProvider interface {
	StudentsByClass(ctx context.Context, classID string) ([]student.Student, error)
}
