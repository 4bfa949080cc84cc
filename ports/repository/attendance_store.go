// ports/repository/attendance_store.go
package repository

import (
	"context"
	"time"

	"github.com/vuthysan/school-management-system-sub000/domain/attendance"
)

// BulkResult is the outcome of a bulk upsert. The batch is atomic from the
// caller's perspective: either Count rows are reflected, or the call errored
// and none are.
type BulkResult struct {
	Success bool
	Count   int
}

// Summary is the monthly aggregate for one class.
type Summary struct {
	TotalDays      int
	PresentCount   int
	AbsentCount    int
	LateCount      int
	ExcusedCount   int
	AttendanceRate float64 // percentage of present marks over all marks
}

// AttendanceStore reads and writes attendance records, enforcing the
// natural-key upsert discipline: at most one record per
// (studentID, classID, day), with repeated marks updating the row in place.
type AttendanceStore interface {
	// ByClassAndDate returns the empty set, not an error, when no rows exist
	// yet for the pair.
	ByClassAndDate(ctx context.Context, classID string, day attendance.Day) ([]attendance.Record, error)

	// ByStudent returns the student's records within [start, end]. Empty
	// bounds leave that side of the range open.
	ByStudent(ctx context.Context, studentID string, start, end attendance.Day) ([]attendance.Record, error)

	// BulkUpsert applies the whole batch for one (classID, day) pair,
	// overwriting status/remarks/markedBy on existing natural keys and
	// inserting rows for new ones. A failure means none of the batch is
	// visible to the caller.
	BulkUpsert(ctx context.Context, classID string, day attendance.Day, markedBy string, marks []attendance.Mark) (BulkResult, error)

	// Mark creates or updates the single record for rec's natural key.
	Mark(ctx context.Context, rec attendance.Record) (attendance.Record, error)

	// Update edits one record by storage identifier.
	Update(ctx context.Context, id string, status attendance.Status, remarks string) (attendance.Record, error)

	SummaryByClass(ctx context.Context, classID string, month time.Month, year int) (Summary, error)
}
