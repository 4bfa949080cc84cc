package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vuthysan/school-management-system-sub000/domain/attendance"
	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/membership"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

func TestAttendanceStoreNaturalKeyUpsert(t *testing.T) {
	store := NewAttendanceStore()
	ctx := context.Background()
	day := attendance.Day("2025-03-14")

	marks := []attendance.Mark{
		{StudentID: "alice", Status: attendance.StatusPresent},
		{StudentID: "bob", Status: attendance.StatusAbsent, Remarks: "sick"},
	}
	res, err := store.BulkUpsert(ctx, "class-7a", day, "teacher-1", marks)
	if err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	if !res.Success || res.Count != 2 {
		t.Errorf("result = %+v", res)
	}

	first, err := store.ByClassAndDate(ctx, "class-7a", day)
	if err != nil {
		t.Fatalf("ByClassAndDate: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d records, want 2", len(first))
	}

	// Marking the same (student, class, day) again updates in place and keeps
	// the original identifier.
	marks[1].Status = attendance.StatusLate
	if _, err := store.BulkUpsert(ctx, "class-7a", day, "teacher-2", marks); err != nil {
		t.Fatalf("second BulkUpsert: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("store holds %d records after re-mark, want 2", store.Len())
	}
	second, _ := store.ByClassAndDate(ctx, "class-7a", day)
	for i := range first {
		if second[i].ID != first[i].ID {
			t.Errorf("record %s changed id on upsert: %s -> %s", first[i].StudentID, first[i].ID, second[i].ID)
		}
	}
	if second[1].Status != attendance.StatusLate || second[1].MarkedBy != "teacher-2" {
		t.Errorf("bob after re-mark = %+v", second[1])
	}

	// A different day is a different row.
	if _, err := store.Mark(ctx, attendance.Record{
		StudentID: "alice", ClassID: "class-7a", Date: "2025-03-15", Status: attendance.StatusPresent,
	}); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if store.Len() != 3 {
		t.Errorf("store holds %d records, want 3", store.Len())
	}
}

func TestAttendanceStoreNormalizesTimestampDates(t *testing.T) {
	store := NewAttendanceStore()
	ctx := context.Background()
	marks := []attendance.Mark{{StudentID: "alice", Status: attendance.StatusPresent}}

	if _, err := store.BulkUpsert(ctx, "class-7a", "2025-03-14", "teacher-1", marks); err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	// A timestamp-shaped date for the same calendar day must hit the same
	// row, not create a sibling under a second key.
	marks[0].Status = attendance.StatusLate
	if _, err := store.BulkUpsert(ctx, "class-7a", "2025-03-14T09:00:00Z", "teacher-1", marks); err != nil {
		t.Fatalf("BulkUpsert with timestamp date: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("same calendar day produced %d records, want 1", store.Len())
	}

	// Reads normalize the same way.
	got, err := store.ByClassAndDate(ctx, "class-7a", "2025-03-14T23:59:00Z")
	if err != nil {
		t.Fatalf("ByClassAndDate with timestamp date: %v", err)
	}
	if len(got) != 1 || got[0].Status != attendance.StatusLate {
		t.Errorf("records = %+v, want the single updated row", got)
	}

	// Unparseable dates are rejected, never keyed raw.
	if _, err := store.BulkUpsert(ctx, "class-7a", "14/03/2025", "teacher-1", marks); !errors.Is(err, domainError.ErrInvalidInput) {
		t.Errorf("malformed date error = %v, want ErrInvalidInput", err)
	}
	if _, err := store.Mark(ctx, attendance.Record{
		StudentID: "alice", ClassID: "class-7a", Date: "not-a-date", Status: attendance.StatusPresent,
	}); !errors.Is(err, domainError.ErrInvalidInput) {
		t.Errorf("malformed Mark date error = %v, want ErrInvalidInput", err)
	}
}

func TestAttendanceStoreUpdate(t *testing.T) {
	store := NewAttendanceStore()
	ctx := context.Background()
	rec, err := store.Mark(ctx, attendance.Record{
		StudentID: "alice", ClassID: "class-7a", Date: "2025-03-14", Status: attendance.StatusPresent,
	})
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}

	updated, err := store.Update(ctx, rec.ID, attendance.StatusExcused, "family")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != attendance.StatusExcused || updated.Remarks != "family" {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := store.Update(ctx, "missing-id", attendance.StatusLate, ""); !errors.Is(err, domainError.ErrNotFound) {
		t.Errorf("missing id error = %v, want ErrNotFound", err)
	}
}

func TestAttendanceStoreByStudentRange(t *testing.T) {
	store := NewAttendanceStore()
	ctx := context.Background()
	for _, day := range []attendance.Day{"2025-03-10", "2025-03-14", "2025-03-20"} {
		if _, err := store.Mark(ctx, attendance.Record{
			StudentID: "alice", ClassID: "class-7a", Date: day, Status: attendance.StatusPresent,
		}); err != nil {
			t.Fatalf("Mark %s: %v", day, err)
		}
	}

	got, err := store.ByStudent(ctx, "alice", "2025-03-11", "2025-03-20")
	if err != nil {
		t.Fatalf("ByStudent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records in range, want 2", len(got))
	}
	if got[0].Date != "2025-03-14" || got[1].Date != "2025-03-20" {
		t.Errorf("range order = %s, %s", got[0].Date, got[1].Date)
	}
}

func TestAttendanceStoreSummary(t *testing.T) {
	store := NewAttendanceStore()
	ctx := context.Background()
	seed := []struct {
		student string
		day     attendance.Day
		status  attendance.Status
	}{
		{"alice", "2025-03-14", attendance.StatusPresent},
		{"bob", "2025-03-14", attendance.StatusAbsent},
		{"alice", "2025-03-15", attendance.StatusPresent},
		{"bob", "2025-03-15", attendance.StatusLate},
		{"alice", "2025-04-01", attendance.StatusPresent}, // outside the month
	}
	for _, s := range seed {
		if _, err := store.Mark(ctx, attendance.Record{
			StudentID: s.student, ClassID: "class-7a", Date: s.day, Status: s.status,
		}); err != nil {
			t.Fatalf("Mark: %v", err)
		}
	}

	sum, err := store.SummaryByClass(ctx, "class-7a", time.March, 2025)
	if err != nil {
		t.Fatalf("SummaryByClass: %v", err)
	}
	want := repository.Summary{TotalDays: 2, PresentCount: 2, AbsentCount: 1, LateCount: 1, AttendanceRate: 50}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
}

func TestMembershipStoreLifecycle(t *testing.T) {
	store := NewMembershipStore()
	ctx := context.Background()

	m, err := store.AddMember(ctx, repository.AddMemberInput{
		SchoolID: "sch-a", UserID: "u2", Role: membership.RoleTeacher,
	})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if m.ID == "" || m.Status != membership.StatusActive {
		t.Errorf("added member = %+v", m)
	}

	m, err = store.UpdateMemberRole(ctx, m.ID, membership.RoleHeadTeacher)
	if err != nil {
		t.Fatalf("UpdateMemberRole: %v", err)
	}
	if m.Role != membership.RoleHeadTeacher {
		t.Errorf("role = %q, want HeadTeacher", m.Role)
	}

	removed, err := store.RemoveMember(ctx, m.ID)
	if err != nil || !removed {
		t.Fatalf("RemoveMember = %v, %v", removed, err)
	}
	// Removing again reports false without error.
	removed, err = store.RemoveMember(ctx, m.ID)
	if err != nil || removed {
		t.Errorf("second RemoveMember = %v, %v", removed, err)
	}
}

func TestMembershipStoreRejectsDuplicateGrant(t *testing.T) {
	store := NewMembershipStore()
	ctx := context.Background()
	in := repository.AddMemberInput{SchoolID: "sch-a", UserID: "u2", Role: membership.RoleTeacher}

	if _, err := store.AddMember(ctx, in); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	// A second grant for the same (user, school) pair is refused even with a
	// different role; one membership per school per user.
	in.Role = membership.RoleAdmin
	if _, err := store.AddMember(ctx, in); !errors.Is(err, domainError.ErrDuplicateMembership) {
		t.Fatalf("duplicate grant error = %v, want ErrDuplicateMembership", err)
	}
	got, err := store.MyMemberships(ctx)
	if err != nil {
		t.Fatalf("MyMemberships: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("directory holds %d memberships for one school, want 1", len(got))
	}
	if got[0].Role != membership.RoleTeacher {
		t.Errorf("role = %q, the refused grant must not change it", got[0].Role)
	}

	// The same user in another school is a separate, valid membership.
	if _, err := store.AddMember(ctx, repository.AddMemberInput{
		SchoolID: "sch-b", UserID: "u2", Role: membership.RoleTeacher,
	}); err != nil {
		t.Errorf("grant in a different school: %v", err)
	}
}
