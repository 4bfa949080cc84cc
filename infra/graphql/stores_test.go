package graphql

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/vuthysan/school-management-system-sub000/domain/attendance"
	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/membership"
)

func TestMembershipStoreMyMemberships(t *testing.T) {
	envelope := `{"data":{"myMemberships":[
		{"id":"m1","userId":"u1","schoolId":"sch-a","role":"TEACHER","status":"active","permissions":["attendance:write"]},
		{"id":"m2","userId":"u1","schoolId":"sch-b","branchId":"br-1","role":"owner","status":"ACTIVE","title":"Founder"}
	]}}`
	srv := fakeBackend(t, http.StatusOK, envelope, nil)
	defer srv.Close()

	store := NewMembershipStore(testClient(srv.URL))
	got, err := store.MyMemberships(context.Background())
	if err != nil {
		t.Fatalf("MyMemberships: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d memberships, want 2", len(got))
	}
	// Backend casing folds into the closed enums.
	if got[0].Role != membership.RoleTeacher || got[0].Status != membership.StatusActive {
		t.Errorf("m1 = role %q status %q", got[0].Role, got[0].Status)
	}
	if got[1].Role != membership.RoleOwner || got[1].BranchID != "br-1" {
		t.Errorf("m2 = role %q branch %q", got[1].Role, got[1].BranchID)
	}
}

func TestMembershipStoreRejectsUnknownRole(t *testing.T) {
	envelope := `{"data":{"myMemberships":[{"id":"m1","schoolId":"sch-a","role":"superhero","status":"active"}]}}`
	srv := fakeBackend(t, http.StatusOK, envelope, nil)
	defer srv.Close()

	store := NewMembershipStore(testClient(srv.URL))
	_, err := store.MyMemberships(context.Background())
	if !errors.Is(err, domainError.ErrUnknownRole) {
		t.Errorf("unknown role error = %v, want ErrUnknownRole", err)
	}
}

func TestMembershipStoreSearchUser(t *testing.T) {
	srv := fakeBackend(t, http.StatusOK, `{"data":{"searchUser":null}}`, nil)
	defer srv.Close()

	store := NewMembershipStore(testClient(srv.URL))
	u, err := store.SearchUser(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("SearchUser: %v", err)
	}
	// No match is a nil principal, not an error.
	if u != nil {
		t.Errorf("expected nil principal, got %+v", u)
	}

	// An empty query is a caller bug, rejected like every other missing input.
	if _, err := store.SearchUser(context.Background(), ""); !errors.Is(err, domainError.ErrInvalidInput) {
		t.Errorf("empty query error = %v, want ErrInvalidInput", err)
	}
}

func TestSchoolStoreByID(t *testing.T) {
	envelope := `{"data":{"school":{"id":"sch-a","name":{"en":"Alpha","km":"អាល់ហ្វា"},"status":"approved",
		"stats":{"totalStudents":120,"totalTeachers":9}}}}`
	srv := fakeBackend(t, http.StatusOK, envelope, nil)
	defer srv.Close()

	store := NewSchoolStore(testClient(srv.URL))
	sch, err := store.SchoolByID(context.Background(), "sch-a")
	if err != nil {
		t.Fatalf("SchoolByID: %v", err)
	}
	if !sch.Approved() {
		t.Error("expected approved school")
	}
	if sch.Name.Km == "" || sch.Name.En != "Alpha" {
		t.Errorf("localized name = %+v", sch.Name)
	}
	if sch.Stats == nil || sch.Stats.TotalStudents != 120 {
		t.Errorf("stats = %+v", sch.Stats)
	}
}

func TestSchoolStoreByIDNull(t *testing.T) {
	srv := fakeBackend(t, http.StatusOK, `{"data":{"school":null}}`, nil)
	defer srv.Close()

	store := NewSchoolStore(testClient(srv.URL))
	if _, err := store.SchoolByID(context.Background(), "sch-x"); !errors.Is(err, domainError.ErrNotFound) {
		t.Errorf("null school error = %v, want ErrNotFound", err)
	}
}

func TestSchoolStorePendingUnauthorized(t *testing.T) {
	envelope := `{"errors":[{"message":"nope","extensions":{"code":"FORBIDDEN"}}]}`
	srv := fakeBackend(t, http.StatusOK, envelope, nil)
	defer srv.Close()

	store := NewSchoolStore(testClient(srv.URL))
	got, err := store.PendingSchools(context.Background())
	if err != nil {
		t.Fatalf("PendingSchools: %v", err)
	}
	// Authorization rejection is a distinct outcome, not an empty list.
	if !got.Unauthorized {
		t.Error("expected the unauthorized variant")
	}
}

func TestAttendanceStoreBulkUpsert(t *testing.T) {
	var got capture
	srv := fakeBackend(t, http.StatusOK, `{"data":{"markBulkAttendance":{"success":true,"count":2}}}`, &got)
	defer srv.Close()

	store := NewAttendanceStore(testClient(srv.URL))
	res, err := store.BulkUpsert(context.Background(), "class-7a", "2025-03-14", "teacher-1", []attendance.Mark{
		{StudentID: "alice", Status: attendance.StatusPresent},
		{StudentID: "bob", Status: attendance.StatusAbsent, Remarks: "sick"},
	})
	if err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	if !res.Success || res.Count != 2 {
		t.Errorf("result = %+v", res)
	}
	if got.Variables["markedBy"] != "teacher-1" {
		t.Errorf("markedBy variable = %v", got.Variables["markedBy"])
	}
	records, ok := got.Variables["records"].([]any)
	if !ok || len(records) != 2 {
		t.Fatalf("records variable = %v", got.Variables["records"])
	}
	// Statuses travel wire-capitalized.
	first := records[0].(map[string]any)
	if first["status"] != "Present" {
		t.Errorf("wire status = %v, want Present", first["status"])
	}
	if _, hasRemarks := first["remarks"]; hasRemarks {
		t.Error("empty remarks must be omitted from the wire")
	}
	second := records[1].(map[string]any)
	if second["remarks"] != "sick" {
		t.Errorf("remarks = %v, want sick", second["remarks"])
	}
}

func TestAttendanceStoreNormalizesTimestampDates(t *testing.T) {
	var got capture
	srv := fakeBackend(t, http.StatusOK, `{"data":{"markBulkAttendance":{"success":true,"count":1}}}`, &got)
	defer srv.Close()

	store := NewAttendanceStore(testClient(srv.URL))
	// The natural key is day-granular: a timestamp-shaped date must travel as
	// its calendar day so the backend never splits one day into two rows.
	_, err := store.BulkUpsert(context.Background(), "class-7a", "2025-03-14T09:00:00Z", "teacher-1", []attendance.Mark{
		{StudentID: "alice", Status: attendance.StatusPresent},
	})
	if err != nil {
		t.Fatalf("BulkUpsert: %v", err)
	}
	if got.Variables["date"] != "2025-03-14" {
		t.Errorf("wire date = %v, want 2025-03-14", got.Variables["date"])
	}

	if _, err := store.BulkUpsert(context.Background(), "class-7a", "14/03/2025", "teacher-1", nil); !errors.Is(err, domainError.ErrInvalidInput) {
		t.Errorf("malformed date error = %v, want ErrInvalidInput", err)
	}
}

func TestAttendanceStoreValidatesKey(t *testing.T) {
	srv := fakeBackend(t, http.StatusOK, `{"data":{}}`, nil)
	defer srv.Close()

	store := NewAttendanceStore(testClient(srv.URL))
	if _, err := store.ByClassAndDate(context.Background(), "", "2025-03-14"); !errors.Is(err, domainError.ErrInvalidInput) {
		t.Errorf("missing class error = %v, want ErrInvalidInput", err)
	}
	if _, err := store.BulkUpsert(context.Background(), "class-7a", "", "teacher-1", nil); !errors.Is(err, domainError.ErrInvalidInput) {
		t.Errorf("missing date error = %v, want ErrInvalidInput", err)
	}
}
