package attendance

import (
	"errors"
	"testing"
	"time"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input     string
		want      Status
		expectErr error
	}{
		{input: "present", want: StatusPresent},
		{input: "Present", want: StatusPresent},
		{input: "ABSENT", want: StatusAbsent},
		{input: " late ", want: StatusLate},
		{input: "Excused", want: StatusExcused},
		{input: "vacation", expectErr: domainError.ErrUnknownStatus},
		{input: "", expectErr: domainError.ErrUnknownStatus},
	}

	for _, tc := range tests {
		got, err := ParseStatus(tc.input)
		if tc.expectErr != nil {
			if !errors.Is(err, tc.expectErr) {
				t.Errorf("ParseStatus(%q) error = %v, want %v", tc.input, err, tc.expectErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStatusWire(t *testing.T) {
	if got := StatusPresent.Wire(); got != "Present" {
		t.Errorf("Wire() = %q, want Present", got)
	}
	if got := StatusExcused.Wire(); got != "Excused" {
		t.Errorf("Wire() = %q, want Excused", got)
	}
}

func TestParseDay(t *testing.T) {
	if got, err := ParseDay("2025-03-14"); err != nil || got != Day("2025-03-14") {
		t.Errorf("ParseDay plain = %q, %v", got, err)
	}
	// RFC3339 timestamps collapse to the calendar day.
	if got, err := ParseDay("2025-03-14T09:30:00Z"); err != nil || got != Day("2025-03-14") {
		t.Errorf("ParseDay rfc3339 = %q, %v", got, err)
	}
	if _, err := ParseDay("14/03/2025"); !errors.Is(err, domainError.ErrInvalidInput) {
		t.Errorf("ParseDay(14/03/2025) error = %v, want ErrInvalidInput", err)
	}
}

func TestDayOf(t *testing.T) {
	at := time.Date(2025, time.March, 14, 23, 59, 0, 0, time.UTC)
	if got := DayOf(at); got != Day("2025-03-14") {
		t.Errorf("DayOf = %q, want 2025-03-14", got)
	}
}

func TestRecordKey(t *testing.T) {
	a := Record{ID: "r1", StudentID: "s1", ClassID: "c1", Date: "2025-03-14", Status: StatusPresent}
	b := Record{ID: "r2", StudentID: "s1", ClassID: "c1", Date: "2025-03-14", Status: StatusAbsent}
	if a.Key() != b.Key() {
		t.Error("records with same student/class/date must share a key")
	}
	c := Record{StudentID: "s1", ClassID: "c1", Date: "2025-03-15"}
	if a.Key() == c.Key() {
		t.Error("different dates must produce different keys")
	}
}
