// domain/attendance/attendance.domain.go
package attendance

import (
	"fmt"
	"strings"
	"time"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
)

// Status is the closed attendance outcome vocabulary. The working form is
// lower-case; Wire returns the capitalized form the backend stores.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// ParseStatus normalizes a wire-format status string ("Present", "LATE", ...)
// onto the working vocabulary, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return StatusPresent, nil
	case "absent":
		return StatusAbsent, nil
	case "late":
		return StatusLate, nil
	case "excused":
		return StatusExcused, nil
	}
	return "", fmt.Errorf("%w: %q", domainError.ErrUnknownStatus, s)
}

// Wire re-capitalizes the status for the backend ("present" -> "Present").
func (s Status) Wire() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// dayLayout is the calendar-day wire format.
const dayLayout = "2006-01-02"

// Day is a calendar day. Time-of-day is not part of attendance identity, so
// every date entering the core is normalized to this granularity.
type Day string

// DayOf truncates a timestamp to its calendar day.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// ParseDay accepts either a plain calendar day or a full RFC 3339 timestamp
// and normalizes the time-of-day component away.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dayLayout, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), nil
	}
	return "", fmt.Errorf("%w: invalid date %q", domainError.ErrInvalidInput, s)
}

// Key is the natural key of an attendance record. At most one record exists
// per key; marking the same key again updates the existing row in place.
type Key struct {
	StudentID string
	ClassID   string
	Date      Day
}

// Record is one (student, class, day) attendance outcome.
type Record struct {
	ID        string
	StudentID string
	ClassID   string
	Date      Day
	Status    Status
	Remarks   string
	MarkedBy  string // principal identifier
}

// Key returns the record's natural key.
func (r Record) Key() Key {
	return Key{StudentID: r.StudentID, ClassID: r.ClassID, Date: r.Date}
}

// Mark is one entry of a bulk-upsert batch.
type Mark struct {
	StudentID string `validate:"required"`
	Status    Status `validate:"required"`
	Remarks   string
}
