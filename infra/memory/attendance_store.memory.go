// infra/memory/attendance_store.memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vuthysan/school-management-system-sub000/domain/attendance"
	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// AttendanceStore is an in-memory repository.AttendanceStore honoring the
// same natural-key upsert contract as the PostgreSQL implementation. Used as
// the primary test fixture and for demo wiring.
type AttendanceStore struct {
	mu      sync.RWMutex
	records map[attendance.Key]attendance.Record
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{records: make(map[attendance.Key]attendance.Record)}
}

var _ repository.AttendanceStore = (*AttendanceStore)(nil)

func (s *AttendanceStore) ByClassAndDate(ctx context.Context, classID string, day attendance.Day) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if classID == "" || day == "" {
		return nil, fmt.Errorf("%w: class and date are required", domainError.ErrInvalidInput)
	}
	day, err := attendance.ParseDay(string(day))
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []attendance.Record
	for key, rec := range s.records {
		if key.ClassID == classID && key.Date == day {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (s *AttendanceStore) ByStudent(ctx context.Context, studentID string, start, end attendance.Day) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", domainError.ErrInvalidInput)
	}
	if start != "" {
		var err error
		if start, err = attendance.ParseDay(string(start)); err != nil {
			return nil, err
		}
	}
	if end != "" {
		var err error
		if end, err = attendance.ParseDay(string(end)); err != nil {
			return nil, err
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []attendance.Record
	for key, rec := range s.records {
		if key.StudentID != studentID {
			continue
		}
		if start != "" && key.Date < start {
			continue
		}
		if end != "" && key.Date > end {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *AttendanceStore) BulkUpsert(ctx context.Context, classID string, day attendance.Day, markedBy string, marks []attendance.Mark) (repository.BulkResult, error) {
	if err := ctx.Err(); err != nil {
		return repository.BulkResult{}, err
	}
	if classID == "" || day == "" || markedBy == "" {
		return repository.BulkResult{}, fmt.Errorf("%w: class, date and markedBy are required", domainError.ErrInvalidInput)
	}
	// Strip any time-of-day the caller supplied: the natural key is the
	// calendar day, so "2025-03-14T09:00:00Z" and "2025-03-14" must hit the
	// same row.
	day, err := attendance.ParseDay(string(day))
	if err != nil {
		return repository.BulkResult{}, err
	}
	for _, m := range marks {
		if m.StudentID == "" || m.Status == "" {
			return repository.BulkResult{}, fmt.Errorf("%w: incomplete mark", domainError.ErrInvalidInput)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range marks {
		s.upsertLocked(attendance.Record{
			StudentID: m.StudentID,
			ClassID:   classID,
			Date:      day,
			Status:    m.Status,
			Remarks:   m.Remarks,
			MarkedBy:  markedBy,
		})
	}
	return repository.BulkResult{Success: true, Count: len(marks)}, nil
}

// upsertLocked keeps the existing identifier when the natural key already
// has a row, so repeated marks never duplicate.
func (s *AttendanceStore) upsertLocked(rec attendance.Record) attendance.Record {
	key := rec.Key()
	if existing, ok := s.records[key]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = uuid.NewString()
	}
	s.records[key] = rec
	return rec
}

func (s *AttendanceStore) Mark(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}
	if rec.StudentID == "" || rec.ClassID == "" || rec.Date == "" {
		return attendance.Record{}, fmt.Errorf("%w: student, class and date are required", domainError.ErrInvalidInput)
	}
	day, err := attendance.ParseDay(string(rec.Date))
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Date = day
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(rec), nil
}

func (s *AttendanceStore) Update(ctx context.Context, id string, status attendance.Status, remarks string) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range s.records {
		if rec.ID == id {
			rec.Status = status
			rec.Remarks = remarks
			s.records[key] = rec
			return rec, nil
		}
	}
	return attendance.Record{}, fmt.Errorf("%w: attendance record %s", domainError.ErrNotFound, id)
}

func (s *AttendanceStore) SummaryByClass(ctx context.Context, classID string, month time.Month, year int) (repository.Summary, error) {
	if err := ctx.Err(); err != nil {
		return repository.Summary{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum repository.Summary
	days := make(map[attendance.Day]bool)
	for key, rec := range s.records {
		if key.ClassID != classID {
			continue
		}
		t, err := time.Parse("2006-01-02", string(key.Date))
		if err != nil || t.Month() != month || t.Year() != year {
			continue
		}
		days[key.Date] = true
		switch rec.Status {
		case attendance.StatusPresent:
			sum.PresentCount++
		case attendance.StatusAbsent:
			sum.AbsentCount++
		case attendance.StatusLate:
			sum.LateCount++
		case attendance.StatusExcused:
			sum.ExcusedCount++
		}
	}
	sum.TotalDays = len(days)
	total := sum.PresentCount + sum.AbsentCount + sum.LateCount + sum.ExcusedCount
	if total > 0 {
		sum.AttendanceRate = float64(sum.PresentCount) / float64(total) * 100
	}
	return sum, nil
}

// Len reports the number of stored records (test helper).
func (s *AttendanceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
