// app/attendance/sheet.go
package attendance

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/vuthysan/school-management-system-sub000/domain/attendance"
	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/student"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// State is the lifecycle of one (class, day) sheet.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateSaving
	StateError // load failed; no defaulting was performed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Row is one line of the editable sheet, in roster order.
type Row struct {
	Student student.Student
	Status  attendance.Status
	Remarks string
}

// sheetKey is validated before any network call is attempted.
type sheetKey struct {
	ClassID string `validate:"required"`
	Date    string `validate:"required"`
}

// Sheet merges a class roster with the day's persisted attendance records
// into a complete editable working map, and converts edits back into one
// bulk upsert batch. Switching the (class, day) pair discards unsaved edits;
// in-flight loads for a superseded pair are discarded by epoch tag.
type Sheet struct {
	roster   repository.RosterProvider
	store    repository.AttendanceStore
	validate *validator.Validate
	logger   *log.Logger

	mu       sync.Mutex
	classID  string
	day      attendance.Day
	epoch    uint64
	state    State
	students []student.Student
	statuses map[string]attendance.Status
	remarks  map[string]string
	lastErr  error
}

// NewSheet wires the engine to its roster and store collaborators.
func NewSheet(roster repository.RosterProvider, store repository.AttendanceStore, logger *log.Logger) *Sheet {
	if logger == nil {
		logger = log.New(os.Stderr, "attendance: ", log.LstdFlags)
	}
	return &Sheet{
		roster:   roster,
		store:    store,
		validate: validator.New(),
		logger:   logger,
		state:    StateUnloaded,
	}
}

// Open loads the sheet for a (class, day) pair, replacing whatever pair was
// open before. Roster and existing records are fetched concurrently. If a
// newer Open starts before this one resolves, the late result is discarded
// and ErrSuperseded returned, so it can never overwrite the newer pair's map.
func (s *Sheet) Open(ctx context.Context, classID string, day attendance.Day) error {
	if err := s.validate.Struct(sheetKey{ClassID: classID, Date: string(day)}); err != nil {
		return fmt.Errorf("%w: class and date are required", domainError.ErrInvalidInput)
	}

	s.mu.Lock()
	s.classID = classID
	s.day = day
	s.epoch++
	epoch := s.epoch
	s.state = StateLoading
	s.students = nil
	s.statuses = nil
	s.remarks = nil
	s.lastErr = nil
	s.mu.Unlock()

	var (
		students []student.Student
		records  []attendance.Record
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		students, err = s.roster.StudentsByClass(gctx, classID)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		records, err = s.store.ByClassAndDate(gctx, classID, day)
		if err != nil {
			return fmt.Errorf("load attendance: %w", err)
		}
		return nil
	})
	err := group.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.logger.Printf("discarding stale sheet load for class=%s date=%s", classID, day)
		return domainError.ErrSuperseded
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}
	s.students = students
	s.seedLocked(records)
	s.state = StateReady
	return nil
}

// seedLocked rebuilds the working map: existing records first (statuses
// normalized by the adapters), then every roster student not covered by a
// record defaults to present. Records for students no longer on the roster
// are kept so a save cannot silently drop them.
func (s *Sheet) seedLocked(records []attendance.Record) {
	s.statuses = make(map[string]attendance.Status, len(s.students))
	s.remarks = make(map[string]string)
	for _, rec := range records {
		s.statuses[rec.StudentID] = rec.Status
		if rec.Remarks != "" {
			s.remarks[rec.StudentID] = rec.Remarks
		}
	}
	for _, st := range s.students {
		if _, ok := s.statuses[st.ID]; !ok {
			s.statuses[st.ID] = attendance.StatusPresent
		}
	}
}

// SetStatus records an edit for one student. Valid only on a ready sheet.
func (s *Sheet) SetStatus(studentID string, status attendance.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return fmt.Errorf("%w: %s", domainError.ErrSheetNotReady, s.state)
	}
	if _, ok := s.statuses[studentID]; !ok {
		return fmt.Errorf("%w: student %s not on this sheet", domainError.ErrInvalidInput, studentID)
	}
	s.statuses[studentID] = status
	return nil
}

// SetRemarks attaches free-text remarks to one student's mark.
func (s *Sheet) SetRemarks(studentID, remarks string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return fmt.Errorf("%w: %s", domainError.ErrSheetNotReady, s.state)
	}
	if _, ok := s.statuses[studentID]; !ok {
		return fmt.Errorf("%w: student %s not on this sheet", domainError.ErrInvalidInput, studentID)
	}
	s.remarks[studentID] = remarks
	return nil
}

// Rows returns the sheet in roster order. Students that have a persisted
// record but left the roster are not rendered; their marks are still saved.
func (s *Sheet) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]Row, 0, len(s.students))
	for _, st := range s.students {
		rows = append(rows, Row{
			Student: st,
			Status:  s.statuses[st.ID],
			Remarks: s.remarks[st.ID],
		})
	}
	return rows
}

// Status returns the working status for one student.
func (s *Sheet) Status(studentID string) (attendance.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[studentID]
	return st, ok
}

// State returns the sheet's lifecycle state.
func (s *Sheet) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last load or save failure, if any.
func (s *Sheet) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Save converts the working map into one bulk upsert batch for the open
// (class, day) pair and, on success, refreshes the sheet from the store so
// server-side normalization is reflected instead of optimistic local state.
// On failure the working map keeps the user's pending edits for retry.
func (s *Sheet) Save(ctx context.Context, markedBy string) (repository.BulkResult, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return repository.BulkResult{}, fmt.Errorf("%w: %s", domainError.ErrSheetNotReady, s.state)
	}
	if markedBy == "" {
		s.mu.Unlock()
		return repository.BulkResult{}, fmt.Errorf("%w: markedBy is required", domainError.ErrInvalidInput)
	}
	classID, day := s.classID, s.day
	epoch := s.epoch
	marks := s.marksLocked()
	s.state = StateSaving
	s.mu.Unlock()

	res, err := s.store.BulkUpsert(ctx, classID, day, markedBy, marks)

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return repository.BulkResult{}, domainError.ErrSuperseded
	}
	if err != nil {
		// Pending edits stay in the map so nothing typed is lost.
		s.state = StateReady
		s.lastErr = err
		s.mu.Unlock()
		return repository.BulkResult{}, fmt.Errorf("save attendance: %w", err)
	}
	s.lastErr = nil
	s.mu.Unlock()

	records, err := s.store.ByClassAndDate(ctx, classID, day)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return res, domainError.ErrSuperseded
	}
	if err != nil {
		// The batch is persisted; only the refresh failed. Keep the local
		// map rather than showing an empty sheet.
		s.logger.Printf("refresh after save failed for class=%s date=%s: %v", classID, day, err)
		s.state = StateReady
		return res, nil
	}
	s.seedLocked(records)
	s.state = StateReady
	return res, nil
}

// marksLocked emits the full working map in roster order, with marks for
// students no longer on the roster appended afterwards.
func (s *Sheet) marksLocked() []attendance.Mark {
	marks := make([]attendance.Mark, 0, len(s.statuses))
	covered := make(map[string]bool, len(s.students))
	for _, st := range s.students {
		status, ok := s.statuses[st.ID]
		if !ok {
			continue
		}
		covered[st.ID] = true
		marks = append(marks, attendance.Mark{StudentID: st.ID, Status: status, Remarks: s.remarks[st.ID]})
	}
	for id, status := range s.statuses {
		if !covered[id] {
			marks = append(marks, attendance.Mark{StudentID: id, Status: status, Remarks: s.remarks[id]})
		}
	}
	return marks
}
