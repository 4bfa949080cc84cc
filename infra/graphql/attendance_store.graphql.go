// infra/graphql/attendance_store.graphql.go
package graphql

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vuthysan/school-management-system-sub000/domain/attendance"
	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// AttendanceStore implements repository.AttendanceStore over the endpoint.
// Natural keys are validated and dates day-normalized before any network
// call is attempted.
type AttendanceStore struct {
	client   *Client
	validate *validator.Validate
}

func NewAttendanceStore(c *Client) *AttendanceStore {
	return &AttendanceStore{client: c, validate: validator.New()}
}

var _ repository.AttendanceStore = (*AttendanceStore)(nil)

type recordWire struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	ClassID   string `json:"classId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Remarks   string `json:"remarks"`
	MarkedBy  string `json:"markedBy"`
}

func (w recordWire) toDomain() (attendance.Record, error) {
	status, err := attendance.ParseStatus(w.Status)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("attendance %s: %w", w.ID, err)
	}
	day, err := attendance.ParseDay(w.Date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("attendance %s: %w", w.ID, err)
	}
	return attendance.Record{
		ID:        w.ID,
		StudentID: w.StudentID,
		ClassID:   w.ClassID,
		Date:      day,
		Status:    status,
		Remarks:   w.Remarks,
		MarkedBy:  w.MarkedBy,
	}, nil
}

func recordsToDomain(wires []recordWire) ([]attendance.Record, error) {
	out := make([]attendance.Record, 0, len(wires))
	for _, w := range wires {
		rec, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// classDateKey is rejected before the wire when incomplete.
type classDateKey struct {
	ClassID string `validate:"required"`
	Date    string `validate:"required"`
}

func (s *AttendanceStore) ByClassAndDate(ctx context.Context, classID string, day attendance.Day) ([]attendance.Record, error) {
	if err := s.validate.Struct(classDateKey{ClassID: classID, Date: string(day)}); err != nil {
		return nil, fmt.Errorf("%w: class and date are required", domainError.ErrInvalidInput)
	}
	day, err := attendance.ParseDay(string(day))
	if err != nil {
		return nil, err
	}
	var data struct {
		AttendanceByClass []recordWire `json:"attendanceByClass"`
	}
	vars := map[string]any{"classId": classID, "date": string(day)}
	if err := s.client.Run(ctx, opAttendanceByClass, vars, &data); err != nil {
		return nil, err
	}
	// No rows yet is a normal state, not an error.
	return recordsToDomain(data.AttendanceByClass)
}

func (s *AttendanceStore) ByStudent(ctx context.Context, studentID string, start, end attendance.Day) ([]attendance.Record, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", domainError.ErrInvalidInput)
	}
	vars := map[string]any{"studentId": studentID}
	if start != "" {
		day, err := attendance.ParseDay(string(start))
		if err != nil {
			return nil, err
		}
		vars["startDate"] = string(day)
	}
	if end != "" {
		day, err := attendance.ParseDay(string(end))
		if err != nil {
			return nil, err
		}
		vars["endDate"] = string(day)
	}
	var data struct {
		AttendanceByStudent []recordWire `json:"attendanceByStudent"`
	}
	if err := s.client.Run(ctx, opAttendanceByStudent, vars, &data); err != nil {
		return nil, err
	}
	return recordsToDomain(data.AttendanceByStudent)
}

func (s *AttendanceStore) BulkUpsert(ctx context.Context, classID string, day attendance.Day, markedBy string, marks []attendance.Mark) (repository.BulkResult, error) {
	if err := s.validate.Struct(classDateKey{ClassID: classID, Date: string(day)}); err != nil {
		return repository.BulkResult{}, fmt.Errorf("%w: class and date are required", domainError.ErrInvalidInput)
	}
	if markedBy == "" {
		return repository.BulkResult{}, fmt.Errorf("%w: markedBy is required", domainError.ErrInvalidInput)
	}
	// The natural key is day-granular: a timestamp-shaped date would split
	// one calendar day into two rows on the backend.
	day, err := attendance.ParseDay(string(day))
	if err != nil {
		return repository.BulkResult{}, err
	}
	records := make([]map[string]any, 0, len(marks))
	for _, m := range marks {
		if err := s.validate.Struct(m); err != nil {
			return repository.BulkResult{}, fmt.Errorf("%w: mark for %q", domainError.ErrInvalidInput, m.StudentID)
		}
		rec := map[string]any{
			"studentId": m.StudentID,
			"status":    m.Status.Wire(),
		}
		if m.Remarks != "" {
			rec["remarks"] = m.Remarks
		}
		records = append(records, rec)
	}
	vars := map[string]any{
		"classId":  classID,
		"date":     string(day),
		"markedBy": markedBy,
		"records":  records,
	}
	var data struct {
		MarkBulkAttendance struct {
			Success bool `json:"success"`
			Count   int  `json:"count"`
		} `json:"markBulkAttendance"`
	}
	// The mutation is atomic from our side: any error means none of the
	// batch is reported applied.
	if err := s.client.Run(ctx, opMarkBulkAttendance, vars, &data); err != nil {
		return repository.BulkResult{}, err
	}
	return repository.BulkResult{
		Success: data.MarkBulkAttendance.Success,
		Count:   data.MarkBulkAttendance.Count,
	}, nil
}

func (s *AttendanceStore) Mark(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if rec.StudentID == "" || rec.ClassID == "" || rec.Date == "" {
		return attendance.Record{}, fmt.Errorf("%w: student, class and date are required", domainError.ErrInvalidInput)
	}
	day, err := attendance.ParseDay(string(rec.Date))
	if err != nil {
		return attendance.Record{}, err
	}
	input := map[string]any{
		"studentId": rec.StudentID,
		"classId":   rec.ClassID,
		"date":      string(day),
		"status":    rec.Status.Wire(),
		"markedBy":  rec.MarkedBy,
	}
	if rec.Remarks != "" {
		input["remarks"] = rec.Remarks
	}
	var data struct {
		MarkAttendance recordWire `json:"markAttendance"`
	}
	if err := s.client.Run(ctx, opMarkAttendance, map[string]any{"input": input}, &data); err != nil {
		return attendance.Record{}, err
	}
	return data.MarkAttendance.toDomain()
}

func (s *AttendanceStore) Update(ctx context.Context, id string, status attendance.Status, remarks string) (attendance.Record, error) {
	if id == "" {
		return attendance.Record{}, fmt.Errorf("%w: record id is required", domainError.ErrInvalidInput)
	}
	vars := map[string]any{"id": id, "status": status.Wire()}
	if remarks != "" {
		vars["remarks"] = remarks
	}
	var data struct {
		UpdateAttendance recordWire `json:"updateAttendance"`
	}
	if err := s.client.Run(ctx, opUpdateAttendance, vars, &data); err != nil {
		return attendance.Record{}, err
	}
	return data.UpdateAttendance.toDomain()
}

func (s *AttendanceStore) SummaryByClass(ctx context.Context, classID string, month time.Month, year int) (repository.Summary, error) {
	if classID == "" {
		return repository.Summary{}, fmt.Errorf("%w: class id is required", domainError.ErrInvalidInput)
	}
	vars := map[string]any{"classId": classID, "month": int(month), "year": year}
	var data struct {
		AttendanceSummaryByClass repository.Summary `json:"attendanceSummaryByClass"`
	}
	if err := s.client.Run(ctx, opAttendanceSummary, vars, &data); err != nil {
		return repository.Summary{}, err
	}
	return data.AttendanceSummaryByClass, nil
}
