// infra/postgres/attendance_store.postgres.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/vuthysan/school-management-system-sub000/domain/attendance"
	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// AttendanceStore is the PostgreSQL implementation of
// repository.AttendanceStore, for deployments that colocate the core with
// its attendance database instead of going through the GraphQL endpoint.
//
// Schema expectation: an attendance_records table with a unique index on
// (student_id, class_id, date), the natural key the upsert relies on.
type AttendanceStore struct {
	db       *sql.DB
	validate *validator.Validate
}

// NewAttendanceStore opens a connection for the given DSN and verifies it.
func NewAttendanceStore(connStr string) (*AttendanceStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	return NewAttendanceStoreWithDB(db), nil
}

// NewAttendanceStoreWithDB wraps an existing connection pool.
func NewAttendanceStoreWithDB(db *sql.DB) *AttendanceStore {
	return &AttendanceStore{db: db, validate: validator.New()}
}

var _ repository.AttendanceStore = (*AttendanceStore)(nil)

// Close closes the underlying pool.
func (s *AttendanceStore) Close() error {
	return s.db.Close()
}

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
	query := `
        SELECT id, student_id, class_id, date, status, remarks, marked_by
        FROM attendance_records
        WHERE class_id = $1 AND date = $2
        ORDER BY student_id`
	rows, err := s.db.QueryContext(ctx, query, classID, string(day))
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *AttendanceStore) ByStudent(ctx context.Context, studentID string, start, end attendance.Day) ([]attendance.Record, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", domainError.ErrInvalidInput)
	}
	// Open bounds travel as NULL; the explicit casts keep both uses of each
	// parameter deduced as date.
	var startArg, endArg any
	if start != "" {
		day, err := attendance.ParseDay(string(start))
		if err != nil {
			return nil, err
		}
		startArg = string(day)
	}
	if end != "" {
		day, err := attendance.ParseDay(string(end))
		if err != nil {
			return nil, err
		}
		endArg = string(day)
	}
	query := `
        SELECT id, student_id, class_id, date, status, remarks, marked_by
        FROM attendance_records
        WHERE student_id = $1
          AND ($2::date IS NULL OR date >= $2::date)
          AND ($3::date IS NULL OR date <= $3::date)
        ORDER BY date`
	rows, err := s.db.QueryContext(ctx, query, studentID, startArg, endArg)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// BulkUpsert applies the whole batch inside one transaction so the caller
// sees either all rows or none. Rows whose natural key already exists are
// overwritten in place, keeping their identifier.
func (s *AttendanceStore) BulkUpsert(ctx context.Context, classID string, day attendance.Day, markedBy string, marks []attendance.Mark) (repository.BulkResult, error) {
	if err := s.validate.Struct(classDateKey{ClassID: classID, Date: string(day)}); err != nil {
		return repository.BulkResult{}, fmt.Errorf("%w: class and date are required", domainError.ErrInvalidInput)
	}
	if markedBy == "" {
		return repository.BulkResult{}, fmt.Errorf("%w: markedBy is required", domainError.ErrInvalidInput)
	}
	day, err := attendance.ParseDay(string(day))
	if err != nil {
		return repository.BulkResult{}, err
	}
	for _, m := range marks {
		if err := s.validate.Struct(m); err != nil {
			return repository.BulkResult{}, fmt.Errorf("%w: mark for %q", domainError.ErrInvalidInput, m.StudentID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.BulkResult{}, fmt.Errorf("begin bulk upsert: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO attendance_records (id, student_id, class_id, date, status, remarks, marked_by, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        ON CONFLICT (student_id, class_id, date)
        DO UPDATE SET status = EXCLUDED.status,
                      remarks = EXCLUDED.remarks,
                      marked_by = EXCLUDED.marked_by,
                      updated_at = NOW()`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return repository.BulkResult{}, fmt.Errorf("prepare bulk upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range marks {
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			m.StudentID,
			classID,
			string(day),
			string(m.Status),
			m.Remarks,
			markedBy,
		); err != nil {
			return repository.BulkResult{}, fmt.Errorf("upsert mark for %s: %w", m.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return repository.BulkResult{}, fmt.Errorf("commit bulk upsert: %w", err)
	}
	return repository.BulkResult{Success: true, Count: len(marks)}, nil
}

func (s *AttendanceStore) Mark(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if rec.StudentID == "" || rec.ClassID == "" || rec.Date == "" {
		return attendance.Record{}, fmt.Errorf("%w: student, class and date are required", domainError.ErrInvalidInput)
	}
	day, err := attendance.ParseDay(string(rec.Date))
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Date = day
	query := `
        INSERT INTO attendance_records (id, student_id, class_id, date, status, remarks, marked_by, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        ON CONFLICT (student_id, class_id, date)
        DO UPDATE SET status = EXCLUDED.status,
                      remarks = EXCLUDED.remarks,
                      marked_by = EXCLUDED.marked_by,
                      updated_at = NOW()
        RETURNING id`
	var id string
	err = s.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		rec.StudentID,
		rec.ClassID,
		string(rec.Date),
		string(rec.Status),
		rec.Remarks,
		rec.MarkedBy,
	).Scan(&id)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("mark attendance: %w", err)
	}
	rec.ID = id
	return rec, nil
}

func (s *AttendanceStore) Update(ctx context.Context, id string, status attendance.Status, remarks string) (attendance.Record, error) {
	if id == "" {
		return attendance.Record{}, fmt.Errorf("%w: record id is required", domainError.ErrInvalidInput)
	}
	query := `
        UPDATE attendance_records
        SET status = $2, remarks = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING id, student_id, class_id, date, status, remarks, marked_by`
	row := s.db.QueryRowContext(ctx, query, id, string(status), remarks)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return attendance.Record{}, fmt.Errorf("%w: attendance record %s", domainError.ErrNotFound, id)
	}
	if err != nil {
		return attendance.Record{}, fmt.Errorf("update attendance: %w", err)
	}
	return rec, nil
}

func (s *AttendanceStore) SummaryByClass(ctx context.Context, classID string, month time.Month, year int) (repository.Summary, error) {
	if classID == "" {
		return repository.Summary{}, fmt.Errorf("%w: class id is required", domainError.ErrInvalidInput)
	}
	query := `
        SELECT COUNT(DISTINCT date),
               COUNT(*) FILTER (WHERE status = 'present'),
               COUNT(*) FILTER (WHERE status = 'absent'),
               COUNT(*) FILTER (WHERE status = 'late'),
               COUNT(*) FILTER (WHERE status = 'excused')
        FROM attendance_records
        WHERE class_id = $1
          AND EXTRACT(MONTH FROM date::date) = $2
          AND EXTRACT(YEAR FROM date::date) = $3`
	var sum repository.Summary
	err := s.db.QueryRowContext(ctx, query, classID, int(month), year).Scan(
		&sum.TotalDays,
		&sum.PresentCount,
		&sum.AbsentCount,
		&sum.LateCount,
		&sum.ExcusedCount,
	)
	if err != nil {
		return repository.Summary{}, fmt.Errorf("attendance summary: %w", err)
	}
	total := sum.PresentCount + sum.AbsentCount + sum.LateCount + sum.ExcusedCount
	if total > 0 {
		sum.AttendanceRate = float64(sum.PresentCount) / float64(total) * 100
	}
	return sum, nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (attendance.Record, error) {
	var (
		rec     attendance.Record
		date    string
		status  string
		remarks sql.NullString
	)
	if err := sc.Scan(&rec.ID, &rec.StudentID, &rec.ClassID, &date, &status, &remarks, &rec.MarkedBy); err != nil {
		return attendance.Record{}, err
	}
	day, err := attendance.ParseDay(date)
	if err != nil {
		return attendance.Record{}, err
	}
	st, err := attendance.ParseStatus(status)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Date = day
	rec.Status = st
	rec.Remarks = remarks.String
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]attendance.Record, error) {
	var out []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
