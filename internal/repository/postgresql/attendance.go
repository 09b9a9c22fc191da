package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

const uniqueViolation = "23505"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}

const recordColumns = `
	id, employee_id, date, check_in_at, check_out_at, status,
	worked_hours, overtime_hours, late_minutes, created_at, updated_at
`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInAt, &rec.CheckOutAt, &rec.Status,
		&rec.WorkedHours, &rec.OvertimeHours, &rec.LateMinutes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.RecordRepository. The unique
// (employee_id, date) index is the mutual exclusion: under concurrent
// check-ins exactly one insert wins, the rest surface ErrDuplicateCheckIn.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, check_in_at, status, worked_hours, overtime_hours, late_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date,
		rec.CheckInAt,
		rec.Status,
		rec.WorkedHours,
		rec.OvertimeHours,
		rec.LateMinutes,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Record{}, attendance.ErrDuplicateCheckIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return rec, nil
}

// Close implements attendance.RecordRepository. The WHERE check_out_at IS
// NULL condition decides the check-out race at the storage layer: at most
// one caller matches the row.
func (r *attendanceRepository) Close(ctx context.Context, employeeID string, date time.Time, checkOutAt time.Time, workedHours, overtimeHours float64) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET check_out_at = $3,
		    status = $4,
		    worked_hours = $5,
		    overtime_hours = $6,
		    updated_at = NOW()
		WHERE employee_id = $1
		  AND date = $2
		  AND check_in_at IS NOT NULL
		  AND check_out_at IS NULL
		RETURNING ` + recordColumns

	rec, err := scanRecord(q.QueryRow(ctx, query,
		employeeID, date, checkOutAt, attendance.StatusCheckedOut, workedHours, overtimeHours,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNoCheckInFound
		}
		return attendance.Record{}, fmt.Errorf("failed to close attendance record: %w", err)
	}
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.RecordRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &rec, nil
}

// GetByID implements attendance.RecordRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE id = $1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by id: %w", err)
	}
	return rec, nil
}

// Update implements attendance.RecordRepository, for administrative
// corrections only.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET check_in_at = $2,
		    check_out_at = $3,
		    status = $4,
		    worked_hours = $5,
		    overtime_hours = $6,
		    late_minutes = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + recordColumns

	updated, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID, rec.CheckInAt, rec.CheckOutAt, rec.Status, rec.WorkedHours, rec.OvertimeHours, rec.LateMinutes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return updated, nil
}

// List implements attendance.RecordRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.EmployeeIDs) > 0 {
		where += " AND a.employee_id = ANY(" + arg(filter.EmployeeIDs) + ")"
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += " AND a.employee_id = " + arg(*filter.EmployeeID)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		where += " AND a.date >= " + arg(*filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += " AND a.date <= " + arg(*filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		where += " AND a.status = " + arg(*filter.Status)
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records a " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query := `
		SELECT a.id, a.employee_id, a.date, a.check_in_at, a.check_out_at, a.status,
		       a.worked_hours, a.overtime_hours, a.late_minutes, a.created_at, a.updated_at,
		       e.full_name AS employee_name
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		` + where + `
		ORDER BY a.date DESC, e.full_name ASC
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg((filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInAt, &rec.CheckOutAt, &rec.Status,
			&rec.WorkedHours, &rec.OvertimeHours, &rec.LateMinutes, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

// ListRecordedEmployeeIDs implements attendance.RecordRepository.
func (r *attendanceRepository) ListRecordedEmployeeIDs(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id FROM attendance_records WHERE date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list recorded employees: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
