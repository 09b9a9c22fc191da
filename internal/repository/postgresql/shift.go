package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

// weekdaysToText encodes active weekdays as a CSV of 1..7.
func weekdaysToText(weekdays []int) string {
	parts := make([]string, 0, len(weekdays))
	for _, wd := range weekdays {
		parts = append(parts, strconv.Itoa(wd))
	}
	return strings.Join(parts, ",")
}

func textToWeekdays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	weekdays := make([]int, 0, len(parts))
	for _, p := range parts {
		wd, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("malformed weekday set %q: %w", s, err)
		}
		weekdays = append(weekdays, wd)
	}
	return weekdays, nil
}

// GetByEmployeeID implements shift.ShiftRepository.
func (r *shiftRepository) GetByEmployeeID(ctx context.Context, employeeID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, start_time, end_time, weekdays, created_at, updated_at
		FROM shifts
		WHERE employee_id = $1
	`

	var (
		s                  shift.Shift
		startStr, endStr   string
		weekdaysStr        string
	)
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&s.ID, &s.EmployeeID, &startStr, &endStr, &weekdaysStr, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	if s.StartTime, err = shift.ParseTimeOfDay(startStr); err != nil {
		return shift.Shift{}, err
	}
	if s.EndTime, err = shift.ParseTimeOfDay(endStr); err != nil {
		return shift.Shift{}, err
	}
	if s.Weekdays, err = textToWeekdays(weekdaysStr); err != nil {
		return shift.Shift{}, err
	}
	return s, nil
}

// Upsert implements shift.ShiftRepository. The unique employee_id constraint
// gives replace-on-update semantics.
func (r *shiftRepository) Upsert(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (id, employee_id, start_time, end_time, weekdays)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id) DO UPDATE
		SET start_time = EXCLUDED.start_time,
		    end_time   = EXCLUDED.end_time,
		    weekdays   = EXCLUDED.weekdays,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID,
		s.EmployeeID,
		s.StartTime.String(),
		s.EndTime.String(),
		weekdaysToText(s.Weekdays),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to upsert shift: %w", err)
	}
	return s, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE employee_id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, start_time, end_time, weekdays, created_at, updated_at
		FROM shifts
		ORDER BY employee_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var (
			s                shift.Shift
			startStr, endStr string
			weekdaysStr      string
		)
		if err := rows.Scan(&s.ID, &s.EmployeeID, &startStr, &endStr, &weekdaysStr, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		if s.StartTime, err = shift.ParseTimeOfDay(startStr); err != nil {
			return nil, err
		}
		if s.EndTime, err = shift.ParseTimeOfDay(endStr); err != nil {
			return nil, err
		}
		if s.Weekdays, err = textToWeekdays(weekdaysStr); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}
