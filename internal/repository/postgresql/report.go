package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/report"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) GetMonthlyAttendance(ctx context.Context, employeeIDs []string, periodStart, periodEnd time.Time) ([]report.EmployeeSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH attendance_summary AS (
			SELECT
				employee_id,
				COUNT(*) FILTER (WHERE check_in_at IS NOT NULL) AS days_present,
				COUNT(*) FILTER (WHERE late_minutes IS NOT NULL) AS days_late,
				COUNT(*) FILTER (WHERE status = 'absent') AS days_absent,
				COALESCE(SUM(worked_hours), 0) AS worked_hours,
				COALESCE(SUM(overtime_hours), 0) AS overtime_hours
			FROM attendance_records
			WHERE date >= $1 AND date <= $2
			GROUP BY employee_id
		),
		adjustment_summary AS (
			SELECT
				employee_id,
				COALESCE(SUM(amount), 0) AS net_adjustments
			FROM pay_adjustments
			WHERE date >= $1 AND date <= $2
			GROUP BY employee_id
		)
		SELECT
			e.id,
			e.full_name,
			COALESCE(a.days_present, 0),
			COALESCE(a.days_late, 0),
			COALESCE(a.days_absent, 0),
			COALESCE(a.worked_hours, 0),
			COALESCE(a.overtime_hours, 0),
			COALESCE(adj.net_adjustments, 0)
		FROM employees e
		LEFT JOIN attendance_summary a ON a.employee_id = e.id
		LEFT JOIN adjustment_summary adj ON adj.employee_id = e.id
		WHERE ($3::text[] IS NULL OR e.id = ANY($3))
		ORDER BY e.full_name`

	var scoped any
	if len(employeeIDs) > 0 {
		scoped = employeeIDs
	}

	rows, err := q.Query(ctx, query, periodStart, periodEnd, scoped)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly attendance: %w", err)
	}
	defer rows.Close()

	var summaries []report.EmployeeSummary
	for rows.Next() {
		var s report.EmployeeSummary
		if err := rows.Scan(
			&s.EmployeeID,
			&s.EmployeeName,
			&s.DaysPresent,
			&s.DaysLate,
			&s.DaysAbsent,
			&s.WorkedHours,
			&s.OvertimeHours,
			&s.NetAdjustments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	return summaries, nil
}
