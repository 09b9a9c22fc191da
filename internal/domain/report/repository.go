package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access.
type ReportRepository interface {
	// GetMonthlyAttendance aggregates per-employee attendance and pay
	// adjustments over one calendar month. An empty employeeIDs slice
	// means no scope constraint.
	GetMonthlyAttendance(ctx context.Context, employeeIDs []string, periodStart, periodEnd time.Time) ([]EmployeeSummary, error)
}
