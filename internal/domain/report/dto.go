package report

import (
	"context"
	"fmt"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

// ReportService renders scope-constrained monthly attendance summaries.
type ReportService interface {
	MonthlyAttendance(ctx context.Context, scope user.Scope, req MonthlyAttendanceRequest) (MonthlyAttendanceReport, error)

	// MonthlyAttendancePDF renders the same report as a PDF document.
	MonthlyAttendancePDF(ctx context.Context, scope user.Scope, req MonthlyAttendanceRequest) ([]byte, error)
}

type MonthlyAttendanceRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyAttendanceReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Employees []EmployeeSummary `json:"employees"`
}

// EmployeeSummary is one employee's aggregated month.
type EmployeeSummary struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	DaysPresent    int     `json:"days_present"`
	DaysLate       int     `json:"days_late"`
	DaysAbsent     int     `json:"days_absent"`
	WorkedHours    float64 `json:"worked_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	NetAdjustments float64 `json:"net_adjustments"`
}
