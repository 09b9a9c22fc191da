package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/tempohq/attendance-backend-go/internal/domain/report"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/service/scope"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	guard      *scope.Guard
	loc        *time.Location
}

func NewReportService(reportRepo report.ReportRepository, guard *scope.Guard, loc *time.Location) *ReportServiceImpl {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		guard:      guard,
		loc:        loc,
	}
}

// MonthlyAttendance implements report.ReportService.
func (s *ReportServiceImpl) MonthlyAttendance(ctx context.Context, sc user.Scope, req report.MonthlyAttendanceRequest) (report.MonthlyAttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	ids, err := s.guard.VisibleIDs(ctx, sc)
	if err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	periodStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.loc)
	periodEnd := periodStart.AddDate(0, 1, -1)

	employees, err := s.reportRepo.GetMonthlyAttendance(ctx, ids, periodStart, periodEnd)
	if err != nil {
		return report.MonthlyAttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	return report.MonthlyAttendanceReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		GeneratedAt: time.Now().In(s.loc).Format(time.RFC3339),
		Employees:   employees,
	}, nil
}

// MonthlyAttendancePDF implements report.ReportService.
func (s *ReportServiceImpl) MonthlyAttendancePDF(ctx context.Context, sc user.Scope, req report.MonthlyAttendanceRequest) ([]byte, error) {
	rep, err := s.MonthlyAttendance(ctx, sc, req)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Attendance Report - %s %d", time.Month(rep.PeriodMonth), rep.PeriodYear))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", rep.PeriodStart, rep.PeriodEnd))
	pdf.Ln(10)

	widths := []float64{80, 28, 28, 28, 32, 34, 40}
	headers := []string{"Employee", "Present", "Late", "Absent", "Worked (h)", "Overtime (h)", "Adjustments"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, emp := range rep.Employees {
		pdf.CellFormat(widths[0], 7, emp.EmployeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", emp.DaysPresent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", emp.DaysLate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", emp.DaysAbsent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%.2f", emp.WorkedHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, fmt.Sprintf("%.2f", emp.OvertimeHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 7, fmt.Sprintf("%+.2f", emp.NetAdjustments), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var _ report.ReportService = (*ReportServiceImpl)(nil)
