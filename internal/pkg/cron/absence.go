package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
)

// AbsenceJobs sweeps finished days and marks employees who had an active
// shift weekday but no attendance record as absent. Markings go through the
// state machine so the dispatcher and fan-out observe them like any other
// transition.
type AbsenceJobs struct {
	attendanceSvc  attendance.Service
	attendanceRepo attendance.RecordRepository
	shiftRepo      shift.ShiftRepository
	employeeRepo   employee.EmployeeRepository
	loc            *time.Location
}

func NewAbsenceJobs(
	attendanceSvc attendance.Service,
	attendanceRepo attendance.RecordRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
) *AbsenceJobs {
	return &AbsenceJobs{
		attendanceSvc:  attendanceSvc,
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		employeeRepo:   employeeRepo,
		loc:            loc,
	}
}

// SweepYesterday marks absences for the previous local calendar day.
func (j *AbsenceJobs) SweepYesterday(ctx context.Context) error {
	day := time.Now().In(j.loc).AddDate(0, 0, -1)
	return j.Sweep(ctx, day)
}

// Sweep marks absences for one calendar day.
func (j *AbsenceJobs) Sweep(ctx context.Context, day time.Time) error {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, j.loc)

	allIDs, err := j.employeeRepo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}

	recordedIDs, err := j.attendanceRepo.ListRecordedEmployeeIDs(ctx, day)
	if err != nil {
		return fmt.Errorf("list recorded employees: %w", err)
	}
	recorded := make(map[string]struct{}, len(recordedIDs))
	for _, id := range recordedIDs {
		recorded[id] = struct{}{}
	}

	var firstErr error
	for _, id := range allIDs {
		if _, ok := recorded[id]; ok {
			continue
		}

		sh, err := j.shiftRepo.GetByEmployeeID(ctx, id)
		if err != nil {
			if !errors.Is(err, shift.ErrShiftNotFound) {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			sh = shift.DefaultShift(id)
		}
		if !sh.ActiveOn(day) {
			continue
		}

		_, err = j.attendanceSvc.MarkAbsent(ctx, attendance.MarkAbsentRequest{
			EmployeeID: id,
			Date:       day.Format("2006-01-02"),
		})
		// A record created between the two listings loses the race; that
		// is the uniqueness invariant doing its job.
		if err != nil && !errors.Is(err, attendance.ErrDuplicateCheckIn) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
