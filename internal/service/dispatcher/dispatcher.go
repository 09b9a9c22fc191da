package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/notification"
	"github.com/tempohq/attendance-backend-go/internal/domain/payroll"
)

// Dispatcher turns committed attendance transitions into their side effects:
// notifications and pay adjustments. Each transition ID is claimed in storage
// before any effect runs, so a replayed transition produces nothing. Effects
// never fail or roll back the originating transition; failures are logged and
// the state machine stays authoritative.
type Dispatcher struct {
	log             attendance.TransitionLog
	notificationSvc notification.Service
	payrollRepo     payroll.Repository
	employeeRepo    employee.EmployeeRepository
	logger          *slog.Logger
}

func NewDispatcher(
	log attendance.TransitionLog,
	notificationSvc notification.Service,
	payrollRepo payroll.Repository,
	employeeRepo employee.EmployeeRepository,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		log:             log,
		notificationSvc: notificationSvc,
		payrollRepo:     payrollRepo,
		employeeRepo:    employeeRepo,
		logger:          logger,
	}
}

// OnTransition implements attendance.TransitionSink.
func (d *Dispatcher) OnTransition(ctx context.Context, t attendance.Transition) {
	first, err := d.log.Claim(ctx, t.ID)
	if err != nil {
		d.logger.Error("failed to claim transition",
			slog.String("transition_id", t.ID),
			slog.String("employee_id", t.EmployeeID),
			slog.Any("error", err))
		return
	}
	if !first {
		d.logger.Debug("transition already dispatched",
			slog.String("transition_id", t.ID))
		return
	}

	switch t.Kind {
	case attendance.TransitionCheckedIn:
		d.onCheckedIn(ctx, t)
	case attendance.TransitionCheckedOut:
		d.onCheckedOut(ctx, t)
	case attendance.TransitionMarkedAbsent:
		d.onMarkedAbsent(ctx, t)
	}
}

func (d *Dispatcher) onCheckedIn(ctx context.Context, t attendance.Transition) {
	if !t.Verdict.IsLate {
		return
	}

	emp, err := d.employeeRepo.GetByID(ctx, t.EmployeeID)
	if err != nil {
		d.logError(t, "resolve employee", err)
		return
	}

	d.notifyWithManager(ctx, t, emp,
		&notification.Notification{
			RecipientID: emp.ID,
			Title:       "Late Check-In Recorded",
			Message:     fmt.Sprintf("You checked in %d minutes after your shift start on %s.", t.Verdict.MinutesLate, t.Date.Format("2006-01-02")),
			Category:    notification.CategoryAttendanceAlert,
		},
		"Team Member Late",
		fmt.Sprintf("%s checked in %d minutes late on %s.", emp.FullName, t.Verdict.MinutesLate, t.Date.Format("2006-01-02")))
}

func (d *Dispatcher) onCheckedOut(ctx context.Context, t attendance.Transition) {
	emp, err := d.employeeRepo.GetByID(ctx, t.EmployeeID)
	if err != nil {
		d.logError(t, "resolve employee", err)
		return
	}
	rate := emp.HourlyRate()

	var adjustments []*payroll.PayAdjustment

	if t.Verdict.IsOvertime {
		adjustments = append(adjustments, &payroll.PayAdjustment{
			ID:           uuid.New().String(),
			EmployeeID:   emp.ID,
			Date:         t.Date,
			Amount:       t.Verdict.OvertimeHours * rate * payroll.OvertimeMultiplier,
			Reason:       fmt.Sprintf("Overtime: %.2f hours beyond shift end", t.Verdict.OvertimeHours),
			Kind:         payroll.KindAddition,
			TransitionID: t.ID,
		})
	}

	// A late arrival settles financially at check-out, once the day is
	// complete. Deductions carry a negative amount in the ledger.
	if t.Record.LateMinutes != nil {
		adjustments = append(adjustments, &payroll.PayAdjustment{
			ID:           uuid.New().String(),
			EmployeeID:   emp.ID,
			Date:         t.Date,
			Amount:       -(rate * payroll.LateDeductionFraction),
			Reason:       fmt.Sprintf("Late arrival: %d minutes past grace", *t.Record.LateMinutes),
			Kind:         payroll.KindDeduction,
			TransitionID: t.ID,
		})
	}

	if len(adjustments) > 0 {
		if err := d.payrollRepo.AppendBatch(ctx, adjustments); err != nil {
			d.logError(t, "append pay adjustments", err)
		}
	}

	if t.Verdict.IsOvertime {
		d.notifyWithManager(ctx, t, emp,
			&notification.Notification{
				RecipientID: emp.ID,
				Title:       "Overtime Recorded",
				Message:     fmt.Sprintf("You worked %.2f overtime hours on %s. The addition has been applied to your pay.", t.Verdict.OvertimeHours, t.Date.Format("2006-01-02")),
				Category:    notification.CategoryOvertime,
			},
			"Team Member Overtime",
			fmt.Sprintf("%s worked %.2f overtime hours on %s.", emp.FullName, t.Verdict.OvertimeHours, t.Date.Format("2006-01-02")))
	}
}

func (d *Dispatcher) onMarkedAbsent(ctx context.Context, t attendance.Transition) {
	emp, err := d.employeeRepo.GetByID(ctx, t.EmployeeID)
	if err != nil {
		d.logError(t, "resolve employee", err)
		return
	}

	d.notifyWithManager(ctx, t, emp,
		&notification.Notification{
			RecipientID: emp.ID,
			Title:       "Marked Absent",
			Message:     fmt.Sprintf("You were marked absent for %s. Contact your manager if this is incorrect.", t.Date.Format("2006-01-02")),
			Category:    notification.CategoryAttendanceAlert,
		},
		"Team Member Absent",
		fmt.Sprintf("%s was marked absent for %s.", emp.FullName, t.Date.Format("2006-01-02")))
}

// notifyWithManager delivers the employee's notification together with a
// counterpart to the direct manager, when one exists, in a single batch.
func (d *Dispatcher) notifyWithManager(ctx context.Context, t attendance.Transition, emp employee.Employee, own *notification.Notification, mgrTitle, mgrMessage string) {
	ns := []*notification.Notification{own}

	mgr, err := d.employeeRepo.GetManager(ctx, emp.ID)
	switch {
	case err == nil:
		ns = append(ns, &notification.Notification{
			RecipientID: mgr.ID,
			Title:       mgrTitle,
			Message:     mgrMessage,
			Category:    own.Category,
		})
	case !errors.Is(err, employee.ErrManagerNotFound):
		d.logError(t, "resolve manager", err)
	}

	if len(ns) == 1 {
		if err := d.notificationSvc.Notify(ctx, ns[0]); err != nil {
			d.logError(t, "send notification", err)
		}
		return
	}
	if err := d.notificationSvc.NotifyBatch(ctx, ns); err != nil {
		d.logError(t, "send notifications", err)
	}
}

func (d *Dispatcher) logError(t attendance.Transition, op string, err error) {
	d.logger.Error("dispatch side effect failed",
		slog.String("op", op),
		slog.String("transition_id", t.ID),
		slog.String("employee_id", t.EmployeeID),
		slog.Any("error", err))
}

var _ attendance.TransitionSink = (*Dispatcher)(nil)
